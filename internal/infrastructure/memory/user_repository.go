package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/go-account-service/internal/domain/entity"
	"github.com/oksasatya/go-account-service/internal/domain/repository"
)

// UserRepository keeps users in process memory, ordered by insertion.
// Stored users are copied on the way in and out so callers never share state.
type UserRepository struct {
	mu      sync.RWMutex
	order   []string
	byID    map[string]*entity.User
	byEmail map[string]string
	now     func() time.Time
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[string]*entity.User),
		byEmail: make(map[string]string),
		now:     time.Now,
	}
}

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[u.Email]; taken {
		return repository.ErrDuplicateEmail
	}
	now := r.now().UTC()
	u.ID = uuid.NewString()
	u.CreatedAt = now
	u.UpdatedAt = now

	cp := *u
	r.byID[cp.ID] = &cp
	r.byEmail[cp.Email] = cp.ID
	r.order = append(r.order, cp.ID)
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.RLock()
	id, ok := r.byEmail[email]
	r.mu.RUnlock()
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *UserRepository) Update(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if owner, taken := r.byEmail[u.Email]; taken && owner != u.ID {
		return repository.ErrDuplicateEmail
	}
	if stored.Email != u.Email {
		delete(r.byEmail, stored.Email)
		r.byEmail[u.Email] = u.ID
	}
	u.UpdatedAt = r.now().UTC()

	cp := *u
	// creation-time fields are not writable
	cp.VerificationToken = stored.VerificationToken
	cp.CreatedAt = stored.CreatedAt
	r.byID[u.ID] = &cp
	return nil
}

func (r *UserRepository) List(_ context.Context, offset, limit int) ([]*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if offset >= len(r.order) || limit <= 0 {
		return []*entity.User{}, nil
	}
	end := len(r.order)
	if limit < end-offset {
		end = offset + limit
	}
	out := make([]*entity.User, 0, end-offset)
	for _, id := range r.order[offset:end] {
		cp := *r.byID[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (r *UserRepository) CountActive(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, u := range r.byID {
		if u.Status {
			n++
		}
	}
	return n, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
