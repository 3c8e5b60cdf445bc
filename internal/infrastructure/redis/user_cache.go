package redis

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-account-service/internal/domain/entity"
	"github.com/oksasatya/go-account-service/internal/domain/repository"
	"github.com/oksasatya/go-account-service/pkg/helpers"
)

func userKey(id string) string { return "user:record:" + id }

// cachedUser is the cache representation; unlike entity.User it keeps every field.
type cachedUser struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	PasswordHash      string    `json:"password_hash"`
	Role              string    `json:"role"`
	Status            bool      `json:"status"`
	VerificationToken string    `json:"verification_token"`
	Verified          bool      `json:"verified"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func toCached(u *entity.User) cachedUser {
	return cachedUser{
		ID: u.ID, Name: u.Name, Email: u.Email, PasswordHash: u.PasswordHash, Role: string(u.Role),
		Status: u.Status, VerificationToken: u.VerificationToken, Verified: u.Verified,
		CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt,
	}
}

func (c cachedUser) toEntity() *entity.User {
	return &entity.User{
		ID: c.ID, Name: c.Name, Email: c.Email, PasswordHash: c.PasswordHash, Role: entity.Role(c.Role),
		Status: c.Status, VerificationToken: c.VerificationToken, Verified: c.Verified,
		CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt,
	}
}

// CachedUserRepository is a read-through cache for GetByID in front of another
// repository. Writes go to the backing store first, then drop the cached entry.
// Redis failures are logged and fall through to the backing store.
type CachedUserRepository struct {
	next   repository.UserRepository
	rdb    *goredis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

func NewCachedUserRepository(next repository.UserRepository, rdb *goredis.Client, ttl time.Duration, logger *logrus.Logger) *CachedUserRepository {
	if logger == nil {
		logger = helpers.NewDiscardLogger()
	}
	return &CachedUserRepository{next: next, rdb: rdb, ttl: ttl, logger: logger}
}

func (r *CachedUserRepository) Create(ctx context.Context, u *entity.User) error {
	return r.next.Create(ctx, u)
}

func (r *CachedUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var cached cachedUser
	hit, err := helpers.RedisGetJSON(ctx, r.rdb, userKey(id), &cached)
	if err != nil {
		r.logger.WithError(err).WithField("user_id", id).Warn("user cache read failed")
	}
	if hit {
		return cached.toEntity(), nil
	}

	u, err := r.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := helpers.RedisSetJSON(ctx, r.rdb, userKey(id), toCached(u), r.ttl); err != nil {
		r.logger.WithError(err).WithField("user_id", id).Warn("user cache write failed")
	}
	return u, nil
}

func (r *CachedUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.next.GetByEmail(ctx, email)
}

func (r *CachedUserRepository) Update(ctx context.Context, u *entity.User) error {
	if err := r.next.Update(ctx, u); err != nil {
		return err
	}
	r.invalidate(ctx, u.ID)
	return nil
}

func (r *CachedUserRepository) List(ctx context.Context, offset, limit int) ([]*entity.User, error) {
	return r.next.List(ctx, offset, limit)
}

func (r *CachedUserRepository) CountActive(ctx context.Context) (int64, error) {
	return r.next.CountActive(ctx)
}

func (r *CachedUserRepository) invalidate(ctx context.Context, id string) {
	if err := helpers.RedisDel(ctx, r.rdb, userKey(id)); err != nil {
		r.logger.WithError(err).WithField("user_id", id).Warn("user cache invalidation failed")
	}
}

var _ repository.UserRepository = (*CachedUserRepository)(nil)
