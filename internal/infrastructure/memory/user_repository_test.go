package memory

import (
	"context"
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-account-service/internal/domain/entity"
	"github.com/oksasatya/go-account-service/internal/domain/repository"
)

func newUser(email string) *entity.User {
	return entity.NewUser("n", email, "hash", "tok-"+email)
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepository()

	u := newUser("a@x.com")
	require.NoError(t, r.Create(ctx, u))
	require.NotEmpty(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	byID, err := r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u, byID)

	byEmail, err := r.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	// returned users are copies
	byID.Name = "changed"
	again, _ := r.GetByID(ctx, u.ID)
	assert.Equal(t, "n", again.Name)

	_, err = r.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = r.GetByEmail(ctx, "missing@x.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepository()

	a := newUser("a@x.com")
	b := newUser("b@x.com")
	require.NoError(t, r.Create(ctx, a))
	require.NoError(t, r.Create(ctx, b))
	assert.ErrorIs(t, r.Create(ctx, newUser("a@x.com")), repository.ErrDuplicateEmail)

	b.Email = "a@x.com"
	assert.ErrorIs(t, r.Update(ctx, b), repository.ErrDuplicateEmail)
}

func TestUserRepository_UpdateMovesEmailIndex(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepository()

	u := newUser("a@x.com")
	require.NoError(t, r.Create(ctx, u))

	u.Email = "c@x.com"
	u.VerificationToken = "overwritten"
	require.NoError(t, r.Update(ctx, u))

	_, err := r.GetByEmail(ctx, "a@x.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	got, err := r.GetByEmail(ctx, "c@x.com")
	require.NoError(t, err)
	assert.Equal(t, "tok-a@x.com", got.VerificationToken)

	// the old address is free again
	require.NoError(t, r.Create(ctx, newUser("a@x.com")))

	assert.ErrorIs(t, r.Update(ctx, &entity.User{ID: "missing"}), repository.ErrNotFound)
}

func TestUserRepository_ListAndCount(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepository()

	var ids []string
	for i := 0; i < 7; i++ {
		u := newUser(fmt.Sprintf("u%d@x.com", i))
		require.NoError(t, r.Create(ctx, u))
		ids = append(ids, u.ID)
	}

	page, err := r.List(ctx, 0, 5)
	require.NoError(t, err)
	require.Len(t, page, 5)
	assert.Equal(t, ids[0], page[0].ID)

	page, err = r.List(ctx, 5, 5)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, ids[6], page[1].ID)

	page, err = r.List(ctx, 10, 5)
	require.NoError(t, err)
	assert.Empty(t, page)

	u, _ := r.GetByID(ctx, ids[3])
	u.Status = false
	require.NoError(t, r.Update(ctx, u))

	n, err := r.CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(6), n)
}

func TestUserRepository_ConcurrentCreateSameEmail(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepository()

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- r.Create(ctx, newUser("same@x.com"))
		}()
	}
	wg.Wait()
	close(errs)

	ok := 0
	for err := range errs {
		if err == nil {
			ok++
		} else {
			assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
		}
	}
	assert.Equal(t, 1, ok)
}

func TestUserRepository_ListHugeLimit(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepository()
	for i := 0; i < 3; i++ {
		require.NoError(t, r.Create(ctx, newUser(fmt.Sprintf("u%d@x.com", i))))
	}

	got, err := r.List(ctx, 1, math.MaxInt)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = r.List(ctx, 0, math.MaxInt)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}
