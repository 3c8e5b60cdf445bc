package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/go-account-service/internal/domain/entity"
)

var (
	// ErrNotFound is returned when no user matches the lookup.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when a write would break email uniqueness.
	ErrDuplicateEmail = errors.New("email already exists")
)

// UserRepository defines the persistence contract for users.
// Every call is atomic on its own; uniqueness violations are reported
// synchronously as ErrDuplicateEmail. Any other error is opaque to callers.
type UserRepository interface {
	// Create assigns ID and timestamps on u.
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// Update overwrites every mutable field of the stored user.
	Update(ctx context.Context, u *entity.User) error
	// List returns users in the store's natural order, skipping offset.
	List(ctx context.Context, offset, limit int) ([]*entity.User, error)
	CountActive(ctx context.Context) (int64, error)
}
