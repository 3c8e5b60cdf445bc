package postgres

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-account-service/internal/domain/entity"
	"github.com/oksasatya/go-account-service/internal/domain/repository"
)

func TestMapWriteError(t *testing.T) {
	dup := &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: emailConstraint}
	assert.ErrorIs(t, mapWriteError(dup), repository.ErrDuplicateEmail)
	assert.ErrorIs(t, mapWriteError(fmt.Errorf("insert: %w", dup)), repository.ErrDuplicateEmail)

	other := &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "users_pkey"}
	assert.Same(t, other, mapWriteError(other))

	plain := errors.New("conn reset")
	assert.Same(t, plain, mapWriteError(plain))
}

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = r.values[i].(string)
		case *bool:
			*p = r.values[i].(bool)
		case *time.Time:
			*p = r.values[i].(time.Time)
		}
	}
	return nil
}

func TestScanUser(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	row := fakeRow{values: []any{"id-1", "Ann", "ann@x.io", "$2a$hash", "ADMIN_ROLE", true, "tok", false, now, now}}

	u, err := scanUser(row)
	require.NoError(t, err)
	assert.Equal(t, "id-1", u.ID)
	assert.Equal(t, entity.RoleAdmin, u.Role)
	assert.Equal(t, "tok", u.VerificationToken)
	assert.True(t, u.Status)
	assert.False(t, u.Verified)
	assert.Equal(t, now, u.CreatedAt)

	_, err = scanUser(fakeRow{err: pgx.ErrNoRows})
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}
