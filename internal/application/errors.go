package application

import (
	"errors"

	"github.com/oksasatya/go-account-service/pkg/validation"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrConflict           = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrTokenMismatch      = errors.New("verification token does not match")
)

// ValidationError carries per-field messages; errors.Is(err, ErrValidation) holds.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(message string, fields map[string]string) error {
	return &ValidationError{Message: message, Fields: fields}
}

func invalidFromValidator(message string, err error) error {
	return invalid(message, validation.ToDetails(err))
}
