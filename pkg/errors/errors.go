package errors

import (
	"errors"
	"fmt"
)

// Error kinds shared by the onboarding packages. Wrap them with the
// constructors below and match with errors.Is; handlers map each kind to
// one HTTP status.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")

	// ErrConflict means the resource is busy with a concurrent operation
	ErrConflict = errors.New("conflict")

	// ErrGone means the resource exists but accepts no more changes
	ErrGone = errors.New("gone")
)

// NotFoundError creates a not found error naming the resource
func NotFoundError(resource string) error {
	return fmt.Errorf("%s %w", resource, ErrNotFound)
}

// InvalidInputError creates an invalid input error for field
func InvalidInputError(field, reason string) error {
	return fmt.Errorf("%s: %s: %w", field, reason, ErrInvalidInput)
}

// ConflictError creates a conflict error with context
func ConflictError(reason string) error {
	return fmt.Errorf("%s: %w", reason, ErrConflict)
}

// GoneError creates a gone error with context
func GoneError(reason string) error {
	return fmt.Errorf("%s: %w", reason, ErrGone)
}
