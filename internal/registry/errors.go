package registry

import "github.com/pkg/errors"

var (
	// ErrValidation marks input rejected before any mutation.
	ErrValidation = errors.New("validation failed")
	// ErrCodeNotFound is returned when no record matches an access code.
	ErrCodeNotFound = errors.New("access code not found")
	// ErrNotFound is returned for lookups by identifier.
	ErrNotFound = errors.New("resource not found")
	// ErrCodeSpaceExhausted means every generated code collided.
	ErrCodeSpaceExhausted = errors.New("could not allocate a unique access code")
)

// ValidationError carries a message meant for the user.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(msg string) error {
	return &ValidationError{Msg: msg}
}
