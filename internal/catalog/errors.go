package catalog

import "errors"

var (
	// ErrNotFound is returned when a product or setting does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation is the parent of every ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrUnauthorized is returned when a mutation lacks a valid bearer token.
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError carries a message that is safe to show to the client.
type ValidationError struct {
	Message string
}

// NewValidationError returns a ValidationError with msg.
func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Unwrap lets errors.Is(err, ErrValidation) match.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
