package links

import "errors"

var (
	// ErrNotFound is returned when no link has the requested code
	ErrNotFound = errors.New("link not found")
	// ErrCodeTaken is returned when a supplied code is already in use
	ErrCodeTaken = errors.New("code already exists")
	// ErrGenerationExhausted is returned when every generated code collided
	ErrGenerationExhausted = errors.New("failed to generate unique code")
)

// ValidationError represents a validation error
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
