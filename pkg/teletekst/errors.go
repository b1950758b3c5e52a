package teletekst

import (
	"errors"
	"fmt"
)

// InfrastructureError represents a presentation-level failure (SDL could not
// start, the window could not be created, etc.). These errors end the viewer.
type InfrastructureError struct {
	Op  string // Operation that failed (e.g., "init_sdl", "create_presenter")
	Err error  // Underlying error
}

func (e *InfrastructureError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("teletekst: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("teletekst: %s", e.Op)
}

func (e *InfrastructureError) Unwrap() error {
	return e.Err
}

// NewInfrastructureError creates a new infrastructure error.
func NewInfrastructureError(op string, err error) *InfrastructureError {
	return &InfrastructureError{Op: op, Err: err}
}

// IsInfrastructureError checks if an error is an infrastructure error.
func IsInfrastructureError(err error) bool {
	var infraErr *InfrastructureError
	return errors.As(err, &infraErr)
}
