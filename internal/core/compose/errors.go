// Package compose validates compose descriptors by loading them with
// compose-go. All functions are pure with no I/O: descriptors and
// environment file content are parsed from memory.
package compose

import (
	"errors"
	"fmt"
)

// =============================================================================
// Error Types
// =============================================================================

var (
	// Input validation errors
	ErrEmptyInput = errors.New("compose spec is empty")

	// YAML parsing errors
	ErrInvalidYAML = errors.New("invalid YAML syntax")

	// Compose structure errors
	ErrNoServices         = errors.New("compose spec must define at least one service")
	ErrServiceNoImage     = errors.New("service must have image or build")
	ErrCircularDependency = errors.New("circular dependency detected")
	ErrMissingService     = errors.New("required service is missing")
	ErrMissingVolume      = errors.New("required volume is missing")
)

// ParseError wraps errors with context about where parsing failed.
type ParseError struct {
	Field   string // e.g., "services.jupyterhub"
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError.
func NewParseError(field, message string, err error) *ParseError {
	return &ParseError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}
