// Package state persists the application state between invocations.
package state

import (
	"fmt"
)

// =============================================================================
// Error Types
// =============================================================================

// StoreError wraps errors with the state file involved.
type StoreError struct {
	Op      string // Operation that failed (e.g., "Load")
	Path    string // State file path
	Message string
	Err     error
}

func (e *StoreError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s %s: %s", e.Op, e.Path, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError.
func NewStoreError(op, path, message string, err error) *StoreError {
	return &StoreError{
		Op:      op,
		Path:    path,
		Message: message,
		Err:     err,
	}
}
