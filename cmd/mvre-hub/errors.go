package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/mvre-project/mvre-hub/internal/core/domain"
)

// =============================================================================
// Exit Codes
// =============================================================================

const (
	ExitSuccess         = 0
	ExitConfigError     = 1
	ExitUsageError      = 2
	ExitDeploymentError = 3
	ExitSafetyLock      = 4
	ExitPrivilegeError  = 5
	ExitToolError       = 6
	ExitInterrupted     = 130
)

// exitCodes maps sentinel errors to exit codes, checked in order.
var exitCodes = []struct {
	err  error
	code int
}{
	{context.Canceled, ExitInterrupted},
	{domain.ErrSafetyLockEngaged, ExitSafetyLock},
	{domain.ErrPrivilegeRequired, ExitPrivilegeError},
	{domain.ErrExternalToolFailure, ExitToolError},
	{domain.ErrDeploymentExists, ExitDeploymentError},
	{domain.ErrDeploymentNotFound, ExitDeploymentError},
	{domain.ErrDatasetPathMissing, ExitDeploymentError},
	{domain.ErrInvalidInput, ExitUsageError},
	{domain.ErrEnvironmentUnresolved, ExitConfigError},
	{domain.ErrStateCorrupt, ExitConfigError},
}

// CommandError carries the failed command and its exit code.
type CommandError struct {
	Op       string
	Err      error
	ExitCode int
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// commandError wraps err with the exit code matching its cause.
func commandError(op string, err error) *CommandError {
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr
	}
	return &CommandError{Op: op, Err: err, ExitCode: exitCodeFor(err)}
}

func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}
	for _, e := range exitCodes {
		if errors.Is(err, e.err) {
			return e.code
		}
	}
	return ExitConfigError
}
