// Package exectool runs external tools (the compose CLI, systemctl) and
// reports their failures in one shape.
package exectool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/mvre-project/mvre-hub/internal/core/domain"
)

// =============================================================================
// Runner Interface
// =============================================================================

// Runner runs one external tool. Implementations must not use a shell.
type Runner interface {
	// Run executes the tool in dir with inherited output streams and
	// waits for it to finish.
	Run(ctx context.Context, dir string, args ...string) error

	// Output executes the tool in dir and returns what it wrote to stdout.
	Output(ctx context.Context, dir string, args ...string) (string, error)
}

// =============================================================================
// Error Types
// =============================================================================

// ToolError describes a failed invocation. It always matches
// domain.ErrExternalToolFailure.
type ToolError struct {
	Op       string   // Tool name (e.g., "docker-compose")
	Args     []string // Arguments after the tool name
	ExitCode int      // -1 when the tool could not be launched
	Stderr   string   // Captured stderr, if any
	Err      error
}

func (e *ToolError) Error() string {
	cmd := strings.TrimSpace(e.Op + " " + strings.Join(e.Args, " "))
	msg := fmt.Sprintf("%s: ", cmd)
	if e.ExitCode >= 0 {
		msg += fmt.Sprintf("exit status %d", e.ExitCode)
	} else {
		msg += fmt.Sprintf("could not run: %v", e.Err)
	}
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

func (e *ToolError) Unwrap() []error {
	return []error{domain.ErrExternalToolFailure, e.Err}
}

// =============================================================================
// Exec Runner
// =============================================================================

// ExecRunner runs Command followed by the call's arguments.
type ExecRunner struct {
	// Command is the tool and its fixed leading arguments, e.g.
	// ["docker", "compose"].
	Command []string

	// Stdout and Stderr receive the output of Run. They default to the
	// process streams.
	Stdout io.Writer
	Stderr io.Writer
}

// New returns a runner for the given command line split on whitespace.
func New(command string) *ExecRunner {
	return &ExecRunner{Command: strings.Fields(command)}
}

// Name returns the tool name as shown in errors.
func (r *ExecRunner) Name() string {
	return strings.Join(r.Command, " ")
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, dir string, args ...string) error {
	cmd, err := r.command(ctx, dir, args)
	if err != nil {
		return err
	}
	cmd.Stdout = orDefault(r.Stdout, os.Stdout)
	cmd.Stderr = orDefault(r.Stderr, os.Stderr)
	cmd.Stdin = os.Stdin

	if err := cmd.Run(); err != nil {
		return r.toolError(args, "", err)
	}
	return nil
}

// Output implements Runner.
func (r *ExecRunner) Output(ctx context.Context, dir string, args ...string) (string, error) {
	cmd, err := r.command(ctx, dir, args)
	if err != nil {
		return "", err
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return stdout.String(), r.toolError(args, stderr.String(), err)
	}
	return stdout.String(), nil
}

func (r *ExecRunner) command(ctx context.Context, dir string, args []string) (*exec.Cmd, error) {
	if len(r.Command) == 0 {
		return nil, &ToolError{Op: "", Args: args, ExitCode: -1, Err: errors.New("no command configured")}
	}
	full := append(append([]string{}, r.Command[1:]...), args...)
	cmd := exec.CommandContext(ctx, r.Command[0], full...)
	cmd.Dir = dir
	return cmd, nil
}

func (r *ExecRunner) toolError(args []string, stderr string, err error) *ToolError {
	code := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
	}
	return &ToolError{Op: r.Name(), Args: args, ExitCode: code, Stderr: stderr, Err: err}
}

func orDefault(w, def io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return def
}
