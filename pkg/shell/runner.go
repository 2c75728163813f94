// Package shell runs external commands (git, kubectl) on behalf of the
// reconciliation engine and turns their failures into structured errors.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Command describes a single process invocation
type Command struct {
	Name string
	Args []string
	Dir  string
	// Env is appended to the current process environment
	Env []string
}

// String renders the command line for logs and errors
func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Runner defines the interface for executing commands
type Runner interface {
	// Run executes the command and returns its standard output
	Run(ctx context.Context, cmd Command) (string, error)
}

// ExecRunner is the default Runner that delegates to os/exec
type ExecRunner struct{}

// NewExecRunner creates a new ExecRunner
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run implements Runner.Run
func (r *ExecRunner) Run(ctx context.Context, c Command) (string, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return stdout.String(), &Error{
			Command: c,
			Output:  strings.TrimSpace(stderr.String()),
			Err:     err,
		}
	}

	return stdout.String(), nil
}

// Error is returned when a command exits unsuccessfully or cannot be started
type Error struct {
	Command Command
	Output  string
	Err     error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("%s: %v: %s", e.Command, e.Err, e.Output)
	}
	return fmt.Sprintf("%s: %v", e.Command, e.Err)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// ExitCode returns the process exit code, or -1 when the process never ran
func (e *Error) ExitCode() int {
	var exitErr *exec.ExitError
	if errors.As(e.Err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// ExitCode extracts the exit code from an error returned by a Runner.
// It returns -1 for errors that do not carry one.
func ExitCode(err error) int {
	var shellErr *Error
	if errors.As(err, &shellErr) {
		return shellErr.ExitCode()
	}
	return -1
}
