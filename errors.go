package refcheck

import (
	"errors"
	"fmt"
	"strings"
)

// RuntimeError wraps a failure to build the configuration or the comparator
// from the command line.
type RuntimeError struct {
	Err error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error: %v", e.Err)
}

// Unwrap implements the errors.Unwrap interface
func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// NewRuntimeError creates a new RuntimeError
func NewRuntimeError(err error) *RuntimeError {
	return &RuntimeError{Err: err}
}

// IsRuntimeError checks if the error is or wraps a RuntimeError
func IsRuntimeError(err error) bool {
	var runtimeErr *RuntimeError
	return err != nil && errors.As(err, &runtimeErr)
}

// ProcessExecutionError reports that the target could not be run, or that it
// did not exit cleanly. ExitCode is -1 when the process never started or was
// killed by a signal.
type ProcessExecutionError struct {
	Target   string
	Args     []string
	ExitCode int
	Err      error
}

func (e *ProcessExecutionError) Error() string {
	cmdline := strings.Join(append([]string{e.Target}, e.Args...), " ")
	if e.ExitCode > 0 {
		return fmt.Sprintf("target %q exited with status %d: %v", cmdline, e.ExitCode, e.Err)
	}
	return fmt.Sprintf("failed to run target %q: %v", cmdline, e.Err)
}

// Unwrap implements the errors.Unwrap interface
func (e *ProcessExecutionError) Unwrap() error {
	return e.Err
}

// IsProcessExecutionError checks if the error is or wraps a ProcessExecutionError
func IsProcessExecutionError(err error) bool {
	var execErr *ProcessExecutionError
	return err != nil && errors.As(err, &execErr)
}

// ReferenceNotFoundError reports a reference file that is missing or cannot
// be read in compare mode.
type ReferenceNotFoundError struct {
	Ref string
	Err error
}

func (e *ReferenceNotFoundError) Error() string {
	return fmt.Sprintf("reference %q not found: %v", e.Ref, e.Err)
}

// Unwrap implements the errors.Unwrap interface
func (e *ReferenceNotFoundError) Unwrap() error {
	return e.Err
}

// IsReferenceNotFoundError checks if the error is or wraps a ReferenceNotFoundError
func IsReferenceNotFoundError(err error) bool {
	var refErr *ReferenceNotFoundError
	return err != nil && errors.As(err, &refErr)
}
