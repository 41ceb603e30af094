package refcheck

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"unicode/utf8"
)

var _ Runner = (*processRunner)(nil)

// Runner executes the target and returns everything it wrote to stdout.
type Runner interface {
	// Run blocks until the target exits. A target that cannot be started,
	// exits nonzero, or writes non UTF-8 output yields a *ProcessExecutionError.
	Run(ctx context.Context, target string, args []string) (string, error)
}

type processRunner struct {
	stderr     io.Writer
	cmdBuilder func(ctx context.Context, name string, arg ...string) *exec.Cmd
}

// NewProcessRunner returns a Runner backed by os/exec. The child's stderr is
// forwarded to stderr so its diagnostics reach the caller.
func NewProcessRunner(stderr io.Writer) Runner {
	return &processRunner{
		stderr:     stderr,
		cmdBuilder: exec.CommandContext,
	}
}

func (r *processRunner) Run(ctx context.Context, target string, args []string) (string, error) {
	var stdout bytes.Buffer
	cmd := r.cmdBuilder(ctx, target, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = r.stderr

	if err := cmd.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return "", &ProcessExecutionError{Target: target, Args: args, ExitCode: exitCode, Err: err}
	}

	if !utf8.Valid(stdout.Bytes()) {
		return "", &ProcessExecutionError{
			Target:   target,
			Args:     args,
			ExitCode: 0,
			Err:      errors.New("output is not valid UTF-8"),
		}
	}
	return stdout.String(), nil
}
