// Package refcheck runs a target executable and checks its standard output
// against a stored reference file.
package refcheck

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/log"

	"github.com/ethereum-optimism/infra/op-refcheck/diff"
)

// Result is the outcome of a single comparator run.
type Result struct {
	Match   bool                // Output matched the reference, or the reference was updated
	Updated bool                // The reference was (re)written in update mode
	Diff    iter.Seq[diff.Line] // Reference to output differential, nil unless Match is false
}

// Comparator runs a target once and checks its output against a reference file.
type Comparator struct {
	cfg    *Config
	log    log.Logger
	runner Runner
	stdout io.Writer
	stderr io.Writer
}

// Option configures a Comparator.
type Option func(*Comparator)

// WithOutput sets the streams the diff body and the mismatch banner go to.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(c *Comparator) {
		c.stdout = stdout
		c.stderr = stderr
	}
}

// WithRunner replaces the os/exec backed runner.
func WithRunner(r Runner) Option {
	return func(c *Comparator) {
		c.runner = r
	}
}

// New creates a Comparator for cfg. Without options it writes to the
// process's stdout and stderr and runs the target with os/exec.
func New(cfg *Config, opts ...Option) (*Comparator, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.Ref == "" {
		return nil, errors.New("reference path cannot be empty")
	}
	if cfg.Target == "" {
		return nil, errors.New("target cannot be empty")
	}

	logger := cfg.Log
	if logger == nil {
		logger = log.Root()
	}

	c := &Comparator{
		cfg:    cfg,
		log:    logger.New("target", cfg.Target, "ref", cfg.Ref),
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.runner == nil {
		c.runner = NewProcessRunner(c.stderr)
	}
	return c, nil
}

// Run executes the target and then either updates or checks the reference.
// A mismatch is reported through the Result, not as an error; errors are
// always fatal for the run.
func (c *Comparator) Run(ctx context.Context) (*Result, error) {
	c.log.Info("Running target", "cmd", strings.Join(append([]string{c.cfg.Target}, c.cfg.Args...), " "))
	output, err := c.runner.Run(ctx, c.cfg.Target, c.cfg.Args)
	if err != nil {
		return nil, err
	}

	if c.cfg.UpdateRefs {
		if err := writeReference(c.cfg.Ref, output); err != nil {
			return nil, err
		}
		c.log.Info("Updated reference", "bytes", len(output))
		return &Result{Match: true, Updated: true}, nil
	}

	reference, err := readReference(c.cfg.Ref)
	if err != nil {
		return nil, err
	}
	if output == reference {
		c.log.Debug("Output matches reference")
		return &Result{Match: true}, nil
	}

	lines := diff.Lines(reference, output)
	if err := c.reportMismatch(lines); err != nil {
		return nil, err
	}
	return &Result{Match: false, Diff: lines}, nil
}

func (c *Comparator) reportMismatch(lines iter.Seq[diff.Line]) error {
	body := diff.Format(lines, c.cfg.Color)

	fmt.Fprintf(c.stderr, "Reference mismatch for target '%s'\n", c.cfg.Target)
	fmt.Fprintf(c.stderr, "Output reference mismatch for '%s'\n", c.cfg.Ref)
	fmt.Fprintln(c.stderr)

	if _, err := io.WriteString(c.stdout, body); err != nil {
		return fmt.Errorf("failed to write diff: %w", err)
	}

	removed, added := diff.Count(lines)
	c.log.Info("Output differs from reference", "removed", removed, "added", added)
	return nil
}

func readReference(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &ReferenceNotFoundError{Ref: path, Err: err}
	}
	return string(data), nil
}

func writeReference(path, output string) error {
	if err := os.WriteFile(path, []byte(output), 0o644); err != nil {
		return fmt.Errorf("failed to write reference %s: %w", path, err)
	}
	return nil
}
