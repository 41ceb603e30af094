package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	refcheck "github.com/ethereum-optimism/infra/op-refcheck"
	"github.com/ethereum-optimism/infra/op-refcheck/exitcodes"
	"github.com/ethereum-optimism/infra/op-refcheck/flags"
	"github.com/ethereum-optimism/optimism/op-service/cliapp"
	oplog "github.com/ethereum-optimism/optimism/op-service/log"
)

var (
	Version   = "v0.1.0"
	GitCommit = ""
	GitDate   = ""
)

func main() {
	cliArgs, targetArgs := flags.SplitTargetArgs(os.Args)

	app := newApp(targetArgs, os.Stdout, os.Stderr)
	err := app.RunContext(context.Background(), cliArgs)
	os.Exit(reportExit(os.Stderr, err))
}

// reportExit prints fatal errors to stderr and returns the exit code for err.
// Mismatches are already reported by the comparator.
func reportExit(stderr io.Writer, err error) int {
	code := exitCode(err)
	if err != nil && code != exitcodes.Mismatch {
		fmt.Fprintf(stderr, "op-refcheck: %v\n", err)
	}
	return code
}

func newApp(targetArgs []string, stdout, stderr io.Writer) *cli.App {
	app := cli.NewApp()
	app.Version = fmt.Sprintf("%s-%s-%s", Version, GitCommit, GitDate)
	app.Name = "op-refcheck"
	app.Usage = "Reference output checker"
	app.UsageText = "op-refcheck --ref <path> --target <path> [options] [--args <arg>...]"
	app.Description = "op-refcheck runs a target executable and compares its standard output with a " +
		"reference file. Every argument after --args is passed to the target. " +
		"Set UPDATE_REFS=1 to rewrite the reference instead of comparing."
	app.Flags = cliapp.ProtectFlags(flags.Flags)
	app.Writer = stdout
	app.ErrWriter = stderr
	app.Action = func(ctx *cli.Context) error {
		return run(ctx, targetArgs)
	}
	// Exit codes are chosen by main from the returned error.
	app.ExitErrHandler = func(*cli.Context, error) {}
	return app
}

func run(ctx *cli.Context, targetArgs []string) error {
	logCfg := oplog.ReadCLIConfig(ctx)
	// stdout carries the diff body, so logs always go to stderr
	log := oplog.NewLogger(ctx.App.ErrWriter, logCfg)
	oplog.SetGlobalLogHandler(log.Handler())

	cfg, err := refcheck.NewConfig(ctx, log, targetArgs)
	if err != nil {
		return refcheck.NewRuntimeError(fmt.Errorf("failed to create config: %w", err))
	}
	cfg.Log.Debug("Config", "ref", cfg.Ref, "target", cfg.Target, "args", cfg.Args, "update", cfg.UpdateRefs)

	comparator, err := refcheck.New(cfg, refcheck.WithOutput(ctx.App.Writer, ctx.App.ErrWriter))
	if err != nil {
		return refcheck.NewRuntimeError(fmt.Errorf("failed to create comparator: %w", err))
	}

	result, err := comparator.Run(ctx.Context)
	if err != nil {
		return err
	}
	if !result.Match {
		return cli.Exit("", exitcodes.Mismatch)
	}
	return nil
}

// exitCode maps an error returned by the app to the process exit code.
func exitCode(err error) int {
	if err == nil {
		return exitcodes.Success
	}
	// Process failures, missing references and configuration errors all
	// use the runtime code; 1 is reserved for mismatches.
	if refcheck.IsProcessExecutionError(err) || refcheck.IsReferenceNotFoundError(err) || refcheck.IsRuntimeError(err) {
		return exitcodes.RuntimeErr
	}
	// Only an exit coder returned by the app itself counts. One found deeper
	// in the chain, such as the target's *exec.ExitError, carries the
	// target's status, not ours.
	if exitErr, ok := err.(cli.ExitCoder); ok {
		return exitErr.ExitCode()
	}
	return exitcodes.RuntimeErr
}
