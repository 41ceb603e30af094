package refcheck

import (
	"errors"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/ethereum-optimism/infra/op-refcheck/flags"
)

// updateRefsValue is the only value of UPDATE_REFS that selects update mode.
const updateRefsValue = "1"

// Config holds the application configuration
type Config struct {
	Ref        string   // Path to the reference output file
	Target     string   // Executable whose standard output is checked
	Args       []string // Arguments passed verbatim to Target
	UpdateRefs bool     // Overwrite Ref with the captured output instead of comparing
	Color      bool     // Colorize the diff body
	Log        log.Logger
}

// NewConfig creates a new Config from cli context. targetArgs are the
// arguments split off the command line by flags.SplitTargetArgs.
func NewConfig(ctx *cli.Context, log log.Logger, targetArgs []string) (*Config, error) {
	if err := flags.CheckRequired(ctx); err != nil {
		return nil, fmt.Errorf("missing required flags: %w", err)
	}

	ref := ctx.String(flags.Ref.Name)
	if ref == "" {
		return nil, errors.New("reference path is required")
	}
	target := ctx.String(flags.Target.Name)
	if target == "" {
		return nil, errors.New("target executable is required")
	}

	colorStr := ctx.String(flags.Color.Name)
	colorMode := flags.ColorMode(colorStr)
	if !colorMode.IsValid() {
		return nil, fmt.Errorf("invalid color mode: %s. Must be one of: %s, %s, %s",
			colorStr, flags.ColorAuto, flags.ColorAlways, flags.ColorNever)
	}

	args := make([]string, len(targetArgs))
	copy(args, targetArgs)

	return &Config{
		Ref:        ref,
		Target:     target,
		Args:       args,
		UpdateRefs: ctx.String(flags.UpdateRefs.Name) == updateRefsValue,
		Color:      resolveColor(colorMode, stdoutIsTerminal),
		Log:        log,
	}, nil
}

func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func resolveColor(mode flags.ColorMode, isTerminal func() bool) bool {
	switch mode {
	case flags.ColorAlways:
		return true
	case flags.ColorNever:
		return false
	default:
		return isTerminal()
	}
}
