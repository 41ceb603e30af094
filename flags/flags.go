package flags

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	opservice "github.com/ethereum-optimism/optimism/op-service"
	oplog "github.com/ethereum-optimism/optimism/op-service/log"
)

const EnvVarPrefix = "OP_REFCHECK"

// UpdateRefsEnvVar is read directly, without the tool prefix, so existing
// test scripts keep working.
const UpdateRefsEnvVar = "UPDATE_REFS"

// TargetArgsFlag starts the list of arguments forwarded to the target.
// Everything after it on the command line belongs to the target.
const TargetArgsFlag = "args"

// ColorMode controls whether the diff body is colorized
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

func (c ColorMode) String() string {
	return string(c)
}

func (c ColorMode) IsValid() bool {
	switch c {
	case ColorAuto, ColorAlways, ColorNever:
		return true
	default:
		return false
	}
}

// ValidColorModes returns all valid color modes
func ValidColorModes() []ColorMode {
	return []ColorMode{ColorAuto, ColorAlways, ColorNever}
}

func validateColorMode(value string) error {
	if !ColorMode(value).IsValid() {
		valid := make([]string, 0, len(ValidColorModes()))
		for _, m := range ValidColorModes() {
			valid = append(valid, m.String())
		}
		return fmt.Errorf("color must be one of: %s", strings.Join(valid, ", "))
	}
	return nil
}

var (
	Ref = &cli.StringFlag{
		Name:     "ref",
		Value:    "",
		Required: true,
		EnvVars:  opservice.PrefixEnvVar(EnvVarPrefix, "REF"),
		Usage:    "Path to the reference output file",
	}
	Target = &cli.StringFlag{
		Name:     "target",
		Value:    "",
		Required: true,
		EnvVars:  opservice.PrefixEnvVar(EnvVarPrefix, "TARGET"),
		Usage:    "Path to the target executable to run",
	}
	UpdateRefs = &cli.StringFlag{
		Name:    "update-refs",
		Value:   "",
		EnvVars: []string{UpdateRefsEnvVar},
		Usage:   "Set to '1' to overwrite the reference with the target's output instead of comparing",
	}
	Color = &cli.StringFlag{
		Name:    "color",
		Value:   ColorAuto.String(),
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "COLOR"),
		Usage:   "Colorize the diff output: 'auto', 'always' or 'never'",
		Action: func(ctx *cli.Context, v string) error {
			return validateColorMode(v)
		},
	}
)

var requiredFlags = []cli.Flag{
	Ref,
	Target,
}

var optionalFlags = []cli.Flag{
	UpdateRefs,
	Color,
}
var Flags []cli.Flag

func init() {
	optionalFlags = append(optionalFlags, oplog.CLIFlags(EnvVarPrefix)...)

	Flags = append(requiredFlags, optionalFlags...)
}

func CheckRequired(ctx *cli.Context) error {
	for _, f := range requiredFlags {
		if !ctx.IsSet(f.Names()[0]) {
			return fmt.Errorf("flag %s is required", f.Names()[0])
		}
	}
	return nil
}

// SplitTargetArgs separates the tool's own command line from the arguments
// meant for the target. The first "--args" (or "-args", or "--args=<value>")
// token ends the tool's flags; every token after it is returned verbatim, in
// order, as target arguments. args[0] is the program name and always stays
// in the tool's part.
func SplitTargetArgs(args []string) ([]string, []string) {
	for i, arg := range args {
		if i == 0 {
			continue
		}
		name, ok := strings.CutPrefix(arg, "--")
		if !ok {
			name, ok = strings.CutPrefix(arg, "-")
		}
		if !ok {
			continue
		}
		name, value, hasValue := strings.Cut(name, "=")
		if name != TargetArgsFlag {
			continue
		}
		cliArgs := append([]string{}, args[:i]...)
		targetArgs := []string{}
		if hasValue {
			targetArgs = append(targetArgs, value)
		}
		targetArgs = append(targetArgs, args[i+1:]...)
		return cliArgs, targetArgs
	}
	return append([]string{}, args...), []string{}
}
