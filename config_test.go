package refcheck

import (
	"testing"

	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/ethereum-optimism/infra/op-refcheck/flags"
	"github.com/ethereum-optimism/optimism/op-service/cliapp"
)

// configFromArgs parses args with the real flag set and builds a Config.
func configFromArgs(t *testing.T, args []string, targetArgs []string) (*Config, error) {
	t.Helper()
	var (
		cfg    *Config
		cfgErr error
	)
	app := &cli.App{
		Flags: cliapp.ProtectFlags(flags.Flags),
		Action: func(ctx *cli.Context) error {
			cfg, cfgErr = NewConfig(ctx, log.NewLogger(log.DiscardHandler()), targetArgs)
			return nil
		},
	}
	require.NoError(t, app.Run(append([]string{"op-refcheck"}, args...)))
	return cfg, cfgErr
}

func TestNewConfig(t *testing.T) {
	t.Setenv(flags.UpdateRefsEnvVar, "")

	cfg, err := configFromArgs(t,
		[]string{"--ref", "testdata/out.ref", "--target", "./bin/example", "--color", "never"},
		[]string{"--width", "80"},
	)
	require.NoError(t, err)
	assert.Equal(t, "testdata/out.ref", cfg.Ref)
	assert.Equal(t, "./bin/example", cfg.Target)
	assert.Equal(t, []string{"--width", "80"}, cfg.Args)
	assert.False(t, cfg.UpdateRefs)
	assert.False(t, cfg.Color)
	assert.NotNil(t, cfg.Log)
}

func TestNewConfigArgsAreCopied(t *testing.T) {
	targetArgs := []string{"a", "b"}
	cfg, err := configFromArgs(t, []string{"--ref", "r", "--target", "t"}, targetArgs)
	require.NoError(t, err)

	targetArgs[0] = "changed"
	assert.Equal(t, []string{"a", "b"}, cfg.Args)
}

func TestNewConfigEmptyArgs(t *testing.T) {
	cfg, err := configFromArgs(t, []string{"--ref", "r", "--target", "t"}, nil)
	require.NoError(t, err)
	assert.NotNil(t, cfg.Args)
	assert.Empty(t, cfg.Args)
}

func TestNewConfigUpdateRefs(t *testing.T) {
	testCases := []struct {
		name     string
		env      string
		expected bool
	}{
		{"literal one", "1", true},
		{"empty", "", false},
		{"zero", "0", false},
		{"true is not one", "true", false},
		{"padded one", " 1", false},
		{"yes", "yes", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(flags.UpdateRefsEnvVar, tc.env)
			cfg, err := configFromArgs(t, []string{"--ref", "r", "--target", "t"}, nil)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, cfg.UpdateRefs)
		})
	}
}

func TestNewConfigRejectsEmptyPaths(t *testing.T) {
	_, err := configFromArgs(t, []string{"--ref", "", "--target", "t"}, nil)
	assert.ErrorContains(t, err, "reference path is required")

	_, err = configFromArgs(t, []string{"--ref", "r", "--target", ""}, nil)
	assert.ErrorContains(t, err, "target executable is required")
}

func TestResolveColor(t *testing.T) {
	tty := func() bool { return true }
	pipe := func() bool { return false }

	assert.True(t, resolveColor(flags.ColorAlways, pipe))
	assert.False(t, resolveColor(flags.ColorNever, tty))
	assert.True(t, resolveColor(flags.ColorAuto, tty))
	assert.False(t, resolveColor(flags.ColorAuto, pipe))
}
