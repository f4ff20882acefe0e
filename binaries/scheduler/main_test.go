package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	schederrors "github.com/ldv-klever/klever-sub005/common/errors"
)

var tests = []string{"local.memory", "local.local"}

// Every preset the flag accepts must load.
func TestConfigParses(t *testing.T) {
	for _, preset := range tests {
		cmd := newRootCommand()
		require.NoError(t, cmd.ParseFlags([]string{"--config", preset}))
		_, err := loadConfig(cmd, &options{config: preset, logLevel: "info"})
		assert.NoError(t, err, preset)
	}
}

func TestFlagsOverrideConfig(t *testing.T) {
	cmd := newRootCommand()
	require.NoError(t, cmd.ParseFlags([]string{"--http_addr", "127.0.0.1:0", "--production"}))
	opts := &options{config: "local.memory", logLevel: "debug", httpAddr: "127.0.0.1:0", production: true}
	cfg, err := loadConfig(cmd, opts)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:0", cfg.Admin.HTTPAddr)
	assert.True(t, cfg.Scheduler.Production)
}

func TestBadConfigExitsWithConfigCode(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetArgs([]string{"--config", "no.such.preset"})
	err := cmd.ExecuteContext(context.Background())
	assert.Equal(t, int(schederrors.ConfigExitCode), exitCode(err))

	cmd = newRootCommand()
	cmd.SetArgs([]string{"--log_level", "chatty"})
	err = cmd.ExecuteContext(context.Background())
	assert.Equal(t, int(schederrors.ConfigExitCode), exitCode(err))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, exitCode(nil))
	assert.Equal(t, 1, exitCode(errors.New("boom")))
	assert.Equal(t, 130, exitCode(schederrors.NewError(context.Canceled, schederrors.InterruptedExitCode)))
}
