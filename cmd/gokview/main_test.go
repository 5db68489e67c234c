package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/kjkrol/gokview/pkg/gfx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns the config it resolved.
func execute(t *testing.T, args ...string) (gfx.Config, bool, error) {
	t.Helper()
	var (
		got      gfx.Config
		headless bool
	)
	orig := runViewer
	runViewer = func(_ context.Context, conf gfx.Config, h bool) error {
		got, headless = conf, h
		return nil
	}
	t.Cleanup(func() { runViewer = orig })

	cmd := newRootCommand()
	// a nil slice would make cobra fall back to os.Args
	cmd.SetArgs(append([]string{}, args...))
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	err := cmd.Execute()
	return got, headless, err
}

func TestRootCommand_Defaults(t *testing.T) {
	conf, headless, err := execute(t)
	require.NoError(t, err)
	assert.Equal(t, gfx.DefaultConfig(), conf)
	assert.False(t, headless)
}

func TestRootCommand_FlagsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewer.yaml")
	require.NoError(t, os.WriteFile(path, []byte("window:\n  title: from-file\n  width: 300\nlog_level: warn\n"), 0o600))

	conf, headless, err := execute(t, "-c", path, "--width", "640", "--samples", "0", "--headless")
	require.NoError(t, err)
	assert.True(t, headless)
	assert.Equal(t, "from-file", conf.Window.Title)
	assert.Equal(t, 640, conf.Window.Width)
	assert.Equal(t, 1000, conf.Window.Height)
	assert.Zero(t, conf.Context.Samples)
	assert.Equal(t, "warn", conf.LogLevel)
}

func TestRootCommand_InvalidConfig(t *testing.T) {
	_, _, err := execute(t, "--height", "-5")
	assert.ErrorIs(t, err, gfx.ErrInvalidConfig)

	_, _, err = execute(t, "--log-level", "chatty")
	assert.ErrorIs(t, err, gfx.ErrInvalidConfig)
}

func TestRun_HeadlessStopsWhenCanceled(t *testing.T) {
	t.Cleanup(func() { gfx.SetLogger(nil) })
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	conf := gfx.DefaultConfig()
	conf.LogLevel = "error"
	assert.NoError(t, run(ctx, conf, true))
}
