package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/depengine/config"
	"github.com/kbukum/depengine/di"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "depengine")

	out, err = execute(t, "version", "--json")
	require.NoError(t, err)
	var info map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Contains(t, info, "version")
}

func TestGreetCommand(t *testing.T) {
	path := writeConfig(t, "logging:\n  level: error\n")
	envFile := filepath.Join(t.TempDir(), "missing.env")

	out, err := execute(t, "greet", "Ada", "--config", path, "--env-file", envFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Ada")

	// The command closes the registry it installed as the default.
	assert.Zero(t, di.Default().Len())
}

func TestGreetCommandRequiresName(t *testing.T) {
	_, err := execute(t, "greet")
	assert.Error(t, err)
}

func TestServeStopsOnCancel(t *testing.T) {
	cfg := &config.Config{}
	cfg.ApplyDefaults()
	cfg.Logging.Level = "error"
	cfg.Inspect.Enabled = true
	cfg.Inspect.Addr = "127.0.0.1:0"
	cfg.Inspect.ShutdownTimeout = time.Second

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, cfg) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
	assert.Zero(t, di.Default().Len())
}
