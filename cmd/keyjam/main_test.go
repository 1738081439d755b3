package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/keyjam/internal/config"
	"github.com/verte-zerg/keyjam/internal/model"
)

func isolateXDG(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	return dir
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestParseScript(t *testing.T) {
	events, err := parseScript("kk s\tm")
	require.NoError(t, err)
	assert.Equal(t, []model.InEvent{model.CommonKeyPress, model.CommonKeyPress, model.ShortcutKeyPress, model.MouseMoveStarted}, events)

	_, err = parseScript("kkx")
	assert.ErrorContains(t, err, `'x'`)
	_, err = parseScript("  ")
	assert.Error(t, err)
}

func TestSimulateScenario(t *testing.T) {
	isolateXDG(t)
	out, err := execute(t, "", "simulate", "kkkkk m kk m")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 12)
	assert.Contains(t, lines[5], "mouse-broke-streak(5)")
	assert.Contains(t, lines[6], "reset")
	assert.Contains(t, lines[9], "mouse-broke-streak(2)")
	assert.Equal(t, "streak=0 breaks=2 recorded=1", lines[11])

	_, statErr := os.Stat(config.DefaultHistoryPath(config.BackendJSON))
	assert.True(t, os.IsNotExist(statErr), "simulate keeps history in memory by default")
}

func TestSimulateContextFiltering(t *testing.T) {
	isolateXDG(t)
	out, err := execute(t, "", "simulate", "--track", "Xcode", "--app", "Safari", "kkm")
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(out, "(ignored)"))
	assert.Contains(t, out, "streak=0 breaks=0 recorded=0")
}

func TestSimulatePersist(t *testing.T) {
	isolateXDG(t)
	_, err := execute(t, "", "simulate", "--persist", "kkkkkkm")
	require.NoError(t, err)

	out, err := execute(t, "", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "When")
	assert.Contains(t, out, " 6")
}

func TestSeedAndClear(t *testing.T) {
	isolateXDG(t)
	out, err := execute(t, "", "seed", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Seeded")

	out, err = execute(t, "", "stats", "--scope", "month")
	require.NoError(t, err)
	assert.Contains(t, out, "Streaks (last month)")
	assert.Contains(t, out, "Trend: +")

	_, err = execute(t, "n\n", "clear")
	assert.Error(t, err, "declined confirmation aborts")

	out, err = execute(t, "y\n", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "History cleared.")

	out, err = execute(t, "", "stats", "--scope", "month")
	require.NoError(t, err)
	assert.Contains(t, out, "No recent streaks")
}

func TestSeedWithSQLiteBackend(t *testing.T) {
	isolateXDG(t)
	_, err := execute(t, "", "seed", "--backend", "sqlite", "--yes")
	require.NoError(t, err)

	_, err = os.Stat(config.DefaultHistoryPath(config.BackendSQLite))
	require.NoError(t, err)

	out, err := execute(t, "", "history", "--backend", "sqlite", "--days", "30")
	require.NoError(t, err)
	assert.Greater(t, strings.Count(out, "\n"), 30)
}

func TestAppsCommands(t *testing.T) {
	isolateXDG(t)
	out, err := execute(t, "", "apps", "list")
	require.NoError(t, err)
	assert.Equal(t, "Tracking all apps.\n", out)

	_, err = execute(t, "", "apps", "add", "Xcode")
	require.NoError(t, err)
	out, err = execute(t, "", "apps", "add", "Terminal")
	require.NoError(t, err)
	assert.Equal(t, "Xcode\nTerminal\n", out)

	_, err = execute(t, "", "apps", "add", "Xcode")
	assert.Error(t, err)

	out, err = execute(t, "", "apps", "remove", "Xcode")
	require.NoError(t, err)
	assert.Equal(t, "Terminal\n", out)
}

func TestConfigOverridesAndFlags(t *testing.T) {
	isolateXDG(t)
	path := config.DefaultConfigPath()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("[storage]\nbackend = \"nosuch\"\n"), 0o644))

	_, err := execute(t, "", "history")
	assert.ErrorContains(t, err, "storage.backend")

	require.NoError(t, os.WriteFile(path, []byte("[storage]\nretention-days = 2\n"), 0o644))
	_, err = execute(t, "", "history", "--retention-days", "0")
	assert.Error(t, err, "flag overrides config")
}

func TestDefaultConfigTemplateIsValidTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keyjam", "config.toml")
	require.NoError(t, writeDefaultConfig(path))

	var cfg config.FileConfig
	_, err := toml.DecodeFile(path, &cfg)
	require.NoError(t, err)
	assert.Empty(t, cfg.Tracking.Apps)

	require.NoError(t, os.WriteFile(path, []byte("# mine\n"), 0o644))
	require.NoError(t, writeDefaultConfig(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# mine\n", string(data), "existing config is kept")
}

func TestConfirm(t *testing.T) {
	var out bytes.Buffer
	assert.True(t, confirm(strings.NewReader("yes\n"), &out, "Proceed?"))
	assert.Equal(t, "Proceed? [y/N] ", out.String())
	assert.False(t, confirm(strings.NewReader(""), &out, "Proceed?"))
	assert.True(t, confirm(strings.NewReader("Y"), &out, "Proceed?"))
}
