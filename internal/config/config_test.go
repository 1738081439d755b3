package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileIsEmpty(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Empty(t, cfg.Tracking.Apps)
	assert.Nil(t, cfg.Storage.Backend)
}

func TestLoadConfigDecodesSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[tracking]
apps = ["Xcode", "Terminal"]
enabled = false

[sound]
disable-streak-broken = true
threshold = 20

[storage]
backend = "sqlite"
retention-days = 14

[log]
level = "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Xcode", "Terminal"}, cfg.Tracking.Apps)
	require.NotNil(t, cfg.Tracking.Enabled)
	assert.False(t, *cfg.Tracking.Enabled)
	require.NotNil(t, cfg.Sound.DisableStreakBroken)
	assert.True(t, *cfg.Sound.DisableStreakBroken)
	assert.Equal(t, 20, *cfg.Sound.Threshold)
	assert.Equal(t, BackendSQLite, *cfg.Storage.Backend)
	assert.Equal(t, 14, *cfg.Storage.RetentionDays)
	assert.Equal(t, "debug", *cfg.Log.Level)
}

func TestLoadConfigRejectsUnknownBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[storage]\nbackend = \"redis\"\n"), 0o644))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage.backend")
}

func TestLoadConfigRejectsEmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	require.Error(t, err)
}

func TestPreferencesTrackedAppsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keyjam", "config.toml")
	prefs := NewPreferences(path)

	apps, err := prefs.TrackedApps()
	require.NoError(t, err)
	assert.Empty(t, apps)

	apps, err = prefs.AddTrackedApp("Xcode")
	require.NoError(t, err)
	assert.Equal(t, []string{"Xcode"}, apps)

	apps, err = prefs.AddTrackedApp("Terminal")
	require.NoError(t, err)
	assert.Equal(t, []string{"Xcode", "Terminal"}, apps)

	_, err = prefs.AddTrackedApp("Xcode")
	require.Error(t, err)

	apps, err = prefs.RemoveTrackedApp("Xcode")
	require.NoError(t, err)
	assert.Equal(t, []string{"Terminal"}, apps)

	_, err = prefs.RemoveTrackedApp("Xcode")
	require.Error(t, err)

	reloaded, err := NewPreferences(path).TrackedApps()
	require.NoError(t, err)
	assert.Equal(t, []string{"Terminal"}, reloaded)
}

func TestPreferencesKeepOtherSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[sound]\ndisable-streak-broken = true\n"), 0o644))
	prefs := NewPreferences(path)

	_, err := prefs.AddTrackedApp("Notes")
	require.NoError(t, err)

	disabled, err := prefs.SoundDisabled()
	require.NoError(t, err)
	assert.True(t, disabled)
}

func TestDefaultPathsFollowXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_DATA_HOME", "/tmp/data")
	t.Setenv("XDG_STATE_HOME", "/tmp/state")

	assert.Equal(t, "/tmp/cfg/keyjam/config.toml", DefaultConfigPath())
	assert.Equal(t, "/tmp/data/keyjam/streak_events.json", DefaultHistoryPath(BackendJSON))
	assert.Equal(t, "/tmp/data/keyjam/keyjam.db", DefaultHistoryPath(BackendSQLite))
	assert.Equal(t, "/tmp/state/keyjam/keyjam.log", DefaultLogPath())
}
