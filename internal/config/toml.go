// Package config provides configuration helpers and TOML parsing.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Storage backend names.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Tracking TrackingConfig `toml:"tracking"`
	Sound    SoundConfig    `toml:"sound"`
	Storage  StorageConfig  `toml:"storage"`
	Log      LogConfig      `toml:"log"`
}

// TrackingConfig maps streak tracking preferences.
type TrackingConfig struct {
	Apps    []string `toml:"apps,omitempty"`
	Enabled *bool    `toml:"enabled,omitempty"`
}

// SoundConfig maps audio cue preferences.
type SoundConfig struct {
	DisableStreakBroken *bool `toml:"disable-streak-broken,omitempty"`
	Threshold           *int  `toml:"threshold,omitempty"`
}

// StorageConfig maps history persistence settings.
type StorageConfig struct {
	Backend       *string `toml:"backend,omitempty"`
	Path          *string `toml:"path,omitempty"`
	RetentionDays *int    `toml:"retention-days,omitempty"`
}

// LogConfig maps logger settings.
type LogConfig struct {
	Level  *string `toml:"level,omitempty"`
	Format *string `toml:"format,omitempty"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return FileConfig{}, err
	}
	return cfg, nil
}

// Validate checks values that have a closed set of options.
func (c FileConfig) Validate() error {
	if c.Storage.Backend != nil {
		switch *c.Storage.Backend {
		case BackendJSON, BackendSQLite:
		default:
			return fmt.Errorf("storage.backend must be %q or %q, got %q", BackendJSON, BackendSQLite, *c.Storage.Backend)
		}
	}
	if c.Storage.RetentionDays != nil && *c.Storage.RetentionDays <= 0 {
		return fmt.Errorf("storage.retention-days must be > 0")
	}
	if c.Sound.Threshold != nil && *c.Sound.Threshold < 0 {
		return fmt.Errorf("sound.threshold must be >= 0")
	}
	return nil
}

// SaveConfig writes cfg to path, replacing the file atomically.
func SaveConfig(path string, cfg FileConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	tmpFile, err := os.CreateTemp(dir, "config-*.toml")
	if err != nil {
		return fmt.Errorf("failed to create temp config: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()
	if _, err := tmpFile.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close config: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
