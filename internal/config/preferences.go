package config

import (
	"fmt"
	"slices"
)

// Preferences reads and edits user preferences stored in the config file.
type Preferences struct {
	path string
}

// NewPreferences returns preferences backed by the config file at path.
func NewPreferences(path string) *Preferences {
	return &Preferences{path: path}
}

// Path returns the backing config file path.
func (p *Preferences) Path() string {
	return p.path
}

// TrackedApps returns the tracked application names.
func (p *Preferences) TrackedApps() ([]string, error) {
	cfg, err := LoadConfig(p.path)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), cfg.Tracking.Apps...), nil
}

// SoundDisabled reports whether the streak-broken cue is muted.
func (p *Preferences) SoundDisabled() (bool, error) {
	cfg, err := LoadConfig(p.path)
	if err != nil {
		return false, err
	}
	return cfg.Sound.DisableStreakBroken != nil && *cfg.Sound.DisableStreakBroken, nil
}

// AddTrackedApp appends name to the tracked apps and returns the new list.
func (p *Preferences) AddTrackedApp(name string) ([]string, error) {
	if name == "" {
		return nil, fmt.Errorf("app name must not be empty")
	}
	cfg, err := LoadConfig(p.path)
	if err != nil {
		return nil, err
	}
	if slices.Contains(cfg.Tracking.Apps, name) {
		return nil, fmt.Errorf("app %q is already tracked", name)
	}
	cfg.Tracking.Apps = append(cfg.Tracking.Apps, name)
	if err := SaveConfig(p.path, cfg); err != nil {
		return nil, err
	}
	return append([]string(nil), cfg.Tracking.Apps...), nil
}

// RemoveTrackedApp removes name from the tracked apps and returns the new list.
func (p *Preferences) RemoveTrackedApp(name string) ([]string, error) {
	cfg, err := LoadConfig(p.path)
	if err != nil {
		return nil, err
	}
	idx := slices.Index(cfg.Tracking.Apps, name)
	if idx < 0 {
		return nil, fmt.Errorf("app %q is not tracked", name)
	}
	cfg.Tracking.Apps = slices.Delete(cfg.Tracking.Apps, idx, idx+1)
	if err := SaveConfig(p.path, cfg); err != nil {
		return nil, err
	}
	return append([]string(nil), cfg.Tracking.Apps...), nil
}
