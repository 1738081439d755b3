package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/keyjam/internal/config"
	"github.com/verte-zerg/keyjam/internal/sound"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := configPath()
	if err := writeDefaultConfig(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// writeDefaultConfig creates the commented template unless path exists.
func writeDefaultConfig(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat config: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# keyjam configuration
# Uncomment a value to enable it. CLI flags override config values.

[tracking]
# apps = ["Xcode", "Terminal"]   # Count input only in these apps (default: all apps)
# enabled = true                 # Start tracking when keyjam runs

[sound]
# disable-streak-broken = false  # Mute the bell for long broken streaks
# threshold = %d                 # Ring when a broken streak is longer than this

[storage]
# backend = %q               # History backend: %q or %q
# path = ""                      # History location (default under $XDG_DATA_HOME/keyjam)
# retention-days = %d            # Days of history to keep

[log]
# level = %q                 # debug, info, warn, error
# format = %q                # text or json
`,
		sound.DefaultThreshold,
		config.BackendJSON,
		config.BackendJSON,
		config.BackendSQLite,
		defaultRetentionDays,
		defaultLogLevel,
		defaultLogFormat,
	)
}
