// Package main provides the CLI entrypoint for keyjam.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/keyjam/internal/config"
	"github.com/verte-zerg/keyjam/internal/logging"
	"github.com/verte-zerg/keyjam/internal/sound"
	"github.com/verte-zerg/keyjam/internal/store"
)

const (
	defaultRetentionDays = 30
	defaultLogLevel      = "info"
	defaultLogFormat     = "text"
)

var (
	globalConfigPath  string
	globalBackend     string
	globalHistoryPath string
	globalRetention   int
	globalLogLevel    string
	globalLogFormat   string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "keyjam",
		Short:         "Track keyboard streaks broken by reaching for the mouse",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runRunCmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&globalConfigPath, "config", "", "config file (default $XDG_CONFIG_HOME/keyjam/config.toml)")
	flags.StringVar(&globalBackend, "backend", config.BackendJSON, "history backend: json or sqlite")
	flags.StringVar(&globalHistoryPath, "history", "", "history file (default under $XDG_DATA_HOME/keyjam)")
	flags.IntVar(&globalRetention, "retention-days", defaultRetentionDays, "days of streak history to keep")
	flags.StringVar(&globalLogLevel, "log-level", defaultLogLevel, "log level: debug, info, warn, error")
	flags.StringVar(&globalLogFormat, "log-format", defaultLogFormat, "log format: text or json")
	rootCmd.Flags().BoolVar(&runHeadless, "headless", false, "log streak events instead of showing the live view")

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newAppsCmd())
	rootCmd.AddCommand(newClearCmd())
	rootCmd.AddCommand(newSeedCmd())
	rootCmd.AddCommand(newSimulateCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// appEnv holds what every command opens from config and flags.
type appEnv struct {
	cfg       config.FileConfig
	prefs     *config.Preferences
	logger    *slog.Logger
	store     *store.Store
	logCloser io.Closer
}

type envOptions struct {
	// logToFile sends logs to the state dir while a TUI owns the terminal.
	logToFile bool
	// memoryHistory opens a throwaway history instead of the configured one.
	memoryHistory bool
}

func configPath() string {
	if globalConfigPath != "" {
		return globalConfigPath
	}
	return config.DefaultConfigPath()
}

func loadFileConfig(cmd *cobra.Command) (config.FileConfig, error) {
	cfg, err := config.LoadConfig(configPath())
	if err != nil {
		return config.FileConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "backend", &globalBackend, cfg.Storage.Backend)
	applyStringConfig(cmd, "history", &globalHistoryPath, cfg.Storage.Path)
	applyIntConfig(cmd, "retention-days", &globalRetention, cfg.Storage.RetentionDays)
	applyStringConfig(cmd, "log-level", &globalLogLevel, cfg.Log.Level)
	applyStringConfig(cmd, "log-format", &globalLogFormat, cfg.Log.Format)
	return cfg, nil
}

func openEnv(cmd *cobra.Command, opts envOptions) (*appEnv, error) {
	cfg, err := loadFileConfig(cmd)
	if err != nil {
		return nil, err
	}
	if globalRetention <= 0 {
		return nil, fmt.Errorf("--retention-days must be > 0")
	}

	env := &appEnv{cfg: cfg, prefs: config.NewPreferences(configPath())}
	logOut := io.Writer(cmd.ErrOrStderr())
	if opts.logToFile {
		file, err := openLogFile(config.DefaultLogPath())
		if err != nil {
			return nil, err
		}
		logOut = file
		env.logCloser = file
	}
	logger, err := logging.New(logging.Options{Level: globalLogLevel, Format: globalLogFormat, Output: logOut})
	if err != nil {
		env.close()
		return nil, fmt.Errorf("failed to configure logging: %w", err)
	}
	env.logger = logger

	backendKind := globalBackend
	historyPath := globalHistoryPath
	if opts.memoryHistory {
		backendKind = "memory"
	} else if historyPath == "" {
		historyPath = config.DefaultHistoryPath(backendKind)
	}
	if !opts.memoryHistory {
		if err := os.MkdirAll(filepath.Dir(historyPath), 0o755); err != nil {
			env.close()
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	backend, err := store.OpenBackend(backendKind, historyPath)
	if err != nil {
		env.close()
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	env.store = store.New(backend, store.Options{
		Retention: time.Duration(globalRetention) * 24 * time.Hour,
		Logger:    logger.With("component", "store"),
	})
	logger.Debug("history opened", "backend", backendKind, "path", historyPath)
	return env, nil
}

func (e *appEnv) close() {
	if e.store != nil {
		if cerr := e.store.Close(); cerr != nil {
			e.logger.Warn("failed to close history", "err", cerr)
		}
	}
	if e.logCloser != nil {
		// Best-effort close of the log file.
		_ = e.logCloser.Close()
	}
}

func (e *appEnv) soundThreshold() int {
	if e.cfg.Sound.Threshold != nil && *e.cfg.Sound.Threshold > 0 {
		return *e.cfg.Sound.Threshold
	}
	return sound.DefaultThreshold
}

func (e *appEnv) trackingEnabled() bool {
	return e.cfg.Tracking.Enabled == nil || *e.cfg.Tracking.Enabled
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return file, nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
