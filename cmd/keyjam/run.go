package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/keyjam/internal/config"
	"github.com/verte-zerg/keyjam/internal/coordinator"
	"github.com/verte-zerg/keyjam/internal/foreground"
	"github.com/verte-zerg/keyjam/internal/input"
	"github.com/verte-zerg/keyjam/internal/model"
	"github.com/verte-zerg/keyjam/internal/sound"
	"github.com/verte-zerg/keyjam/internal/tui"
)

const appsReloadInterval = 2 * time.Second

var runHeadless bool

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Track streaks with a live status view",
		Args:  cobra.NoArgs,
		RunE:  runRunCmd,
	}
	cmd.Flags().BoolVar(&runHeadless, "headless", false, "log streak events instead of showing the live view")
	return cmd
}

func runRunCmd(cmd *cobra.Command, _ []string) error {
	if err := input.CheckPlatform(); err != nil {
		return err
	}
	env, err := openEnv(cmd, envOptions{logToFile: !runHeadless})
	if err != nil {
		return err
	}
	defer env.close()
	logger := env.logger

	coord := coordinator.New(coordinator.Options{
		Counters:    env.store,
		Keyboard:    input.NewKeyboardMonitor(logger),
		Mouse:       input.NewMouseMonitor(logger),
		Foreground:  foreground.System(),
		Preferences: env.prefs,
		Logger:      logger,
	})
	defer coord.Stop()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bell := sound.NewBell(os.Stdout, sound.Options{
		Threshold: env.soundThreshold(),
		Disabled:  env.prefs.SoundDisabled,
		Logger:    logger,
	})
	bellEvents, unsubscribeBell := coord.Subscribe(0)
	defer unsubscribeBell()
	go bell.Run(ctx, bellEvents)
	go watchTrackedApps(ctx, coord, env.prefs, logger)

	events, unsubscribe, started := startTracking(coord, env.trackingEnabled())
	defer unsubscribe()
	if env.trackingEnabled() && !started {
		if runHeadless {
			return fmt.Errorf("failed to start tracking: %w", input.ErrAccessibilityPermission)
		}
		logErrf("failed to start tracking; grant Accessibility permission and press p to retry\n")
	}

	if runHeadless {
		return runHeadlessLoop(ctx, events, logger)
	}

	program := tea.NewProgram(tui.NewModel(coord, env.store, events), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// startTracking subscribes before starting so the first output events reach
// the view. It reports whether tracking is running.
func startTracking(coord *coordinator.Coordinator, enabled bool) (<-chan model.OutEvent, func(), bool) {
	events, unsubscribe := coord.Subscribe(0)
	if !enabled {
		return events, unsubscribe, false
	}
	return events, unsubscribe, coord.Start()
}

func runHeadlessLoop(ctx context.Context, events <-chan model.OutEvent, logger *slog.Logger) error {
	logger.Info("tracking streaks, press Ctrl+C to stop")
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if ev.Kind == model.MouseBrokeStreak {
				logger.Info("streak broken", "count", ev.Count)
				continue
			}
			logger.Debug("streak event", "event", ev.String())
		}
	}
}

// watchTrackedApps applies edits of the tracked-app list made while running.
func watchTrackedApps(ctx context.Context, coord *coordinator.Coordinator, prefs *config.Preferences, logger *slog.Logger) {
	ticker := time.NewTicker(appsReloadInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		apps, err := prefs.TrackedApps()
		if err != nil {
			logger.Debug("failed to reload tracked apps", "err", err)
			continue
		}
		next := model.TrackApps(apps)
		if slices.Equal(next.Apps(), coord.Context().Apps()) {
			continue
		}
		coord.UpdateContext(apps)
		logger.Info("tracked apps changed", "context", next.String())
	}
}
