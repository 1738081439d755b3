package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/keyjam/internal/stats"
	"github.com/verte-zerg/keyjam/internal/statsui"
)

const defaultHistoryDays = 7

var (
	statsScope       string
	statsInteractive bool
	statsHeight      int

	historyDays int
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show streak summary, trend and plot",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsScope, "scope", string(stats.ScopeWeek), "time scope: day, week or month")
	cmd.Flags().BoolVarP(&statsInteractive, "interactive", "i", false, "browse stats in a TUI")
	cmd.Flags().IntVar(&statsHeight, "height", 10, "plot height in rows")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	scope, err := stats.ParseScope(statsScope)
	if err != nil {
		return err
	}
	if statsHeight <= 0 {
		return fmt.Errorf("--height must be > 0")
	}
	env, err := openEnv(cmd, envOptions{logToFile: statsInteractive})
	if err != nil {
		return err
	}
	defer env.close()

	if statsInteractive {
		program := tea.NewProgram(statsui.NewModel(env.store, scope), tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run stats TUI: %w", err)
		}
		return nil
	}

	out := cmd.OutOrStdout()
	opts := stats.RenderOptions{Height: statsHeight}
	if out == os.Stdout {
		if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
			opts.Width = width
		}
	}
	if err := stats.RenderReport(out, stats.BuildReport(env.store, scope), opts); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded streaks",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().IntVar(&historyDays, "days", defaultHistoryDays, "number of days to list")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	if historyDays <= 0 {
		return fmt.Errorf("--days must be > 0")
	}
	env, err := openEnv(cmd, envOptions{})
	if err != nil {
		return err
	}
	defer env.close()

	if err := stats.RenderHistory(cmd.OutOrStdout(), env.store.RecentEvents(historyDays), time.Now()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
