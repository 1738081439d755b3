package main

import (
	"fmt"
	"io"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/keyjam/internal/coordinator"
	"github.com/verte-zerg/keyjam/internal/foreground"
	"github.com/verte-zerg/keyjam/internal/input"
	"github.com/verte-zerg/keyjam/internal/model"
	"github.com/verte-zerg/keyjam/internal/store"
)

var (
	simulateApp     string
	simulateTrack   []string
	simulatePersist bool
)

type trackedList []string

func (l trackedList) TrackedApps() ([]string, error) {
	return l, nil
}

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate <script>",
		Short: "Replay scripted input through the streak engine",
		Long: `Replay scripted input and print the resulting streak events.

Script characters: k = key press, s = shortcut, m = mouse move. Whitespace is ignored.
The history is kept in memory unless --persist is set.`,
		Example: "  keyjam simulate 'kkkkk m kk m'\n  keyjam simulate --track Xcode --app Safari 'kkkkm'",
		Args:    cobra.ExactArgs(1),
		RunE:    runSimulateCmd,
	}
	cmd.Flags().StringVar(&simulateApp, "app", "", "foreground application reported during the replay")
	cmd.Flags().StringSliceVar(&simulateTrack, "track", nil, "tracked applications (default: all)")
	cmd.Flags().BoolVar(&simulatePersist, "persist", false, "record streaks into the configured history")
	return cmd
}

func runSimulateCmd(cmd *cobra.Command, args []string) error {
	script, err := parseScript(args[0])
	if err != nil {
		return err
	}
	env, err := openEnv(cmd, envOptions{memoryHistory: !simulatePersist})
	if err != nil {
		return err
	}
	defer env.close()

	coord := coordinator.New(coordinator.Options{
		Counters:    env.store,
		Keyboard:    input.NewSynthetic(env.logger),
		Mouse:       input.NewSynthetic(env.logger),
		Foreground:  foreground.Static(simulateApp),
		Preferences: trackedList(simulateTrack),
		Logger:      env.logger,
	})
	if !coord.Start() {
		return fmt.Errorf("failed to start simulated tracking")
	}
	defer coord.Stop()

	return replay(cmd.OutOrStdout(), coord, env.store, script)
}

func replay(w io.Writer, coord *coordinator.Coordinator, st *store.Store, script []model.InEvent) error {
	before := len(st.History())
	for _, ev := range script {
		out := coord.Process(ev)
		if len(out) == 0 {
			if _, err := fmt.Fprintf(w, "%-20s (ignored)\n", ev); err != nil {
				return err
			}
			continue
		}
		for _, o := range out {
			if _, err := fmt.Fprintf(w, "%-20s %s\n", ev, o); err != nil {
				return err
			}
		}
	}
	counters := st.Counters()
	_, err := fmt.Fprintf(w, "streak=%d breaks=%d recorded=%d\n",
		counters.CurrentStreak, counters.MouseBreakCount, len(st.History())-before)
	return err
}

func parseScript(script string) ([]model.InEvent, error) {
	events := make([]model.InEvent, 0, len(script))
	for i, r := range script {
		switch {
		case unicode.IsSpace(r):
			continue
		case r == 'k':
			events = append(events, model.CommonKeyPress)
		case r == 's':
			events = append(events, model.ShortcutKeyPress)
		case r == 'm':
			events = append(events, model.MouseMoveStarted)
		default:
			return nil, fmt.Errorf("invalid script character %q at %d (use k, s or m)", r, i)
		}
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("script is empty")
	}
	return events, nil
}
