package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/keyjam/internal/generator"
)

var (
	clearYes bool
	seedYes  bool
)

func newClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded streaks",
		Args:  cobra.NoArgs,
		RunE:  runClearCmd,
	}
	cmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func runClearCmd(cmd *cobra.Command, _ []string) error {
	if !clearYes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Delete all recorded streaks?") {
		return fmt.Errorf("aborted")
	}
	env, err := openEnv(cmd, envOptions{})
	if err != nil {
		return err
	}
	defer env.close()

	if err := env.store.ClearAllData(); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
	return err
}

func newSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Replace the history with a sample month of streaks",
		Args:  cobra.NoArgs,
		RunE:  runSeedCmd,
	}
	cmd.Flags().BoolVarP(&seedYes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func runSeedCmd(cmd *cobra.Command, _ []string) error {
	if !seedYes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Replace recorded streaks with sample data?") {
		return fmt.Errorf("aborted")
	}
	env, err := openEnv(cmd, envOptions{})
	if err != nil {
		return err
	}
	defer env.close()

	events := generator.New().SampleMonth(generator.DefaultMonth)
	if err := env.store.Replace(events); err != nil {
		return fmt.Errorf("failed to write sample history: %w", err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d streaks.\n", len(env.store.History()))
	return err
}

func confirm(in io.Reader, out io.Writer, question string) bool {
	if _, err := fmt.Fprintf(out, "%s [y/N] ", question); err != nil {
		return false
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
