package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/keyjam/internal/config"
	"github.com/verte-zerg/keyjam/internal/model"
)

func newAppsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apps",
		Short: "Manage the applications whose input is tracked",
		Long:  "With no tracked applications, input from every application counts.",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List tracked applications",
		Args:  cobra.NoArgs,
		RunE:  runAppsListCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "add <name>",
		Short: "Track an application (exact, case-sensitive name)",
		Args:  cobra.ExactArgs(1),
		RunE:  runAppsAddCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "remove <name>",
		Short: "Stop tracking an application",
		Args:  cobra.ExactArgs(1),
		RunE:  runAppsRemoveCmd,
	})
	return cmd
}

func appsPreferences(cmd *cobra.Command) (*config.Preferences, error) {
	if _, err := loadFileConfig(cmd); err != nil {
		return nil, err
	}
	return config.NewPreferences(configPath()), nil
}

func runAppsListCmd(cmd *cobra.Command, _ []string) error {
	prefs, err := appsPreferences(cmd)
	if err != nil {
		return err
	}
	apps, err := prefs.TrackedApps()
	if err != nil {
		return fmt.Errorf("failed to load tracked apps: %w", err)
	}
	return printApps(cmd, apps)
}

func runAppsAddCmd(cmd *cobra.Command, args []string) error {
	prefs, err := appsPreferences(cmd)
	if err != nil {
		return err
	}
	apps, err := prefs.AddTrackedApp(strings.TrimSpace(args[0]))
	if err != nil {
		return fmt.Errorf("failed to add tracked app: %w", err)
	}
	return printApps(cmd, apps)
}

func runAppsRemoveCmd(cmd *cobra.Command, args []string) error {
	prefs, err := appsPreferences(cmd)
	if err != nil {
		return err
	}
	apps, err := prefs.RemoveTrackedApp(strings.TrimSpace(args[0]))
	if err != nil {
		return fmt.Errorf("failed to remove tracked app: %w", err)
	}
	return printApps(cmd, apps)
}

func printApps(cmd *cobra.Command, apps []string) error {
	out := cmd.OutOrStdout()
	if len(apps) == 0 {
		_, err := fmt.Fprintf(out, "Tracking %s.\n", model.AllApps())
		return err
	}
	for _, app := range apps {
		if _, err := fmt.Fprintln(out, app); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}
