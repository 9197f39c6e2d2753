/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"

	"github.com/josephgoksu/streakwing/internal/telemetry"
	"github.com/spf13/cobra"
)

var telemetryCmd = &cobra.Command{
	Use:   "telemetry",
	Short: "Manage telemetry settings",
	Long: `View and manage StreakWing's anonymous telemetry settings.

Telemetry is off unless you enable it. When on, only run counts, durations and
error categories are sent; streak content and ids never leave the machine.`,
}

func loadTelemetryState() (*telemetry.Config, string, error) {
	path, err := telemetryStatePath()
	if err != nil {
		return nil, "", err
	}
	state, err := telemetry.Load(appFs, path)
	if err != nil {
		return nil, "", err
	}
	return state, path, nil
}

var telemetryStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current telemetry status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		state, _, err := loadTelemetryState()
		if err != nil {
			return fmt.Errorf("failed to read telemetry status: %w", err)
		}
		out := cmd.OutOrStdout()
		switch {
		case state.IsEnabled():
			fmt.Fprintln(out, "Telemetry: enabled")
			fmt.Fprintf(out, "  Anonymous ID: %s\n", state.AnonymousID)
			fmt.Fprintln(out, "  To disable: streakwing telemetry disable")
		case state.ConsentAsked:
			fmt.Fprintln(out, "Telemetry: disabled")
			fmt.Fprintln(out, "  To enable: streakwing telemetry enable")
		default:
			fmt.Fprintln(out, "Telemetry: not configured (off)")
		}
		if GetConfig().Telemetry.APIKey == "" {
			fmt.Fprintln(out, "  No telemetry.apiKey configured; nothing is sent.")
		}
		return nil
	},
}

var telemetryEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Enable anonymous telemetry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		state, path, err := loadTelemetryState()
		if err != nil {
			return fmt.Errorf("failed to enable telemetry: %w", err)
		}
		state.Enable()
		if err := state.Save(appFs, path); err != nil {
			return fmt.Errorf("failed to enable telemetry: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Telemetry enabled.")
		return nil
	},
}

var telemetryDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Disable anonymous telemetry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		state, path, err := loadTelemetryState()
		if err != nil {
			return fmt.Errorf("failed to disable telemetry: %w", err)
		}
		state.Disable()
		if err := state.Save(appFs, path); err != nil {
			return fmt.Errorf("failed to disable telemetry: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Telemetry disabled.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(telemetryCmd)
	telemetryCmd.AddCommand(telemetryStatusCmd)
	telemetryCmd.AddCommand(telemetryEnableCmd)
	telemetryCmd.AddCommand(telemetryDisableCmd)
}
