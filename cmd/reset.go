/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"

	"github.com/josephgoksu/streakwing/internal/telemetry"
	"github.com/josephgoksu/streakwing/internal/ui"
	"github.com/spf13/cobra"
)

var (
	resetYes  bool
	resetJSON bool
)

var resetTodayCmd = &cobra.Command{
	Use:   "reset-today",
	Short: "Undo today's advance so registration can run again",
	Long: `Undo today's advance on every streak updated today: the day counter goes back
by one (never below 1) and the last update date moves to yesterday. Tasks
already created in Todoist are not deleted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !resetYes {
			if !isInteractive() {
				return fmt.Errorf("refusing to reset without confirmation; pass --yes")
			}
			ok, err := confirm("Reset today's progress on every streak")
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Reset cancelled.")
				return nil
			}
		}

		return withApp(cmd, func(a *app) error {
			res, err := a.svc.ResetTodayFlags(cmd.Context())
			if err != nil {
				return err
			}
			a.tracker.Track(telemetry.EventFlagsReset, telemetry.Properties{
				"reset":  res.ResetCount,
				"errors": len(res.Errors),
			})

			if resetJSON {
				if err := ui.WriteJSON(cmd.OutOrStdout(), ui.NewResetReport(res)); err != nil {
					return err
				}
			} else {
				ui.RenderResetSummary(cmd.OutOrStdout(), res)
			}
			if len(res.Errors) > 0 {
				return fmt.Errorf("%d streak(s) could not be reset", len(res.Errors))
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(resetTodayCmd)
	resetTodayCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "skip the confirmation prompt")
	resetTodayCmd.Flags().BoolVar(&resetJSON, "json", false, "print the reset report as JSON")
}
