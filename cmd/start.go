/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"strings"

	"github.com/josephgoksu/streakwing/internal/streak"
	"github.com/josephgoksu/streakwing/internal/telemetry"
	"github.com/josephgoksu/streakwing/internal/ui"
	"github.com/josephgoksu/streakwing/models"
	"github.com/spf13/cobra"
)

var (
	startProjectID string
	startPriority  int
)

var startCmd = &cobra.Command{
	Use:   "start <task content>",
	Short: "Start a new streak and create its day 1 task",
	Long: `Start a new streak. The day 1 task is created in Todoist right away and the
streak is saved only if that succeeds. The new streak counts as done for today.`,
	Example: `  streakwing start "Study Spanish"
  streakwing start "Run 5k" --priority 2 --project 2203306141`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app) error {
			stop := ui.StartSpinner(cmd.ErrOrStderr(), "Creating day 1 task...", isInteractive())
			s, err := a.svc.StartStreak(cmd.Context(), streak.StartInput{
				Content:   strings.Join(args, " "),
				ProjectID: startProjectID,
				Priority:  models.Priority(startPriority),
			})
			stop()
			if err != nil {
				return err
			}
			a.tracker.Track(telemetry.EventStreakStarted, telemetry.Properties{"priority": int(s.Priority)})

			out := cmd.OutOrStdout()
			ui.RenderStreak(out, s)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
	startCmd.Flags().StringVarP(&startProjectID, "project", "p", "", "Todoist project id for the daily tasks")
	startCmd.Flags().IntVar(&startPriority, "priority", int(models.DefaultPriority), "priority from 1 (urgent) to 4 (low)")
}
