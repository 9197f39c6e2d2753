/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"time"

	"github.com/josephgoksu/streakwing/internal/logger"
	"github.com/josephgoksu/streakwing/internal/ui"
	"github.com/spf13/cobra"
)

var registerJSON bool

var registerCmd = &cobra.Command{
	Use:     "register",
	Aliases: []string{"today"},
	Short:   "Create today's task for every streak that is due",
	Long: `Create today's Todoist task for every streak not yet advanced today and move
its day counter forward. Streaks already done today are skipped, so running this
more than once a day is safe.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app) error {
			logger.SetTrigger("cli")
			start := time.Now()
			stop := ui.StartSpinner(cmd.ErrOrStderr(), "Registering today's tasks...", !registerJSON && isInteractive())
			res := a.svc.RegisterToday(cmd.Context())
			stop()
			a.trackRun("cli", res, time.Since(start))

			if registerJSON {
				if err := ui.WriteJSON(cmd.OutOrStdout(), ui.NewRunReport(res)); err != nil {
					return err
				}
			} else {
				ui.RenderRunSummary(cmd.OutOrStdout(), res)
			}

			if res.Err != nil {
				return fmt.Errorf("registration stopped: %w", res.Err)
			}
			if len(res.Errors) > 0 {
				return fmt.Errorf("%d streak(s) had errors", len(res.Errors))
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)
	registerCmd.Flags().BoolVar(&registerJSON, "json", false, "print the run report as JSON")
}
