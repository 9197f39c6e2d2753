/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"

	"github.com/josephgoksu/streakwing/internal/logger"
	"github.com/josephgoksu/streakwing/internal/ui"
	"github.com/spf13/cobra"
)

var debugCmd = &cobra.Command{
	Use:   "debug",
	Short: "Dump every streak with its watermark for troubleshooting",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app) error {
			streaks, err := a.svc.ListStreaks(cmd.Context())
			if err != nil {
				return err
			}
			crashLogs, err := logger.ListCrashLogs()
			if err != nil {
				a.logger.Debug("failed to list crash logs", "error", err)
			}

			out := cmd.OutOrStdout()
			ui.RenderDebug(out, streaks, a.svc.Today(), crashLogs)
			fmt.Fprintf(out, "\nbackend: %s  dir: %s  key: %s\n", a.cfg.Data.Backend, a.cfg.Data.Dir, a.cfg.Data.Key)
			if resolveToken() == "" {
				fmt.Fprintln(out, ui.StyleWarning.Render("No Todoist token configured."))
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(debugCmd)
}
