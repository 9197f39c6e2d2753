/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"

	"github.com/josephgoksu/streakwing/internal/ui"
	"github.com/josephgoksu/streakwing/models"
	"github.com/spf13/cobra"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List streaks",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app) error {
			streaks, err := a.svc.ListStreaks(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if listJSON {
				if streaks == nil {
					streaks = []models.Streak{}
				}
				return ui.WriteJSON(out, streaks)
			}
			if len(streaks) == 0 {
				fmt.Fprintln(out, "No streaks yet. Start one with: streakwing start \"<task>\"")
				return nil
			}
			ui.RenderStreakTable(out, streaks, a.svc.Today())
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "print streaks as JSON")
}
