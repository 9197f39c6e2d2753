/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteYes bool

var deleteCmd = &cobra.Command{
	Use:     "delete [streak id]",
	Aliases: []string{"rm"},
	Short:   "Delete a streak",
	Long:    `Delete a streak. Tasks already created in Todoist are left alone.`,
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app) error {
			id, err := resolveStreakID(cmd, a, args, "Select a streak to delete")
			if err != nil {
				return err
			}
			s, err := a.svc.GetStreak(cmd.Context(), id)
			if err != nil {
				return err
			}

			if !deleteYes && isInteractive() {
				ok, err := confirm(fmt.Sprintf("Delete %q (day %d)", s.TaskContent, s.CurrentDay))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Delete cancelled.")
					return nil
				}
			}

			if err := a.svc.DeleteStreak(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted streak %s (%s).\n", s.ID, s.TaskContent)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "skip the confirmation prompt")
}
