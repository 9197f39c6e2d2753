/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"

	"github.com/josephgoksu/streakwing/internal/streak"
	"github.com/josephgoksu/streakwing/internal/ui"
	"github.com/josephgoksu/streakwing/models"
	"github.com/spf13/cobra"
)

var (
	editContent  string
	editProject  string
	editPriority int
	editDay      int
)

var editCmd = &cobra.Command{
	Use:   "edit [streak id]",
	Short: "Correct a streak's task, project, priority or day count",
	Long: `Edit a streak in place. Only the flags you pass are changed. The last update
date is left alone, so editing never marks a streak as done for today.`,
	Example: `  streakwing edit 3f2a9c1e --day 40
  streakwing edit 3f2a9c1e --content "Study Spanish (30 min)" --priority 2`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		var in streak.EditInput
		if flags.Changed("content") {
			in.Content = &editContent
		}
		if flags.Changed("project") {
			in.ProjectID = &editProject
		}
		if flags.Changed("priority") {
			p := models.Priority(editPriority)
			in.Priority = &p
		}
		if flags.Changed("day") {
			in.CurrentDay = &editDay
		}
		if in == (streak.EditInput{}) {
			return fmt.Errorf("nothing to change; pass at least one of --content, --project, --priority, --day")
		}

		return withApp(cmd, func(a *app) error {
			id, err := resolveStreakID(cmd, a, args, "Select a streak to edit")
			if err != nil {
				return err
			}
			updated, err := a.svc.EditStreak(cmd.Context(), id, in)
			if err != nil {
				return err
			}
			ui.RenderStreak(cmd.OutOrStdout(), updated)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().StringVar(&editContent, "content", "", "new task content")
	editCmd.Flags().StringVarP(&editProject, "project", "p", "", "new Todoist project id (empty clears it)")
	editCmd.Flags().IntVar(&editPriority, "priority", 0, "new priority from 1 (urgent) to 4 (low)")
	editCmd.Flags().IntVar(&editDay, "day", 0, "new current day (at least 1)")
}
