package ui

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/josephgoksu/streakwing/internal/clock"
	"github.com/josephgoksu/streakwing/internal/streak"
	"github.com/josephgoksu/streakwing/models"
)

// TruncateID shortens an ID for display (first 8 chars).
func TruncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func sortedKeys(m map[string]error) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// RenderStreakTable prints the collection with today's status per streak.
func RenderStreakTable(w io.Writer, streaks []models.Streak, today clock.CivilDate) {
	if len(streaks) == 0 {
		fmt.Fprintln(w, StyleSubtle.Render("No streaks yet. Start one with: streakwing start \"<task>\""))
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Task", "Day", "Priority", "Last Updated", "Today"})
	for _, s := range streaks {
		status := "due"
		if !s.IsDue(today) {
			status = "done"
		}
		t.AppendRow(table.Row{TruncateID(s.ID), s.TaskContent, s.CurrentDay, fmt.Sprintf("P%d", s.Priority), s.LastUpdatedAt, status})
	}
	t.Render()
}

// RenderDebug prints the full dump used when diagnosing watermark problems.
func RenderDebug(w io.Writer, streaks []models.Streak, today clock.CivilDate, crashLogs []string) {
	fmt.Fprintln(w, StyleHeader.Render("Streak debug"))
	fmt.Fprintf(w, "%s %s\n", StyleTitle.Render("Today:"), today)
	fmt.Fprintf(w, "%s %d\n\n", StyleTitle.Render("Streaks:"), len(streaks))

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Task", "Project", "Day", "Last Updated", "Updated Today", "Started"})
	for _, s := range streaks {
		t.AppendRow(table.Row{s.ID, s.TaskContent, s.ProjectID, s.CurrentDay, s.LastUpdatedAt, !s.IsDue(today), s.StartedAt.Format("2006-01-02 15:04")})
	}
	t.Render()

	if len(crashLogs) > 0 {
		fmt.Fprintf(w, "\n%s\n", StyleWarning.Render(fmt.Sprintf("%d crash log(s):", len(crashLogs))))
		for _, p := range crashLogs {
			fmt.Fprintf(w, "  %s\n", p)
		}
	}
}

// RenderRunSummary prints a short human summary of a registration run.
func RenderRunSummary(w io.Writer, r streak.RunResult) {
	var sb strings.Builder
	switch {
	case r.Busy:
		sb.WriteString(StyleWarning.Render("A registration run is already in progress; nothing was done."))
	case r.Processed == 0 && len(r.Errors) == 0 && r.Err == nil:
		sb.WriteString(StyleSuccess.Render(fmt.Sprintf("All streaks are up to date for %s.", r.Date)))
	default:
		fmt.Fprintf(&sb, "%s %s\n", StyleTitle.Render("Registered for"), r.Date)
		fmt.Fprintf(&sb, "%s %d   %s %d", StyleSuccess.Render("processed"), r.Processed, StyleSubtle.Render("skipped"), r.Skipped)
		for _, o := range r.Outcomes {
			if o.State == streak.StateDone {
				fmt.Fprintf(&sb, "\n%s %s - Day %d", Icon("✓", StyleSuccess), o.Content, o.Day)
			}
		}
		for _, id := range r.ErrorIDs() {
			fmt.Fprintf(&sb, "\n%s %s: %v", Icon("✗", StyleError), TruncateID(id), r.Errors[id])
		}
		if r.Err != nil {
			fmt.Fprintf(&sb, "\n%s run stopped: %v", Icon("!", StyleWarning), r.Err)
		}
	}
	fmt.Fprintln(w, StyleSummaryBox.Render(sb.String()))
}

// RenderResetSummary prints the outcome of a reset.
func RenderResetSummary(w io.Writer, r streak.ResetResult) {
	if r.ResetCount == 0 && len(r.Errors) == 0 {
		fmt.Fprintln(w, StyleSubtle.Render("No streaks were registered today; nothing to reset."))
		return
	}
	fmt.Fprintln(w, StyleSuccess.Render(fmt.Sprintf("Reset %d streak(s) registered on %s.", r.ResetCount, r.Date)))
	for _, id := range sortedKeys(r.Errors) {
		fmt.Fprintf(w, "%s %s: %v\n", Icon("✗", StyleError), TruncateID(id), r.Errors[id])
	}
}

// RenderStreak prints a single streak after start or edit.
func RenderStreak(w io.Writer, s models.Streak) {
	fmt.Fprintf(w, "%s %s\n", Icon("✓", StyleSuccess), StyleTitle.Render(s.TaskTitle()))
	fmt.Fprintf(w, "  %s %s\n", StyleSubtle.Render("id:"), s.ID)
	if s.ProjectID != "" {
		fmt.Fprintf(w, "  %s %s\n", StyleSubtle.Render("project:"), s.ProjectID)
	}
	fmt.Fprintf(w, "  %s P%d\n", StyleSubtle.Render("priority:"), s.Priority)
}
