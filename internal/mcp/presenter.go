package mcp

import (
	"fmt"
	"sort"
	"strings"

	"github.com/josephgoksu/streakwing/internal/clock"
	"github.com/josephgoksu/streakwing/internal/streak"
	"github.com/josephgoksu/streakwing/models"
)

// FormatStreaks renders the streak list as a Markdown table.
func FormatStreaks(streaks []models.Streak, today clock.CivilDate) string {
	if len(streaks) == 0 {
		return "No streaks yet. Start one with the `start` command."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## Streaks (%d)\n\n", len(streaks))
	fmt.Fprintf(&sb, "Today is %s.\n\n", today)
	sb.WriteString("| ID | Task | Day | Priority | Last updated | Due |\n")
	sb.WriteString("|---|---|---|---|---|---|\n")
	for _, s := range streaks {
		due := "no"
		if s.IsDue(today) {
			due = "yes"
		}
		fmt.Fprintf(&sb, "| `%s` | %s | %d | P%d | %s | %s |\n",
			s.ID, escapeCell(truncate(s.TaskContent, 60)), s.CurrentDay, s.Priority, s.LastUpdatedAt, due)
	}
	return strings.TrimSpace(sb.String())
}

// FormatSaved confirms a written streak.
func FormatSaved(s models.Streak) string {
	return fmt.Sprintf("Saved streak `%s`: **%s** is on day %d (last updated %s).",
		s.ID, s.TaskContent, s.CurrentDay, s.LastUpdatedAt)
}

// FormatDailyCheck answers whether a watermark is today.
func FormatDailyCheck(date, today clock.CivilDate) string {
	if date == today {
		return fmt.Sprintf("true: %s is today.", date)
	}
	return fmt.Sprintf("false: %s is not today (%s).", date, today)
}

// FormatRun summarizes a registration run.
func FormatRun(r streak.RunResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## Registration for %s\n\n", r.Date)
	if r.Busy {
		sb.WriteString("Another registration run is in progress. Nothing was processed.")
		return sb.String()
	}
	fmt.Fprintf(&sb, "- Processed: %d\n- Skipped: %d\n- Errors: %d\n", r.Processed, r.Skipped, len(r.Errors))
	if len(r.Outcomes) > 0 {
		sb.WriteString("\n")
		for _, o := range r.Outcomes {
			fmt.Fprintf(&sb, "- `%s` %s: %s, day %d", o.StreakID, truncate(o.Content, 40), o.State, o.Day)
			if o.Error != "" {
				fmt.Fprintf(&sb, " (%s)", o.Error)
			}
			sb.WriteString("\n")
		}
	}
	if r.Err != nil {
		fmt.Fprintf(&sb, "\nRun stopped: %s\n", r.Err)
	}
	return strings.TrimSpace(sb.String())
}

// FormatReset summarizes a reset.
func FormatReset(r streak.ResetResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Reset %d streak(s) advanced on %s.", r.ResetCount, r.Date)
	ids := make([]string, 0, len(r.Errors))
	for id := range r.Errors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Fprintf(&sb, "\n- `%s` failed: %s", id, r.Errors[id])
	}
	return sb.String()
}

// FormatError returns a standardized Markdown error message.
func FormatError(message string) string {
	return fmt.Sprintf("## Error\n\n**Details**: %s", message)
}

// FormatValidationError returns a Markdown error for validation failures.
func FormatValidationError(field, message string) string {
	return fmt.Sprintf("## Validation Error\n\n**Field**: `%s`\n**Details**: %s", field, message)
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
