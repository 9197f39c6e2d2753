package mcp

import (
	"errors"
	"testing"
	"time"

	"github.com/josephgoksu/streakwing/internal/streak"
	"github.com/josephgoksu/streakwing/models"
	"github.com/stretchr/testify/assert"
)

func TestFormatStreaks_MarksDue(t *testing.T) {
	started := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := FormatStreaks([]models.Streak{
		models.NewStreak("a", "Run", "", 0, started, "2024-03-09"),
		models.NewStreak("b", "Swim", "", 0, started, "2024-03-10"),
	}, "2024-03-10")

	assert.Contains(t, out, "## Streaks (2)")
	assert.Contains(t, out, "| `a` | Run | 1 | P4 | 2024-03-09 | yes |")
	assert.Contains(t, out, "| `b` | Swim | 1 | P4 | 2024-03-10 | no |")
}

func TestFormatRun(t *testing.T) {
	busy := FormatRun(streak.RunResult{Date: "2024-03-10", Busy: true})
	assert.Contains(t, busy, "in progress")

	out := FormatRun(streak.RunResult{
		Date:      "2024-03-10",
		Processed: 1,
		Errors:    map[string]error{"b": errors.New("timeout")},
		Outcomes: []streak.Outcome{
			{StreakID: "a", Content: "Run", State: streak.StateDone, Day: 4},
			{StreakID: "b", Content: "Swim", State: streak.StateLocalCommitOnly, Day: 2, Error: "timeout"},
		},
	})
	assert.Contains(t, out, "- Processed: 1")
	assert.Contains(t, out, "- Errors: 1")
	assert.Contains(t, out, "`b` Swim: local_commit_only, day 2 (timeout)")
}

func TestFormatReset_SortsErrors(t *testing.T) {
	out := FormatReset(streak.ResetResult{
		Date:       "2024-03-10",
		ResetCount: 1,
		Errors:     map[string]error{"z": errors.New("x"), "a": errors.New("y")},
	})
	assert.Equal(t, "Reset 1 streak(s) advanced on 2024-03-10.\n- `a` failed: y\n- `z` failed: x", out)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab...", truncate("abcdef", 2))
	assert.Equal(t, "日本...", truncate("日本語です", 2))
}
