package models

import (
	"strings"
	"testing"
	"time"

	"github.com/josephgoksu/streakwing/internal/clock"
	"github.com/josephgoksu/streakwing/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriority_RemoteMapping(t *testing.T) {
	tests := []struct {
		local  Priority
		remote int
	}{
		{PriorityUrgent, 4},
		{PriorityHigh, 3},
		{PriorityNormal, 2},
		{PriorityLow, 1},
	}
	for _, tt := range tests {
		got, err := tt.local.Remote()
		require.NoError(t, err)
		assert.Equal(t, tt.remote, got)
	}

	_, err := Priority(5).Remote()
	assert.ErrorIs(t, err, types.ErrInvalidPriority)
	_, err = Priority(0).Remote()
	assert.ErrorIs(t, err, types.ErrInvalidPriority)
}

func TestValidateContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"simple", "Read 10 pages", false},
		{"exactly max", strings.Repeat("a", MaxContentLength), false},
		{"one over max", strings.Repeat("a", MaxContentLength+1), true},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"multibyte counts runes", strings.Repeat("\u00e9", MaxContentLength), false},
		// e + combining acute composes to a single character under NFC.
		{"decomposed counts composed", strings.Repeat("e\u0301", MaxContentLength), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateContent(tt.content)
			if tt.wantErr {
				assert.ErrorIs(t, err, types.ErrInvalidStreak)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewStreak(t *testing.T) {
	started := time.Date(2024, 3, 10, 22, 0, 0, 0, time.FixedZone("X", 3600))
	s := NewStreak("id-1", "  Stretch  ", " p ", 0, started, "2024-03-10")

	assert.Equal(t, "Stretch", s.TaskContent)
	assert.Equal(t, "p", s.ProjectID)
	assert.Equal(t, DefaultPriority, s.Priority)
	assert.Equal(t, 1, s.CurrentDay)
	assert.Equal(t, clock.CivilDate("2024-03-10"), s.LastUpdatedAt)
	assert.Equal(t, time.UTC, s.StartedAt.Location())
	assert.NoError(t, ValidateStruct(s))
}

func TestStreak_AdvanceAndRollBack(t *testing.T) {
	s := NewStreak("id", "Walk", "", PriorityHigh, time.Now(), "2024-03-10")
	s.CurrentDay = 5

	assert.True(t, s.IsDue("2024-03-11"))
	assert.False(t, s.IsDue("2024-03-10"))

	next := s.Advanced("2024-03-11")
	assert.Equal(t, 6, next.CurrentDay)
	assert.Equal(t, clock.CivilDate("2024-03-11"), next.LastUpdatedAt)
	assert.Equal(t, "Walk - Day 6", next.TaskTitle())

	back := next.RolledBack()
	assert.Equal(t, 5, back.CurrentDay)
	assert.Equal(t, clock.CivilDate("2024-03-10"), back.LastUpdatedAt)

	first := NewStreak("id", "Walk", "", PriorityHigh, time.Now(), "2024-03-10")
	rolled := first.RolledBack()
	assert.Equal(t, 1, rolled.CurrentDay, "day counter never drops below 1")
	assert.Equal(t, clock.CivilDate("2024-03-09"), rolled.LastUpdatedAt)
}

func TestStreakPatch_Apply(t *testing.T) {
	s := NewStreak("id", "Walk", "p1", PriorityHigh, time.Now(), "2024-03-10")
	content := "Run"
	StreakPatch{TaskContent: &content}.Apply(&s)

	assert.Equal(t, "Run", s.TaskContent)
	assert.Equal(t, "p1", s.ProjectID)
	assert.Equal(t, PriorityHigh, s.Priority)
	assert.Equal(t, 1, s.CurrentDay)
}

func TestValidateStruct_RejectsBadRecords(t *testing.T) {
	s := NewStreak("id", "Walk", "", PriorityHigh, time.Now(), "2024-03-10")
	s.Priority = 9
	assert.ErrorIs(t, ValidateStruct(s), types.ErrInvalidStreak)

	s = NewStreak("id", "Walk", "", PriorityHigh, time.Now(), "2024-03-10")
	s.LastUpdatedAt = "10/03/2024"
	assert.ErrorIs(t, ValidateStruct(s), types.ErrInvalidStreak)
}
