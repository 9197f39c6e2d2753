// Package mcp exposes streak operations as Model Context Protocol tools.
package mcp

// Tool names.
const (
	ToolGetStreaks       = "get_streaks"
	ToolSaveStreak       = "save_streak"
	ToolDeleteStreak     = "delete_streak"
	ToolUpdateStreakDay  = "update_streak_day"
	ToolCheckDailyUpdate = "check_daily_update"
	ToolRegisterToday    = "register_today"
	ToolResetTodayFlags  = "reset_today_flags"
)

// GetStreaksParams takes no arguments.
type GetStreaksParams struct{}

// StreakRecord is a complete streak as supplied by a client.
type StreakRecord struct {
	ID          string `json:"id"`
	TaskContent string `json:"taskContent"`
	ProjectID   string `json:"projectId,omitempty"`
	// Priority is 1 (most urgent) to 4; 0 means 4.
	Priority   int `json:"priority,omitempty"`
	CurrentDay int `json:"currentDay"`
	// StartedAt is RFC 3339; empty means now.
	StartedAt string `json:"startedAt,omitempty"`
	// LastUpdatedAt is YYYY-MM-DD.
	LastUpdatedAt string `json:"lastUpdatedAt"`
}

// SaveStreakParams stores a streak record without contacting the task service.
type SaveStreakParams struct {
	Streak StreakRecord `json:"streak"`
}

// DeleteStreakParams identifies the streak to remove.
type DeleteStreakParams struct {
	StreakID string `json:"streakId"`
}

// UpdateStreakDayParams overwrites the day counter and watermark.
type UpdateStreakDayParams struct {
	StreakID      string `json:"streakId"`
	NewDay        int    `json:"newDay"`
	LastUpdatedAt string `json:"lastUpdatedAt"`
}

// CheckDailyUpdateParams carries the watermark to compare with today.
type CheckDailyUpdateParams struct {
	LastUpdatedAt string `json:"lastUpdatedAt"`
}

// RegisterTodayParams takes no arguments.
type RegisterTodayParams struct{}

// ResetTodayFlagsParams takes no arguments.
type ResetTodayFlagsParams struct{}

// ToolResult is the outcome of one tool handler. Error is shown to the
// client as a tool error rather than a protocol error.
type ToolResult struct {
	Content string `json:"content"`
	Error   string `json:"error,omitempty"`
	// Field is set for validation errors.
	Field string `json:"field,omitempty"`
}

func okResult(content string) *ToolResult { return &ToolResult{Content: content} }

func errResult(message string) *ToolResult { return &ToolResult{Error: message} }

func invalid(field, message string) *ToolResult {
	return &ToolResult{Error: message, Field: field}
}
