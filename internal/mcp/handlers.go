package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/josephgoksu/streakwing/internal/clock"
	"github.com/josephgoksu/streakwing/internal/streak"
	"github.com/josephgoksu/streakwing/models"
	"github.com/josephgoksu/streakwing/store"
	"github.com/josephgoksu/streakwing/types"
)

// StreakService is the part of streak.Service the tools use.
type StreakService interface {
	Today() clock.CivilDate
	ListStreaks(ctx context.Context) ([]models.Streak, error)
	DeleteStreak(ctx context.Context, id string) error
	RegisterToday(ctx context.Context) streak.RunResult
	ResetTodayFlags(ctx context.Context) (streak.ResetResult, error)
}

// Handlers implements every tool. save_streak and update_streak_day write
// the store directly since they never create a remote task.
type Handlers struct {
	svc   StreakService
	store store.StreakStore
	now   func() time.Time
}

// NewHandlers binds the tools to a service and the store behind it.
func NewHandlers(svc StreakService, st store.StreakStore) *Handlers {
	return &Handlers{svc: svc, store: st, now: time.Now}
}

// HandleGetStreaks lists every stored streak.
func (h *Handlers) HandleGetStreaks(ctx context.Context, _ GetStreaksParams) (*ToolResult, error) {
	streaks, err := h.svc.ListStreaks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list streaks: %w", err)
	}
	return okResult(FormatStreaks(streaks, h.svc.Today())), nil
}

// HandleSaveStreak inserts a complete record.
func (h *Handlers) HandleSaveStreak(ctx context.Context, params SaveStreakParams) (*ToolResult, error) {
	rec := params.Streak
	if strings.TrimSpace(rec.ID) == "" {
		return invalid("streak.id", "id is required"), nil
	}
	if err := models.ValidateContent(rec.TaskContent); err != nil {
		return invalid("streak.taskContent", err.Error()), nil
	}
	lastUpdated, err := clock.Parse(rec.LastUpdatedAt)
	if err != nil {
		return invalid("streak.lastUpdatedAt", "must be a YYYY-MM-DD date"), nil
	}
	startedAt := h.now().UTC()
	if rec.StartedAt != "" {
		startedAt, err = time.Parse(time.RFC3339, rec.StartedAt)
		if err != nil {
			return invalid("streak.startedAt", "must be an RFC 3339 timestamp"), nil
		}
	}

	s := models.NewStreak(rec.ID, rec.TaskContent, rec.ProjectID, models.Priority(rec.Priority), startedAt, lastUpdated)
	s.CurrentDay = rec.CurrentDay
	if s.CurrentDay == 0 {
		s.CurrentDay = 1
	}
	if err := models.ValidateStruct(s); err != nil {
		return invalid("streak", err.Error()), nil
	}
	if err := h.store.Insert(ctx, s); err != nil {
		if errors.Is(err, types.ErrDuplicateID) {
			return invalid("streak.id", err.Error()), nil
		}
		return nil, fmt.Errorf("save streak: %w", err)
	}
	return okResult(FormatSaved(s)), nil
}

// HandleDeleteStreak removes one streak.
func (h *Handlers) HandleDeleteStreak(ctx context.Context, params DeleteStreakParams) (*ToolResult, error) {
	id := strings.TrimSpace(params.StreakID)
	if id == "" {
		return invalid("streakId", "streakId is required"), nil
	}
	if err := h.svc.DeleteStreak(ctx, id); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return errResult(err.Error()), nil
		}
		return nil, fmt.Errorf("delete streak: %w", err)
	}
	return okResult(fmt.Sprintf("Deleted streak `%s`.", id)), nil
}

// HandleUpdateStreakDay sets the day counter and watermark of one streak.
func (h *Handlers) HandleUpdateStreakDay(ctx context.Context, params UpdateStreakDayParams) (*ToolResult, error) {
	id := strings.TrimSpace(params.StreakID)
	if id == "" {
		return invalid("streakId", "streakId is required"), nil
	}
	if params.NewDay < 1 {
		return invalid("newDay", "newDay must be at least 1"), nil
	}
	date, err := clock.Parse(params.LastUpdatedAt)
	if err != nil {
		return invalid("lastUpdatedAt", "must be a YYYY-MM-DD date"), nil
	}
	updated, err := h.store.Patch(ctx, id, models.AdvancePatch(params.NewDay, date))
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return errResult(err.Error()), nil
		}
		return nil, fmt.Errorf("update streak day: %w", err)
	}
	return okResult(FormatSaved(updated)), nil
}

// HandleCheckDailyUpdate reports whether a watermark equals today.
func (h *Handlers) HandleCheckDailyUpdate(_ context.Context, params CheckDailyUpdateParams) (*ToolResult, error) {
	date, err := clock.Parse(params.LastUpdatedAt)
	if err != nil {
		return invalid("lastUpdatedAt", "must be a YYYY-MM-DD date"), nil
	}
	today := h.svc.Today()
	return okResult(FormatDailyCheck(date, today)), nil
}

// HandleRegisterToday runs one registration pass.
func (h *Handlers) HandleRegisterToday(ctx context.Context, _ RegisterTodayParams) (*ToolResult, error) {
	res := h.svc.RegisterToday(ctx)
	if res.Err != nil && !res.Busy {
		return &ToolResult{Content: FormatRun(res), Error: res.Err.Error()}, nil
	}
	return okResult(FormatRun(res)), nil
}

// HandleResetTodayFlags undoes today's advances.
func (h *Handlers) HandleResetTodayFlags(ctx context.Context, _ ResetTodayFlagsParams) (*ToolResult, error) {
	res, err := h.svc.ResetTodayFlags(ctx)
	if err != nil {
		return nil, err
	}
	return okResult(FormatReset(res)), nil
}
