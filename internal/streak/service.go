package streak

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/josephgoksu/streakwing/internal/clock"
	"github.com/josephgoksu/streakwing/internal/todoist"
	"github.com/josephgoksu/streakwing/models"
	"github.com/josephgoksu/streakwing/store"
	"github.com/josephgoksu/streakwing/types"
)

// PreferenceSource supplies the timezone and credential for each call.
type PreferenceSource interface {
	Preferences() types.Preferences
}

// PreferenceFunc adapts a function to PreferenceSource.
type PreferenceFunc func() types.Preferences

func (f PreferenceFunc) Preferences() types.Preferences { return f() }

// StaticPreferences is a PreferenceSource that never changes.
type StaticPreferences types.Preferences

func (p StaticPreferences) Preferences() types.Preferences { return types.Preferences(p) }

// StartInput is the request to start a new streak.
type StartInput struct {
	Content   string
	ProjectID string
	// Priority zero means the default.
	Priority models.Priority
}

// EditInput is a manual correction. Nil fields are left unchanged.
type EditInput struct {
	Content    *string
	ProjectID  *string
	Priority   *models.Priority
	CurrentDay *int
}

// Service is the entry point for every trigger: CLI, scheduler, HTTP and MCP.
type Service struct {
	store   store.StreakStore
	gateway TaskGateway
	prefs   PreferenceSource
	clock   *clock.Resolver
	engine  *Engine
	guard   *Guard
	newID   func() string
	logger  *slog.Logger

	delay time.Duration
	sleep todoist.SleepFunc
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the resolver used for "today".
func WithClock(r *clock.Resolver) Option { return func(s *Service) { s.clock = r } }

// WithGuard shares a guard between services in one process.
func WithGuard(g *Guard) Option { return func(s *Service) { s.guard = g } }

// WithInterCallDelay sets the pause between remote calls in one run.
func WithInterCallDelay(d time.Duration) Option { return func(s *Service) { s.delay = d } }

// WithSleep replaces the inter-call sleep, mostly for tests.
func WithSleep(fn todoist.SleepFunc) Option { return func(s *Service) { s.sleep = fn } }

// WithIDGenerator replaces uuid generation for new streaks.
func WithIDGenerator(fn func() string) Option { return func(s *Service) { s.newID = fn } }

// WithLogger sets the logger. Nil keeps slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService wires the store, gateway and preferences into a Service.
func NewService(st store.StreakStore, gw TaskGateway, prefs PreferenceSource, opts ...Option) *Service {
	s := &Service{
		store:   st,
		gateway: gw,
		prefs:   prefs,
		newID:   uuid.NewString,
		logger:  slog.Default(),
		delay:   DefaultInterCallDelay,
		sleep:   todoist.Sleep,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.prefs == nil {
		s.prefs = StaticPreferences{}
	}
	if s.clock == nil {
		s.clock = clock.NewResolver(clock.WithLogger(s.logger))
	}
	if s.guard == nil {
		s.guard = NewGuard()
	}
	s.engine = NewEngine(st, gw, s.guard, s.delay, s.sleep, s.logger)
	return s
}

// Today is the civil date under the current timezone preference.
func (s *Service) Today() clock.CivilDate {
	return s.clock.Today(s.prefs.Preferences().Timezone)
}

// Guard exposes the shared guard so other surfaces can report whether a run is active.
func (s *Service) Guard() *Guard { return s.guard }

// RegisterToday advances every due streak once and creates its remote task.
func (s *Service) RegisterToday(ctx context.Context) RunResult {
	prefs := s.prefs.Preferences()
	today := s.clock.Today(prefs.Timezone)
	return s.engine.Run(ctx, today, prefs.Credential)
}

// ResetTodayFlags undoes today's advance on every streak already advanced today.
// A failure on one streak is recorded and the rest are still reset.
func (s *Service) ResetTodayFlags(ctx context.Context) (ResetResult, error) {
	today := s.Today()
	result := ResetResult{Date: today, Errors: make(map[string]error)}

	streaks, err := s.store.ListAll(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to load streaks: %w", err)
	}

	for _, st := range streaks {
		if st.LastUpdatedAt != today {
			continue
		}
		rolled := st.RolledBack()
		patch := models.AdvancePatch(rolled.CurrentDay, rolled.LastUpdatedAt)
		if _, err := s.store.Patch(ctx, st.ID, patch); err != nil {
			result.Errors[st.ID] = types.NewStreakError(st.ID, "reset", err)
			s.logger.Error("failed to reset streak", "streak_id", st.ID, "error", err)
			continue
		}
		s.guard.Forget(st.ID, today)
		result.ResetCount++
		s.logger.Info("streak reset", "streak_id", st.ID, "day", rolled.CurrentDay, "last_updated_at", rolled.LastUpdatedAt)
	}
	return result, nil
}

// StartStreak validates the input, creates the day-1 remote task and then
// saves the record. Nothing is saved if the remote call fails.
func (s *Service) StartStreak(ctx context.Context, in StartInput) (models.Streak, error) {
	if err := models.ValidateContent(in.Content); err != nil {
		return models.Streak{}, err
	}
	priority := in.Priority
	if priority == 0 {
		priority = models.DefaultPriority
	}
	if !priority.Valid() {
		return models.Streak{}, fmt.Errorf("%w: %w", types.ErrInvalidStreak, types.ErrInvalidPriority)
	}

	prefs := s.prefs.Preferences()
	today := s.clock.Today(prefs.Timezone)
	st := models.NewStreak(s.newID(), in.Content, in.ProjectID, priority, s.clock.Now(), today)
	if err := models.ValidateStruct(st); err != nil {
		return models.Streak{}, err
	}

	taskID, err := s.gateway.CreateDailyTask(ctx, prefs.Credential, st)
	if err != nil {
		return models.Streak{}, fmt.Errorf("failed to create first task: %w", err)
	}
	if err := s.store.Insert(context.WithoutCancel(ctx), st); err != nil {
		return models.Streak{}, fmt.Errorf("first task %s created but streak not saved: %w", taskID, err)
	}
	// The first task already covers today.
	s.guard.Claim(st.ID, today)

	s.logger.Info("streak started", "streak_id", st.ID, "content", st.TaskContent, "task_id", taskID)
	return st, nil
}

// EditStreak applies a manual correction to content, project, priority or day count.
func (s *Service) EditStreak(ctx context.Context, id string, in EditInput) (models.Streak, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return models.Streak{}, err
	}

	var patch models.StreakPatch
	if in.Content != nil {
		if err := models.ValidateContent(*in.Content); err != nil {
			return models.Streak{}, err
		}
		content := models.NormalizeContent(*in.Content)
		patch.TaskContent = &content
	}
	if in.ProjectID != nil {
		project := strings.TrimSpace(*in.ProjectID)
		patch.ProjectID = &project
	}
	if in.Priority != nil {
		if !in.Priority.Valid() {
			return models.Streak{}, fmt.Errorf("%w: %w", types.ErrInvalidStreak, types.ErrInvalidPriority)
		}
		patch.Priority = in.Priority
	}
	if in.CurrentDay != nil {
		if *in.CurrentDay < 1 {
			return models.Streak{}, fmt.Errorf("%w: current day must be at least 1", types.ErrInvalidStreak)
		}
		patch.CurrentDay = in.CurrentDay
	}

	patch.Apply(&current)
	if err := models.ValidateStruct(current); err != nil {
		return models.Streak{}, err
	}
	if err := s.store.Replace(ctx, current); err != nil {
		return models.Streak{}, err
	}
	s.logger.Info("streak edited", "streak_id", id)
	return current, nil
}

// DeleteStreak removes a streak. Deleting an unknown id is not an error.
func (s *Service) DeleteStreak(ctx context.Context, id string) error {
	if err := s.store.Remove(ctx, id); err != nil {
		return err
	}
	s.logger.Info("streak deleted", "streak_id", id)
	return nil
}

// ListStreaks returns the collection in stored order.
func (s *Service) ListStreaks(ctx context.Context) ([]models.Streak, error) {
	return s.store.ListAll(ctx)
}

// GetStreak returns one streak or types.ErrNotFound.
func (s *Service) GetStreak(ctx context.Context, id string) (models.Streak, error) {
	return s.store.Get(ctx, id)
}
