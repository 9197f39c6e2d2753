package streak

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/josephgoksu/streakwing/internal/clock"
	"github.com/josephgoksu/streakwing/internal/todoist"
	"github.com/josephgoksu/streakwing/models"
	"github.com/josephgoksu/streakwing/store"
	"github.com/josephgoksu/streakwing/types"
)

// DefaultInterCallDelay spaces out remote calls within one run.
const DefaultInterCallDelay = 2 * time.Second

// TaskGateway creates the remote task for a streak's day.
type TaskGateway interface {
	CreateDailyTask(ctx context.Context, token string, s models.Streak) (string, error)
}

// Engine advances every due streak exactly once per civil day.
type Engine struct {
	store   store.StreakStore
	gateway TaskGateway
	guard   *Guard
	delay   time.Duration
	sleep   todoist.SleepFunc
	logger  *slog.Logger
}

// NewEngine creates an Engine. guard must be shared by every trigger in the process.
func NewEngine(st store.StreakStore, gw TaskGateway, guard *Guard, delay time.Duration, sleep todoist.SleepFunc, logger *slog.Logger) *Engine {
	if guard == nil {
		guard = NewGuard()
	}
	if sleep == nil {
		sleep = todoist.Sleep
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{store: st, gateway: gw, guard: guard, delay: delay, sleep: sleep, logger: logger}
}

// Run processes the collection for today. Per-streak failures are recorded in
// the result and never stop the batch. If ctx is canceled the run stops
// before the next streak and the remaining ones stay due.
func (e *Engine) Run(ctx context.Context, today clock.CivilDate, token string) RunResult {
	result := RunResult{Date: today, Errors: make(map[string]error), Outcomes: []Outcome{}}

	release, ok := e.guard.Acquire(today)
	if !ok {
		e.logger.Info("registration already in progress, skipping run", "date", today)
		result.Busy = true
		return result
	}
	defer release()

	streaks, err := e.store.ListAll(ctx)
	if err != nil {
		result.Err = fmt.Errorf("failed to load streaks: %w", err)
		e.logger.Error("registration run aborted", "date", today, "error", err)
		return result
	}

	e.logger.Info("registration run started", "date", today, "streaks", len(streaks))
	calledRemote := false
	for _, s := range streaks {
		if err := ctx.Err(); err != nil {
			result.Err = err
			break
		}

		if !s.IsDue(today) {
			result.Skipped++
			result.Outcomes = append(result.Outcomes, Outcome{StreakID: s.ID, Content: s.TaskContent, State: StateAlreadyDone, Day: s.CurrentDay})
			continue
		}
		if !e.guard.Claim(s.ID, today) {
			result.Skipped++
			result.Outcomes = append(result.Outcomes, Outcome{StreakID: s.ID, Content: s.TaskContent, State: StateClaimed, Day: s.CurrentDay})
			continue
		}

		if calledRemote && e.delay > 0 {
			if err := e.sleep(ctx, e.delay); err != nil {
				// The claim stands but nothing was done; let a later run take it.
				e.guard.Forget(s.ID, today)
				result.Err = err
				break
			}
		}

		outcome, reachedRemote := e.processOne(ctx, s, today, token)
		calledRemote = calledRemote || reachedRemote
		result.Outcomes = append(result.Outcomes, outcome.Outcome)
		if outcome.err != nil {
			result.Errors[s.ID] = outcome.err
		}
		if outcome.committed {
			result.Processed++
		}
	}

	e.logger.Info("registration run finished",
		"date", today, "processed", result.Processed, "skipped", result.Skipped, "errors", len(result.Errors))
	return result
}

type streakOutcome struct {
	Outcome
	committed bool
	err       error
}

// processOne drives one due streak through the remote call and the local commit.
// A panic is turned into a per-streak error.
func (e *Engine) processOne(ctx context.Context, s models.Streak, today clock.CivilDate, token string) (out streakOutcome, reachedRemote bool) {
	defer func() {
		if r := recover(); r != nil {
			err := types.NewStreakError(s.ID, "register", fmt.Errorf("panic: %v", r))
			e.logger.Error("streak processing panicked", "streak_id", s.ID, "panic", r)
			out = streakOutcome{
				Outcome: Outcome{StreakID: s.ID, Content: s.TaskContent, State: StateFailed, Day: s.CurrentDay, Error: err.Error()},
				err:     err,
			}
		}
	}()

	candidate := s.Advanced(today)
	out.Outcome = Outcome{StreakID: s.ID, Content: s.TaskContent, Day: s.CurrentDay}

	taskID, remoteErr := e.gateway.CreateDailyTask(ctx, token, candidate)
	reachedRemote = !errors.Is(remoteErr, types.ErrNoCredential)
	if remoteErr != nil {
		e.logger.Warn("remote task creation failed, advancing locally",
			"streak_id", s.ID, "day", candidate.CurrentDay, "error", remoteErr)
	}

	// Once the remote side has been attempted the advance is committed even if ctx was canceled meanwhile.
	_, storeErr := e.store.Patch(context.WithoutCancel(ctx), s.ID, models.AdvancePatch(candidate.CurrentDay, today))

	switch {
	case remoteErr == nil && storeErr == nil:
		out.State = StateDone
		out.Day = candidate.CurrentDay
		out.TaskID = taskID
		out.committed = true
		e.logger.Info("streak advanced", "streak_id", s.ID, "day", candidate.CurrentDay, "task_id", taskID)
	case remoteErr == nil:
		out.State = StatePartialFailure
		out.TaskID = taskID
		out.err = types.NewStreakError(s.ID, "save advance", storeErr)
		e.logger.Error("remote task created but advance not saved; streak stays due",
			"streak_id", s.ID, "task_id", taskID, "error", storeErr)
	case storeErr == nil:
		out.State = StateLocalCommitOnly
		out.Day = candidate.CurrentDay
		out.committed = true
		out.err = types.NewStreakError(s.ID, "create remote task", remoteErr)
	default:
		out.State = StateFailed
		out.err = types.NewStreakError(s.ID, "register", errors.Join(remoteErr, storeErr))
		e.logger.Error("streak registration failed", "streak_id", s.ID, "remote_error", remoteErr, "store_error", storeErr)
	}
	if out.err != nil {
		out.Error = out.err.Error()
	}
	return out, reachedRemote
}
