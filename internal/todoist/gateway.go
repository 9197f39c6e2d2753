package todoist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/josephgoksu/streakwing/models"
	"github.com/josephgoksu/streakwing/types"
)

const (
	DefaultMaxAttempts    = 3
	DefaultBaseDelay      = 1 * time.Second
	DefaultRequestTimeout = 15 * time.Second

	dueToday = "today"
)

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the production SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Gateway creates the daily remote task for a streak with bounded retry.
type Gateway struct {
	service        TaskService
	maxAttempts    int
	baseDelay      time.Duration
	requestTimeout time.Duration
	sleep          SleepFunc
	newID          func() string
	logger         *slog.Logger
}

// GatewayOption configures a Gateway.
type GatewayOption func(*Gateway)

// WithRetry sets the attempt budget and the first backoff delay.
func WithRetry(maxAttempts int, baseDelay time.Duration) GatewayOption {
	return func(g *Gateway) {
		if maxAttempts > 0 {
			g.maxAttempts = maxAttempts
		}
		if baseDelay >= 0 {
			g.baseDelay = baseDelay
		}
	}
}

// WithRequestTimeout bounds each single attempt.
func WithRequestTimeout(d time.Duration) GatewayOption {
	return func(g *Gateway) {
		if d > 0 {
			g.requestTimeout = d
		}
	}
}

// WithSleep replaces the backoff sleep, mostly for tests.
func WithSleep(fn SleepFunc) GatewayOption {
	return func(g *Gateway) { g.sleep = fn }
}

// WithLogger sets the logger. Nil keeps slog.Default().
func WithLogger(l *slog.Logger) GatewayOption {
	return func(g *Gateway) {
		if l != nil {
			g.logger = l
		}
	}
}

// NewGateway wraps service with the default retry policy.
func NewGateway(service TaskService, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		service:        service,
		maxAttempts:    DefaultMaxAttempts,
		baseDelay:      DefaultBaseDelay,
		requestTimeout: DefaultRequestTimeout,
		sleep:          Sleep,
		newID:          uuid.NewString,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// CreateDailyTask creates "<content> - Day <n>" due today for the given record.
// The caller passes the record as it will look after the advance.
// Transient failures are retried with exponential backoff; everything else fails at once.
func (g *Gateway) CreateDailyTask(ctx context.Context, token string, s models.Streak) (string, error) {
	if strings.TrimSpace(token) == "" {
		return "", &Error{Kind: Unauthorized, Message: "no token", Err: types.ErrNoCredential}
	}
	priority, err := s.Priority.Remote()
	if err != nil {
		return "", &Error{Kind: Rejected, Message: err.Error(), Err: err}
	}

	req := TaskRequest{
		CommandID: g.newID(),
		Content:   s.TaskTitle(),
		ProjectID: s.ProjectID,
		Priority:  priority,
		Due:       dueToday,
	}

	var lastErr error
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		if attempt > 0 {
			// Exponential backoff: base, 2*base, 4*base ...
			delay := g.baseDelay << (attempt - 1)
			g.logger.Warn("retrying todoist request",
				"streak_id", s.ID, "attempt", attempt+1, "delay", delay, "error", lastErr)
			if err := g.sleep(ctx, delay); err != nil {
				return "", err
			}
		}

		taskID, err := g.attempt(ctx, token, req)
		if err == nil {
			g.logger.Debug("todoist task created", "streak_id", s.ID, "task_id", taskID, "day", s.CurrentDay)
			return taskID, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		lastErr = err
		if !IsRetryable(err) {
			return "", err
		}
	}
	return "", fmt.Errorf("giving up after %d attempts: %w", g.maxAttempts, lastErr)
}

// attempt runs one request under its own timeout. A timeout is reported as Transient.
func (g *Gateway) attempt(ctx context.Context, token string, req TaskRequest) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, g.requestTimeout)
	defer cancel()

	taskID, err := g.service.CreateTask(attemptCtx, token, req)
	if err != nil && ctx.Err() == nil && errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
		if _, ok := KindOf(err); !ok {
			return "", &Error{Kind: Transient, Message: "request timed out", Err: err}
		}
	}
	return taskID, err
}
