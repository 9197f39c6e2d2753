// Package schedule triggers registration runs on a fixed interval.
package schedule

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/josephgoksu/streakwing/internal/streak"
)

// DefaultInterval applies when the configured interval is not positive.
const DefaultInterval = time.Hour

// RunFunc performs one registration pass.
type RunFunc func(ctx context.Context) streak.RunResult

// Scheduler runs RunFunc once at start and then once per interval.
type Scheduler struct {
	run      RunFunc
	onResult func(streak.RunResult)
	logger   *slog.Logger
	after    func(time.Duration) <-chan time.Time

	mu       sync.Mutex
	interval time.Duration
	reset    chan time.Duration

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithResultHandler is called after every run.
func WithResultHandler(fn func(streak.RunResult)) Option {
	return func(s *Scheduler) { s.onResult = fn }
}

// WithAfter replaces time.After, mainly for tests.
func WithAfter(fn func(time.Duration) <-chan time.Time) Option {
	return func(s *Scheduler) { s.after = fn }
}

// New builds a scheduler. It does nothing until Start.
func New(run RunFunc, interval time.Duration, opts ...Option) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	s := &Scheduler{
		run:      run,
		interval: interval,
		reset:    make(chan time.Duration, 1),
		logger:   slog.Default(),
		after:    time.After,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Interval returns the current wait between runs.
func (s *Scheduler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// SetInterval changes the wait between runs. The pending wait restarts with
// the new interval; no extra run is triggered.
func (s *Scheduler) SetInterval(d time.Duration) {
	if d <= 0 {
		d = DefaultInterval
	}
	s.mu.Lock()
	changed := d != s.interval
	s.interval = d
	s.mu.Unlock()
	if !changed {
		return
	}
	s.logger.Info("schedule interval changed", "interval", d)
	// Keep only the latest value.
	select {
	case <-s.reset:
	default:
	}
	s.reset <- d
}

// ConfigChangeHandler returns a handler for viper.OnConfigChange that
// re-reads the interval on writes to the config file.
func (s *Scheduler) ConfigChangeHandler(interval func() time.Duration) func(fsnotify.Event) {
	return func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		s.logger.Debug("config file changed", "file", e.Name, "op", e.Op.String())
		s.SetInterval(interval())
	}
}

// Start launches the loop in the background.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		_ = s.loop(ctx)
	}()
}

// Stop cancels the loop and waits for an in-flight run to finish.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

// Run blocks until ctx is done. It returns nil on a clean shutdown.
func (s *Scheduler) Run(ctx context.Context) error {
	err := s.loop(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (s *Scheduler) loop(ctx context.Context) error {
	for {
		s.runOnce(ctx)

		wait := s.after(s.Interval())
	waiting:
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-wait:
				break waiting
			case d := <-s.reset:
				wait = s.after(d)
			}
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	start := time.Now()
	res := s.run(ctx)
	s.logger.Info("scheduled run finished",
		"date", res.Date,
		"processed", res.Processed,
		"skipped", res.Skipped,
		"errors", len(res.Errors),
		"busy", res.Busy,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	if res.Err != nil && !errors.Is(res.Err, context.Canceled) {
		s.logger.Error("scheduled run failed", "error", res.Err)
	}
	if s.onResult != nil {
		s.onResult(res)
	}
}
