/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/josephgoksu/streakwing/internal/streak"
	"github.com/josephgoksu/streakwing/internal/telemetry"
	"github.com/josephgoksu/streakwing/internal/todoist"
	"github.com/josephgoksu/streakwing/internal/ui"
	"github.com/josephgoksu/streakwing/store"
	"github.com/josephgoksu/streakwing/types"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	// appFs is the filesystem used for export, import and telemetry state.
	appFs afero.Fs = afero.NewOsFs()
	// isInteractive reports whether prompts and spinners may be shown.
	isInteractive = ui.IsInteractive
	// confirm asks a yes/no question on the terminal.
	confirm = ui.Confirm
	// telemetryStatePath locates the telemetry opt-in file.
	telemetryStatePath = telemetry.DefaultPath
)

// app bundles everything a command needs. Close releases the store and
// flushes telemetry.
type app struct {
	cfg     *types.AppConfig
	store   *store.KVStreakStore
	svc     *streak.Service
	prefs   *livePreferences
	tracker telemetry.Client
	logger  *slog.Logger
}

func newApp() (*app, error) {
	cfg := GetConfig()
	l := slog.Default()

	st, err := store.Open(cfg.Data)
	if err != nil {
		return nil, err
	}

	client := todoist.NewClient(cfg.Todoist.BaseURL, &http.Client{})
	gw := todoist.NewGateway(client,
		todoist.WithRetry(cfg.Todoist.MaxRetries, cfg.Todoist.RetryBaseDelay()),
		todoist.WithRequestTimeout(cfg.Todoist.RequestTimeout()),
		todoist.WithLogger(l),
	)
	prefs := newLivePreferences()
	svc := streak.NewService(st, gw, prefs,
		streak.WithInterCallDelay(cfg.Registration.InterCallDelay()),
		streak.WithLogger(l),
	)

	return &app{
		cfg:     cfg,
		store:   st,
		svc:     svc,
		prefs:   prefs,
		tracker: newTelemetryClient(cfg.Telemetry, l),
		logger:  l,
	}, nil
}

// newTelemetryClient returns a no-op client unless telemetry is opted in
// and an API key is configured.
func newTelemetryClient(cfg types.TelemetryConfig, l *slog.Logger) telemetry.Client {
	if cfg.APIKey == "" {
		return telemetry.NewNoopClient()
	}
	path, err := telemetryStatePath()
	if err != nil {
		l.Debug("telemetry disabled", "error", err)
		return telemetry.NewNoopClient()
	}
	state, err := telemetry.Load(appFs, path)
	if err != nil {
		l.Debug("telemetry disabled", "error", err)
		return telemetry.NewNoopClient()
	}
	if cfg.Enabled {
		state.Enabled = true
	}
	if !state.IsEnabled() {
		return telemetry.NewNoopClient()
	}
	client, err := telemetry.NewPostHogClient(telemetry.ClientConfig{
		APIKey:   cfg.APIKey,
		Version:  version,
		Config:   state,
		Endpoint: cfg.Endpoint,
	})
	if err != nil {
		l.Debug("telemetry disabled", "error", err)
		return telemetry.NewNoopClient()
	}
	return client
}

func (a *app) Close() error {
	return errors.Join(a.store.Close(), a.tracker.Close())
}

// trackRun records a finished registration run.
func (a *app) trackRun(trigger string, res streak.RunResult, elapsed time.Duration) {
	a.tracker.Track(telemetry.EventRegistrationRun,
		telemetry.RunProperties(trigger, res.Processed, res.Skipped, len(res.Errors), res.Busy, elapsed))
}

// trackError records a failed command by category only.
func (a *app) trackError(cmd *cobra.Command, err error) {
	a.tracker.Track(telemetry.EventCommandError,
		telemetry.CommandErrorProperties(cmd.Name(), errorCategory(err)))
}

// withApp builds the app, runs fn and always closes the app.
func withApp(cmd *cobra.Command, fn func(a *app) error) error {
	a, err := newApp()
	if err != nil {
		return fmt.Errorf("failed to open streak store: %w", err)
	}
	defer func() {
		if cerr := a.Close(); cerr != nil {
			a.logger.Warn("failed to close app", "error", cerr)
		}
	}()
	if err := fn(a); err != nil {
		a.trackError(cmd, err)
		return err
	}
	return nil
}
