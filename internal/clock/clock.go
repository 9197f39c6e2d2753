// Package clock resolves "today" as a civil date in a configured timezone.
//
// Every component asks the Resolver which day it is, so a single injected
// instant source makes the whole registration flow deterministic in tests.
package clock

import (
	"log/slog"
	"strings"
	"time"
)

// Layout is the civil date format used for watermarks.
const Layout = "2006-01-02"

// CivilDate is a timezone-anchored calendar date, formatted as YYYY-MM-DD.
type CivilDate string

// DateOf returns the civil date of t in t's own location.
func DateOf(t time.Time) CivilDate {
	return CivilDate(t.Format(Layout))
}

// Parse validates s as a civil date.
func Parse(s string) (CivilDate, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return "", err
	}
	return DateOf(t), nil
}

// String returns the YYYY-MM-DD form.
func (d CivilDate) String() string {
	return string(d)
}

// AddDays shifts the date by n calendar days. An unparsable date is returned unchanged.
func (d CivilDate) AddDays(n int) CivilDate {
	t, err := time.Parse(Layout, string(d))
	if err != nil {
		return d
	}
	return DateOf(t.AddDate(0, 0, n))
}

// Resolver converts the current instant into a civil date.
type Resolver struct {
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithNow injects the instant source. Tests use a fixed time.
func WithNow(now func() time.Time) Option {
	return func(r *Resolver) {
		r.now = now
	}
}

// WithLogger sets the logger used for fallback warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// NewResolver creates a Resolver backed by the system clock unless overridden.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Now returns the current instant.
func (r *Resolver) Now() time.Time {
	return r.now()
}

// Today returns the civil date observed in the IANA zone tz. An empty or
// unknown zone falls back to the process local date with a warning; it never fails.
func (r *Resolver) Today(tz string) CivilDate {
	now := r.now()
	tz = strings.TrimSpace(tz)
	if tz == "" {
		r.log().Warn("no timezone configured, using local date", "local", time.Local.String())
		return DateOf(now.In(time.Local))
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		r.log().Warn("timezone lookup failed, using local date", "timezone", tz, "error", err)
		return DateOf(now.In(time.Local))
	}
	return DateOf(now.In(loc))
}

func (r *Resolver) log() *slog.Logger {
	if r.logger != nil {
		return r.logger
	}
	return slog.Default()
}
