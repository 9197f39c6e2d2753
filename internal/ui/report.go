package ui

import (
	"encoding/json"
	"io"

	"github.com/josephgoksu/streakwing/internal/clock"
	"github.com/josephgoksu/streakwing/internal/streak"
)

// ErrorEntry is one per-streak failure in a report.
type ErrorEntry struct {
	StreakID string `json:"streakId"`
	Error    string `json:"error"`
}

// RunReport is the machine-readable form of a registration run.
type RunReport struct {
	Date      clock.CivilDate  `json:"date"`
	Processed int              `json:"processed"`
	Skipped   int              `json:"skipped"`
	Busy      bool             `json:"busy"`
	Errors    []ErrorEntry     `json:"errors"`
	Outcomes  []streak.Outcome `json:"outcomes"`
	RunError  string           `json:"runError,omitempty"`
}

// NewRunReport flattens a RunResult with errors sorted by streak id.
func NewRunReport(r streak.RunResult) RunReport {
	report := RunReport{
		Date:      r.Date,
		Processed: r.Processed,
		Skipped:   r.Skipped,
		Busy:      r.Busy,
		Errors:    []ErrorEntry{},
		Outcomes:  r.Outcomes,
	}
	if report.Outcomes == nil {
		report.Outcomes = []streak.Outcome{}
	}
	for _, id := range r.ErrorIDs() {
		report.Errors = append(report.Errors, ErrorEntry{StreakID: id, Error: r.Errors[id].Error()})
	}
	if r.Err != nil {
		report.RunError = r.Err.Error()
	}
	return report
}

// ResetReport is the machine-readable form of a reset.
type ResetReport struct {
	Date       clock.CivilDate `json:"date"`
	ResetCount int             `json:"resetCount"`
	Errors     []ErrorEntry    `json:"errors"`
}

// NewResetReport flattens a ResetResult.
func NewResetReport(r streak.ResetResult) ResetReport {
	report := ResetReport{Date: r.Date, ResetCount: r.ResetCount, Errors: []ErrorEntry{}}
	for _, id := range sortedKeys(r.Errors) {
		report.Errors = append(report.Errors, ErrorEntry{StreakID: id, Error: r.Errors[id].Error()})
	}
	return report
}

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
