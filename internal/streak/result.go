package streak

import (
	"sort"

	"github.com/josephgoksu/streakwing/internal/clock"
)

// State is where a streak ended up in one registration run.
type State string

const (
	// StateDone means the remote task was created and the advance was saved.
	StateDone State = "done"
	// StateAlreadyDone means the watermark was already today.
	StateAlreadyDone State = "already_done"
	// StateClaimed means an earlier run today already claimed the streak in this process.
	StateClaimed State = "claimed"
	// StatePartialFailure means the remote task exists but saving the advance failed.
	StatePartialFailure State = "partial_failure"
	// StateLocalCommitOnly means the remote call failed and the advance was saved anyway.
	StateLocalCommitOnly State = "local_commit_only"
	// StateFailed means both the remote call and the save failed.
	StateFailed State = "failed"
)

// Outcome is the per-streak record of a run.
type Outcome struct {
	StreakID string `json:"streakId"`
	Content  string `json:"content"`
	State    State  `json:"state"`
	// Day is the day number after the run.
	Day    int    `json:"day"`
	TaskID string `json:"taskId,omitempty"`
	Error  string `json:"error,omitempty"`
}

// RunResult aggregates one RegisterToday call.
type RunResult struct {
	Date clock.CivilDate `json:"date"`
	// Processed counts streaks whose local advance was saved.
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
	// Busy is set when another run held the guard; nothing was processed.
	Busy     bool             `json:"busy"`
	Errors   map[string]error `json:"-"`
	Outcomes []Outcome        `json:"outcomes"`
	// Err is a run-level failure such as an unreadable store or cancellation.
	Err error `json:"-"`
}

// ErrorIDs returns the ids in Errors in a stable order.
func (r RunResult) ErrorIDs() []string {
	ids := make([]string, 0, len(r.Errors))
	for id := range r.Errors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ResetResult aggregates one ResetTodayFlags call.
type ResetResult struct {
	Date       clock.CivilDate  `json:"date"`
	ResetCount int              `json:"resetCount"`
	Errors     map[string]error `json:"-"`
}
