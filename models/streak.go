package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/josephgoksu/streakwing/internal/clock"
	"github.com/josephgoksu/streakwing/types"
	"golang.org/x/text/unicode/norm"
)

// MaxContentLength is the maximum number of characters in a streak's task content.
const MaxContentLength = 100

// Priority is the local urgency ordinal: 1 is the most urgent, 4 the least.
type Priority int

const (
	PriorityUrgent Priority = 1
	PriorityHigh   Priority = 2
	PriorityNormal Priority = 3
	PriorityLow    Priority = 4

	// DefaultPriority applies when a record or request carries no priority.
	DefaultPriority = PriorityLow
)

// The remote service orders urgency the other way round.
var remotePriorities = map[Priority]int{
	PriorityUrgent: 4,
	PriorityHigh:   3,
	PriorityNormal: 2,
	PriorityLow:    1,
}

// Valid reports whether p is one of the four known priorities.
func (p Priority) Valid() bool {
	_, ok := remotePriorities[p]
	return ok
}

// Remote translates p to the remote service's priority scale.
func (p Priority) Remote() (int, error) {
	r, ok := remotePriorities[p]
	if !ok {
		return 0, fmt.Errorf("%w: got %d", types.ErrInvalidPriority, int(p))
	}
	return r, nil
}

// Streak is a recurring daily task with a running day counter.
type Streak struct {
	ID          string   `json:"id" yaml:"id" toml:"id" validate:"required"`
	TaskContent string   `json:"taskContent" yaml:"taskContent" toml:"taskContent" validate:"required,max=100"`
	ProjectID   string   `json:"projectId,omitempty" yaml:"projectId,omitempty" toml:"projectId,omitempty"`
	Priority    Priority `json:"priority" yaml:"priority" toml:"priority" validate:"min=1,max=4"`
	CurrentDay  int      `json:"currentDay" yaml:"currentDay" toml:"currentDay" validate:"min=1"`
	// StartedAt is the creation instant and never changes.
	StartedAt time.Time `json:"startedAt" yaml:"startedAt" toml:"startedAt" validate:"required"`
	// LastUpdatedAt is the civil date of the last successful daily advance.
	LastUpdatedAt clock.CivilDate `json:"lastUpdatedAt" yaml:"lastUpdatedAt" toml:"lastUpdatedAt" validate:"required,datetime=2006-01-02"`
}

// StreakPatch carries a partial update. Nil fields are left untouched.
type StreakPatch struct {
	TaskContent   *string
	ProjectID     *string
	Priority      *Priority
	CurrentDay    *int
	LastUpdatedAt *clock.CivilDate
}

// Apply merges the non-nil fields of p into s.
func (p StreakPatch) Apply(s *Streak) {
	if p.TaskContent != nil {
		s.TaskContent = *p.TaskContent
	}
	if p.ProjectID != nil {
		s.ProjectID = *p.ProjectID
	}
	if p.Priority != nil {
		s.Priority = *p.Priority
	}
	if p.CurrentDay != nil {
		s.CurrentDay = *p.CurrentDay
	}
	if p.LastUpdatedAt != nil {
		s.LastUpdatedAt = *p.LastUpdatedAt
	}
}

// AdvancePatch is the patch that records one daily advance.
func AdvancePatch(day int, today clock.CivilDate) StreakPatch {
	return StreakPatch{CurrentDay: &day, LastUpdatedAt: &today}
}

// NewStreak builds a day-1 streak watermarked on today.
func NewStreak(id, content, projectID string, priority Priority, startedAt time.Time, today clock.CivilDate) Streak {
	if priority == 0 {
		priority = DefaultPriority
	}
	return Streak{
		ID:            id,
		TaskContent:   NormalizeContent(content),
		ProjectID:     strings.TrimSpace(projectID),
		Priority:      priority,
		CurrentDay:    1,
		StartedAt:     startedAt.UTC(),
		LastUpdatedAt: today,
	}
}

// NormalizeContent trims surrounding whitespace and composes the text to NFC
// so the length limit counts what the user sees.
func NormalizeContent(content string) string {
	return norm.NFC.String(strings.TrimSpace(content))
}

// IsDue reports whether the streak has not been advanced on today.
func (s Streak) IsDue(today clock.CivilDate) bool {
	return s.LastUpdatedAt != today
}

// Advanced returns the record as it looks after one daily advance.
func (s Streak) Advanced(today clock.CivilDate) Streak {
	s.CurrentDay++
	s.LastUpdatedAt = today
	return s
}

// RolledBack undoes one daily advance. The day counter never drops below 1.
func (s Streak) RolledBack() Streak {
	if s.CurrentDay > 1 {
		s.CurrentDay--
	}
	s.LastUpdatedAt = s.LastUpdatedAt.AddDays(-1)
	return s
}

// TaskTitle is the remote task content for the streak's current day.
func (s Streak) TaskTitle() string {
	return fmt.Sprintf("%s - Day %d", s.TaskContent, s.CurrentDay)
}

// ApplyDefaults fills fields that records written by older versions may lack.
func (s *Streak) ApplyDefaults() {
	if s.Priority == 0 {
		s.Priority = DefaultPriority
	}
	if s.CurrentDay < 1 {
		s.CurrentDay = 1
	}
}

// global validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ValidateStruct performs validation on any struct that has validation tags.
func ValidateStruct(s interface{}) error {
	if validate == nil {
		validate = validator.New()
	}
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}
	var errorMessages []string
	for _, e := range validationErrors {
		errorMessages = append(errorMessages, fmt.Sprintf("field '%s' failed rule '%s' (value: '%v')", e.StructNamespace(), e.Tag(), e.Value()))
	}
	return fmt.Errorf("%w: %s", types.ErrInvalidStreak, strings.Join(errorMessages, "; "))
}

// ValidateContent checks user supplied task content before anything is created.
func ValidateContent(content string) error {
	normalized := NormalizeContent(content)
	if normalized == "" {
		return fmt.Errorf("%w: task content is empty", types.ErrInvalidStreak)
	}
	if n := len([]rune(normalized)); n > MaxContentLength {
		return fmt.Errorf("%w: task content is %d characters, maximum is %d", types.ErrInvalidStreak, n, MaxContentLength)
	}
	return nil
}
