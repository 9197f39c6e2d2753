/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package types

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a streak id does not exist in the collection.
	ErrNotFound = errors.New("streak not found")

	// ErrDuplicateID is returned when inserting a streak whose id is already taken.
	ErrDuplicateID = errors.New("streak id already exists")

	// ErrInvalidStreak wraps validation failures on streak input.
	ErrInvalidStreak = errors.New("invalid streak")

	// ErrInvalidPriority is returned for priorities outside 1..4.
	ErrInvalidPriority = errors.New("priority must be between 1 and 4")

	// ErrNoCredential is returned when no Todoist token is configured.
	ErrNoCredential = errors.New("todoist token not configured")
)

// StreakError ties an error to the streak it occurred on.
type StreakError struct {
	StreakID string
	Op       string
	Err      error
}

func (e *StreakError) Error() string {
	return fmt.Sprintf("streak %s: %s: %v", e.StreakID, e.Op, e.Err)
}

func (e *StreakError) Unwrap() error {
	return e.Err
}

// NewStreakError creates a StreakError for the given operation.
func NewStreakError(streakID, op string, err error) *StreakError {
	return &StreakError{StreakID: streakID, Op: op, Err: err}
}
