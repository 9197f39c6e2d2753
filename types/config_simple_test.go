package types

import (
	"errors"
	"testing"
	"time"
)

func TestTodoistConfig_Durations(t *testing.T) {
	cfg := TodoistConfig{
		RequestTimeoutSeconds: 15,
		RetryBaseDelayMs:      1000,
	}

	if got := cfg.RequestTimeout(); got != 15*time.Second {
		t.Errorf("RequestTimeout mismatch: got %v, want %v", got, 15*time.Second)
	}
	if got := cfg.RetryBaseDelay(); got != time.Second {
		t.Errorf("RetryBaseDelay mismatch: got %v, want %v", got, time.Second)
	}
}

func TestRegistrationConfig_InterCallDelay(t *testing.T) {
	cfg := RegistrationConfig{InterCallDelayMs: 2000}
	if got := cfg.InterCallDelay(); got != 2*time.Second {
		t.Errorf("InterCallDelay mismatch: got %v, want %v", got, 2*time.Second)
	}

	zero := RegistrationConfig{}
	if got := zero.InterCallDelay(); got != 0 {
		t.Errorf("zero InterCallDelay should be 0, got %v", got)
	}
}

func TestStreakError_Unwrap(t *testing.T) {
	err := NewStreakError("abc", "patch", ErrNotFound)

	if !errors.Is(err, ErrNotFound) {
		t.Error("StreakError should unwrap to ErrNotFound")
	}
	want := "streak abc: patch: streak not found"
	if err.Error() != want {
		t.Errorf("Error() mismatch: got %q, want %q", err.Error(), want)
	}
}
