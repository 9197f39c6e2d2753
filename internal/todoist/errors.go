package todoist

import (
	"errors"
	"fmt"
)

// Kind classifies a failed remote call.
type Kind int

const (
	// Transient covers network failures, timeouts and 5xx responses.
	Transient Kind = iota
	// RateLimited is a 429 response.
	RateLimited
	// Unauthorized is a 401/403 response or a missing token.
	Unauthorized
	// Rejected is any other 4xx or a command the service refused.
	Rejected
	// Malformed is a response that could not be understood.
	Malformed
)

func (k Kind) String() string {
	switch k {
	case Transient:
		return "transient"
	case RateLimited:
		return "rate_limited"
	case Unauthorized:
		return "unauthorized"
	case Rejected:
		return "rejected"
	case Malformed:
		return "malformed"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is returned for every failed remote call.
type Error struct {
	Kind       Kind
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("todoist %s (%d): %s", e.Kind, e.StatusCode, msg)
	}
	return fmt.Sprintf("todoist %s: %s", e.Kind, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether another attempt may succeed.
func (e *Error) Retryable() bool {
	return e.Kind == Transient || e.Kind == RateLimited
}

// IsRetryable reports whether err is a retryable remote failure.
func IsRetryable(err error) bool {
	var te *Error
	return errors.As(err, &te) && te.Retryable()
}

// KindOf returns the Kind of err, or false if err is not a remote failure.
func KindOf(err error) (Kind, bool) {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind, true
	}
	return 0, false
}

func kindForStatus(code int) Kind {
	switch {
	case code == 401 || code == 403:
		return Unauthorized
	case code == 429:
		return RateLimited
	case code >= 500:
		return Transient
	default:
		return Rejected
	}
}
