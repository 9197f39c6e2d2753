package telemetry

import "time"

// Event names.
const (
	EventRegistrationRun = "registration_run"
	EventStreakStarted   = "streak_started"
	EventFlagsReset      = "today_flags_reset"
	EventCommandError    = "command_error"
)

// RunProperties describes one registration run without any streak content.
func RunProperties(trigger string, processed, skipped, failed int, busy bool, elapsed time.Duration) Properties {
	return Properties{
		"trigger":     trigger,
		"processed":   processed,
		"skipped":     skipped,
		"errors":      failed,
		"busy":        busy,
		"duration_ms": elapsed.Milliseconds(),
	}
}

// CommandErrorProperties records which command failed and the error category.
func CommandErrorProperties(command, category string) Properties {
	return Properties{
		"command":  command,
		"category": category,
	}
}
