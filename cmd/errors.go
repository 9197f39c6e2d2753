/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/josephgoksu/streakwing/internal/todoist"
	"github.com/josephgoksu/streakwing/types"
	"github.com/manifoldco/promptui"
	"github.com/spf13/viper"
)

// PrintError prints an error message without exiting.
// In verbose mode the full technical error is printed instead.
func PrintError(userMsg string, technicalErr error) {
	if viper.GetBool("verbose") && technicalErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", technicalErr)
		return
	}
	fmt.Fprintln(os.Stderr, "Error:", friendlyMessage(userMsg, technicalErr))
}

// friendlyMessage adds a hint for errors users can fix themselves.
func friendlyMessage(userMsg string, err error) string {
	switch {
	case errors.Is(err, types.ErrNoCredential):
		return userMsg + " (set todoist.token in the config, STREAKWING_TODOIST_TOKEN or TODOIST_TOKEN)"
	case errors.Is(err, promptui.ErrInterrupt):
		return "cancelled"
	}
	if kind, ok := todoist.KindOf(err); ok && kind == todoist.Unauthorized {
		return userMsg + " (check your Todoist API token)"
	}
	return userMsg
}

// errorCategory maps an error to a coarse label for telemetry.
func errorCategory(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, types.ErrNotFound):
		return "not_found"
	case errors.Is(err, types.ErrDuplicateID):
		return "duplicate"
	case errors.Is(err, types.ErrInvalidStreak), errors.Is(err, types.ErrInvalidPriority):
		return "validation"
	case errors.Is(err, types.ErrNoCredential):
		return "no_credential"
	case errors.Is(err, context.Canceled), errors.Is(err, promptui.ErrInterrupt):
		return "cancelled"
	}
	if kind, ok := todoist.KindOf(err); ok {
		return "todoist_" + kind.String()
	}
	return "internal"
}
