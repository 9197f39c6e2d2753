/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/josephgoksu/streakwing/internal/todoist"
	"github.com/josephgoksu/streakwing/types"
	"github.com/manifoldco/promptui"
	"github.com/stretchr/testify/assert"
)

func TestErrorCategory(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, "none"},
		{"not found", fmt.Errorf("%w: abc", types.ErrNotFound), "not_found"},
		{"duplicate", types.ErrDuplicateID, "duplicate"},
		{"validation", fmt.Errorf("%w: empty", types.ErrInvalidStreak), "validation"},
		{"priority", types.ErrInvalidPriority, "validation"},
		{"credential", fmt.Errorf("wrap: %w", types.ErrNoCredential), "no_credential"},
		{"canceled", context.Canceled, "cancelled"},
		{"interrupt", promptui.ErrInterrupt, "cancelled"},
		{"todoist", &todoist.Error{Kind: todoist.RateLimited, StatusCode: 429}, "todoist_rate_limited"},
		{"other", errors.New("disk on fire"), "internal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errorCategory(tt.err))
		})
	}
}

func TestFriendlyMessage(t *testing.T) {
	assert.Contains(t, friendlyMessage("no token", types.ErrNoCredential), "TODOIST_TOKEN")
	assert.Contains(t, friendlyMessage("failed", &todoist.Error{Kind: todoist.Unauthorized, StatusCode: 401}), "API token")
	assert.Equal(t, "cancelled", friendlyMessage("x", promptui.ErrInterrupt))
	assert.Equal(t, "plain", friendlyMessage("plain", errors.New("x")))
}
