/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd(t *testing.T) {
	_, srv := newFakeTodoist(t)
	cfg := setupCLI(t, srv.URL, "")

	out, err := runCLI(t, cfg, "--help")
	require.NoError(t, err)

	assert.Contains(t, out, "StreakWing tracks recurring daily habits as streaks.")
	assert.Equal(t, "StreakWing keeps daily Todoist streaks going.", rootCmd.Short)
	assert.Contains(t, out, "Usage:")
	for _, name := range []string{"start", "register", "reset-today", "list", "edit", "delete", "debug", "schedule", "serve", "mcp", "export", "import", "telemetry"} {
		assert.Contains(t, out, name)
	}
}

func TestVersion(t *testing.T) {
	assert.Equal(t, "0.1.0", GetVersion())
}
