/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withConfigFile(t *testing.T, path string) {
	t.Helper()
	prev := cfgFile
	cfgFile = path
	t.Cleanup(func() { cfgFile = prev })
	viper.Reset()
}

func TestLoadConfig_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Chdir(dir)
	withConfigFile(t, "")

	require.NoError(t, loadConfig())
	cfg := GetConfig()
	assert.Equal(t, ".streakwing", cfg.Project.RootDir)
	assert.Equal(t, "file", cfg.Data.Backend)
	assert.Equal(t, filepath.Join(".streakwing", "data"), cfg.Data.Dir)
	assert.Equal(t, "streaks", cfg.Data.Key)
	assert.Equal(t, "https://api.todoist.com/api/v1", cfg.Todoist.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Todoist.RequestTimeout())
	assert.Equal(t, 3, cfg.Todoist.MaxRetries)
	assert.Equal(t, time.Second, cfg.Todoist.RetryBaseDelay())
	assert.Equal(t, 2*time.Second, cfg.Registration.InterCallDelay())
	assert.Equal(t, time.Hour, cfg.Schedule.Interval)
	assert.Equal(t, "127.0.0.1:8787", cfg.Server.Addr)
	assert.False(t, cfg.Telemetry.Enabled)
}

func TestLoadConfig_ProjectFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Chdir(dir)
	withConfigFile(t, "")

	require.NoError(t, os.MkdirAll(".streakwing", 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(".streakwing", ".streakwing.yaml"), []byte(`
data:
  backend: sqlite
schedule:
  interval: 15m
registration:
  timezone: Asia/Tokyo
`), 0o644))
	t.Setenv("STREAKWING_TODOIST_MAXRETRIES", "5")

	require.NoError(t, loadConfig())
	cfg := GetConfig()
	assert.Equal(t, "sqlite", cfg.Data.Backend)
	assert.Equal(t, 15*time.Minute, cfg.Schedule.Interval)
	assert.Equal(t, 5, cfg.Todoist.MaxRetries)
	assert.Equal(t, "Asia/Tokyo", newLivePreferences().Preferences().Timezone)
}

func TestLoadConfig_Invalid(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data:\n  backend: mongo\n"), 0o644))
	withConfigFile(t, path)

	err := loadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Backend")
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	withConfigFile(t, filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, loadConfig())
}

func TestResolveToken(t *testing.T) {
	viper.Reset()
	t.Setenv("TODOIST_TOKEN", "legacy")
	assert.Equal(t, "legacy", resolveToken())

	viper.Set("todoist.token", " configured ")
	assert.Equal(t, "configured", resolveToken())
	assert.Equal(t, "configured", newLivePreferences().Preferences().Credential)
}

func TestLivePreferences_SnapshotUntilRefresh(t *testing.T) {
	viper.Reset()
	t.Setenv("TODOIST_TOKEN", "")
	viper.Set("registration.timezone", "Europe/Berlin")
	viper.Set("todoist.token", "first")

	prefs := newLivePreferences()
	viper.Set("registration.timezone", "Asia/Tokyo")
	viper.Set("todoist.token", "second")
	assert.Equal(t, "Europe/Berlin", prefs.Preferences().Timezone, "edits are not seen before a refresh")

	prefs.Refresh()
	got := prefs.Preferences()
	assert.Equal(t, "Asia/Tokyo", got.Timezone)
	assert.Equal(t, "second", got.Credential)
}

func TestLivePreferences_ConcurrentReadsDuringRefresh(t *testing.T) {
	viper.Reset()
	viper.Set("registration.timezone", "UTC")
	prefs := newLivePreferences()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				assert.Equal(t, "UTC", prefs.Preferences().Timezone)
			}
		}()
	}
	for j := 0; j < 100; j++ {
		prefs.Refresh()
	}
	wg.Wait()
}
