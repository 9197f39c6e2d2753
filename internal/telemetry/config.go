// Package telemetry sends opt-in anonymous run statistics to PostHog.
// Nothing is sent unless the user enables it; streak content never leaves the machine.
package telemetry

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// ConfigFileName is the name of the telemetry state file.
const ConfigFileName = "telemetry.json"

// Config is the persisted opt-in state, kept apart from the main config so
// that editing .streakwing.yaml never flips it by accident.
type Config struct {
	Enabled bool `json:"enabled"`
	// ConsentAsked is set once the user has made an explicit choice.
	ConsentAsked bool `json:"consent_asked"`
	// AnonymousID is a random UUID. It is not derived from anything about the user.
	AnonymousID string `json:"anonymous_id"`
}

// DefaultPath is ~/.streakwing/telemetry.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".streakwing", ConfigFileName), nil
}

// Load reads the state at path. A missing file yields a disabled Config with a fresh id.
func Load(fsys afero.Fs, path string) (*Config, error) {
	cfg := &Config{}
	data, err := afero.ReadFile(fsys, path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read telemetry state: %w", err)
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse telemetry state %s: %w", path, err)
		}
	}
	if cfg.AnonymousID == "" {
		cfg.AnonymousID = uuid.NewString()
	}
	return cfg, nil
}

// Save writes the state to path with owner-only permissions.
func (c *Config) Save(fsys afero.Fs, path string) error {
	if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create telemetry directory: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal telemetry state: %w", err)
	}
	if err := afero.WriteFile(fsys, path, data, 0o600); err != nil {
		return fmt.Errorf("write telemetry state: %w", err)
	}
	return nil
}

// Enable opts in.
func (c *Config) Enable() {
	c.Enabled = true
	c.ConsentAsked = true
}

// Disable opts out.
func (c *Config) Disable() {
	c.Enabled = false
	c.ConsentAsked = true
}

// IsEnabled reports the opt-in state. A nil Config is disabled.
func (c *Config) IsEnabled() bool {
	return c != nil && c.Enabled
}
