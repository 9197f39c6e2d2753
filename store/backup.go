package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/josephgoksu/streakwing/models"
	"github.com/spf13/afero"
	yaml "gopkg.in/yaml.v3"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
	formatTOML = "toml"

	snapshotVersion = "1"
)

// Snapshot is the portable export of the whole collection.
type Snapshot struct {
	Version    string          `json:"version" yaml:"version" toml:"version"`
	ExportedAt time.Time       `json:"exportedAt" yaml:"exportedAt" toml:"exportedAt"`
	Streaks    []models.Streak `json:"streaks" yaml:"streaks" toml:"streaks"`
}

// FormatFromPath infers json, yaml or toml from a file extension.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return formatJSON, nil
	case ".yaml", ".yml":
		return formatYAML, nil
	case ".toml":
		return formatTOML, nil
	default:
		return "", fmt.Errorf("unsupported export format %q, use .json, .yaml or .toml", filepath.Ext(path))
	}
}

func encodeSnapshot(snap Snapshot, format string) ([]byte, error) {
	switch format {
	case formatJSON:
		return json.MarshalIndent(snap, "", "  ")
	case formatYAML:
		return yaml.Marshal(snap)
	case formatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(snap); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

func decodeSnapshot(data []byte, format string) (Snapshot, error) {
	var snap Snapshot
	var err error
	switch format {
	case formatJSON:
		err = json.Unmarshal(data, &snap)
	case formatYAML:
		err = yaml.Unmarshal(data, &snap)
	case formatTOML:
		err = toml.Unmarshal(data, &snap)
	default:
		err = fmt.Errorf("unsupported format %q", format)
	}
	return snap, err
}

// Export writes every streak to path on fs. The format follows the extension.
func Export(ctx context.Context, fs afero.Fs, s StreakStore, path string) (int, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return 0, err
	}
	streaks, err := s.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	data, err := encodeSnapshot(Snapshot{
		Version:    snapshotVersion,
		ExportedAt: time.Now().UTC(),
		Streaks:    streaks,
	}, format)
	if err != nil {
		return 0, fmt.Errorf("failed to encode %s export: %w", format, err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("failed to create export directory %s: %w", dir, err)
		}
	}
	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return 0, fmt.Errorf("failed to write export file %s: %w", path, err)
	}
	return len(streaks), nil
}

// Import replaces the collection with the snapshot at path. Every record is
// validated before anything is written.
func Import(ctx context.Context, fs afero.Fs, s StreakStore, path string) (int, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return 0, err
	}
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return 0, fmt.Errorf("failed to read import file %s: %w", path, err)
	}
	snap, err := decodeSnapshot(data, format)
	if err != nil {
		return 0, fmt.Errorf("failed to decode %s import: %w", format, err)
	}
	for i := range snap.Streaks {
		snap.Streaks[i].ApplyDefaults()
		if err := models.ValidateStruct(snap.Streaks[i]); err != nil {
			return 0, fmt.Errorf("record %d (%s): %w", i, snap.Streaks[i].ID, err)
		}
	}
	if err := s.ReplaceAll(ctx, snap.Streaks); err != nil {
		return 0, err
	}
	return len(snap.Streaks), nil
}
