package store

import (
	"fmt"

	"github.com/josephgoksu/streakwing/internal/kv"
	"github.com/josephgoksu/streakwing/types"
)

// Open builds the streak store for the configured backend.
func Open(cfg types.DataConfig) (*KVStreakStore, error) {
	var (
		backend kv.Store
		err     error
	)
	switch cfg.Backend {
	case "", "file":
		backend, err = kv.NewFileStore(cfg.Dir)
	case "sqlite":
		backend, err = kv.NewSQLiteStore(cfg.Dir)
	case "memory":
		backend = kv.NewMemoryStore()
	default:
		return nil, fmt.Errorf("unsupported data backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s backend: %w", cfg.Backend, err)
	}
	return NewKVStreakStore(backend, cfg.Key), nil
}
