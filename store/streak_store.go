package store

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/josephgoksu/streakwing/internal/kv"
	"github.com/josephgoksu/streakwing/models"
	"github.com/josephgoksu/streakwing/types"
)

// DefaultKey is the key the collection is stored under.
const DefaultKey = "streaks"

// KVStreakStore implements StreakStore as one JSON array under one key.
type KVStreakStore struct {
	kv  kv.Store
	key string
}

// NewKVStreakStore wraps a key-value backend. An empty key uses DefaultKey.
func NewKVStreakStore(backend kv.Store, key string) *KVStreakStore {
	if key == "" {
		key = DefaultKey
	}
	return &KVStreakStore{kv: backend, key: key}
}

func decodeStreaks(data []byte, ok bool) ([]models.Streak, error) {
	if !ok || len(data) == 0 {
		return []models.Streak{}, nil
	}
	var streaks []models.Streak
	if err := json.Unmarshal(data, &streaks); err != nil {
		return nil, fmt.Errorf("failed to decode streak collection: %w", err)
	}
	for i := range streaks {
		streaks[i].ApplyDefaults()
	}
	if streaks == nil {
		streaks = []models.Streak{}
	}
	return streaks, nil
}

func encodeStreaks(streaks []models.Streak) ([]byte, error) {
	if streaks == nil {
		streaks = []models.Streak{}
	}
	data, err := json.MarshalIndent(streaks, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode streak collection: %w", err)
	}
	return data, nil
}

// mutate runs fn over the decoded collection inside one atomic backend update.
func (s *KVStreakStore) mutate(ctx context.Context, fn func([]models.Streak) ([]models.Streak, error)) error {
	return s.kv.Update(ctx, s.key, func(current []byte, ok bool) ([]byte, error) {
		streaks, err := decodeStreaks(current, ok)
		if err != nil {
			return nil, err
		}
		next, err := fn(streaks)
		if err != nil {
			return nil, err
		}
		return encodeStreaks(next)
	})
}

func indexOf(streaks []models.Streak, id string) int {
	return slices.IndexFunc(streaks, func(s models.Streak) bool { return s.ID == id })
}

func (s *KVStreakStore) ListAll(ctx context.Context) ([]models.Streak, error) {
	data, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to read streaks: %w", err)
	}
	return decodeStreaks(data, ok)
}

func (s *KVStreakStore) Get(ctx context.Context, id string) (models.Streak, error) {
	streaks, err := s.ListAll(ctx)
	if err != nil {
		return models.Streak{}, err
	}
	i := indexOf(streaks, id)
	if i < 0 {
		return models.Streak{}, fmt.Errorf("%w: %s", types.ErrNotFound, id)
	}
	return streaks[i], nil
}

func (s *KVStreakStore) Insert(ctx context.Context, streak models.Streak) error {
	return s.mutate(ctx, func(streaks []models.Streak) ([]models.Streak, error) {
		if indexOf(streaks, streak.ID) >= 0 {
			return nil, fmt.Errorf("%w: %s", types.ErrDuplicateID, streak.ID)
		}
		return append(streaks, streak), nil
	})
}

func (s *KVStreakStore) Patch(ctx context.Context, id string, p models.StreakPatch) (models.Streak, error) {
	var updated models.Streak
	err := s.mutate(ctx, func(streaks []models.Streak) ([]models.Streak, error) {
		i := indexOf(streaks, id)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", types.ErrNotFound, id)
		}
		p.Apply(&streaks[i])
		updated = streaks[i]
		return streaks, nil
	})
	if err != nil {
		return models.Streak{}, err
	}
	return updated, nil
}

func (s *KVStreakStore) Replace(ctx context.Context, streak models.Streak) error {
	return s.mutate(ctx, func(streaks []models.Streak) ([]models.Streak, error) {
		i := indexOf(streaks, streak.ID)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", types.ErrNotFound, streak.ID)
		}
		streaks[i] = streak
		return streaks, nil
	})
}

func (s *KVStreakStore) Remove(ctx context.Context, id string) error {
	return s.mutate(ctx, func(streaks []models.Streak) ([]models.Streak, error) {
		return slices.DeleteFunc(streaks, func(st models.Streak) bool { return st.ID == id }), nil
	})
}

func (s *KVStreakStore) ReplaceAll(ctx context.Context, streaks []models.Streak) error {
	seen := make(map[string]bool, len(streaks))
	for _, st := range streaks {
		if seen[st.ID] {
			return fmt.Errorf("%w: %s", types.ErrDuplicateID, st.ID)
		}
		seen[st.ID] = true
	}
	return s.mutate(ctx, func([]models.Streak) ([]models.Streak, error) {
		return slices.Clone(streaks), nil
	})
}

func (s *KVStreakStore) Close() error {
	return s.kv.Close()
}
