package kv

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()

	fileStore, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	sqliteStore, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)

	stores := map[string]Store{
		"memory": NewMemoryStore(),
		"file":   fileStore,
		"sqlite": sqliteStore,
	}
	t.Cleanup(func() {
		for _, s := range stores {
			_ = s.Close()
		}
	})
	return stores
}

func TestStore_GetSetUpdate(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := s.Get(ctx, "streaks")
			require.NoError(t, err)
			assert.False(t, ok, "missing key should report not found")

			require.NoError(t, s.Set(ctx, "streaks", []byte(`[]`)))
			data, ok, err := s.Get(ctx, "streaks")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `[]`, string(data))

			err = s.Update(ctx, "streaks", func(current []byte, ok bool) ([]byte, error) {
				assert.True(t, ok)
				return append(current, '!'), nil
			})
			require.NoError(t, err)

			data, _, err = s.Get(ctx, "streaks")
			require.NoError(t, err)
			assert.Equal(t, `[]!`, string(data))
		})
	}
}

func TestStore_UpdateErrorLeavesValue(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Set(ctx, "k", []byte("v1")))
			err := s.Update(ctx, "k", func([]byte, bool) ([]byte, error) {
				return nil, boom
			})
			assert.ErrorIs(t, err, boom)

			data, _, err := s.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, "v1", string(data))
		})
	}
}

func TestStore_ConcurrentUpdatesAreSerialized(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			const workers = 20
			var wg sync.WaitGroup
			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					err := s.Update(ctx, "counter", func(current []byte, _ bool) ([]byte, error) {
						return append(current, 'x'), nil
					})
					assert.NoError(t, err)
				}()
			}
			wg.Wait()

			data, _, err := s.Get(ctx, "counter")
			require.NoError(t, err)
			assert.Len(t, data, workers)
		})
	}
}

func TestFileStore_DetectsTampering(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, s.Set(ctx, "streaks", []byte(`[{"id":"a"}]`)))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "streaks.json"), []byte(`[]`), 0o644))

	_, _, err = s.Get(ctx, "streaks")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "checksum mismatch")
}

func TestFileStore_AcceptsFileWithoutChecksum(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "streaks.json"), []byte(`[]`), 0o644))

	s, err := NewFileStore(dir)
	require.NoError(t, err)
	data, ok, err := s.Get(ctx, "streaks")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[]`, string(data))
}

func TestFileStore_RejectsPathKeys(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	err = s.Set(context.Background(), "../escape", []byte("x"))
	assert.Error(t, err)
}

func TestStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, _, err := s.Get(ctx, "k")
			assert.Error(t, err)
		})
	}
}
