package store

import (
	"context"

	"github.com/josephgoksu/streakwing/models"
)

// StreakStore defines the contract for streak persistence.
// Every mutation is a read-modify-write of the whole collection, executed
// atomically by the underlying key-value backend.
type StreakStore interface {
	// ListAll returns every streak in stored order. A missing collection is empty.
	// Records written by older versions come back with defaults applied.
	ListAll(ctx context.Context) ([]models.Streak, error)

	// Get returns the streak with the given id or types.ErrNotFound.
	Get(ctx context.Context, id string) (models.Streak, error)

	// Insert appends a new streak. It fails with types.ErrDuplicateID if the id exists.
	Insert(ctx context.Context, s models.Streak) error

	// Patch applies a partial update and returns the updated record.
	// It fails with types.ErrNotFound if the id is absent.
	Patch(ctx context.Context, id string, p models.StreakPatch) (models.Streak, error)

	// Replace swaps the whole record with the same id.
	Replace(ctx context.Context, s models.Streak) error

	// Remove deletes the streak. Removing an absent id is not an error.
	Remove(ctx context.Context, id string) error

	// ReplaceAll overwrites the collection. Used by import.
	ReplaceAll(ctx context.Context, streaks []models.Streak) error

	// Close releases backend resources such as file locks or database handles.
	Close() error
}
