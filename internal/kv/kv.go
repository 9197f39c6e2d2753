// Package kv provides the key-value blob backends the streak collection is persisted in.
//
// A backend stores opaque byte blobs under string keys. Writes are atomic at
// the blob level: a reader sees either the previous blob or the new one, never
// a partial write.
package kv

import "context"

// UpdateFunc receives the current blob (ok is false when the key is absent)
// and returns the blob to store in its place.
type UpdateFunc func(current []byte, ok bool) ([]byte, error)

// Store defines the contract for blob persistence.
type Store interface {
	// Get returns the blob under key. ok is false when nothing is stored.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)

	// Set replaces the blob under key.
	Set(ctx context.Context, key string, data []byte) error

	// Update performs a read-modify-write of one key under the backend's
	// exclusive lock, so concurrent writers cannot interleave.
	// If fn returns an error nothing is written.
	Update(ctx context.Context, key string, fn UpdateFunc) error

	// Close releases locks, handles, or connections.
	Close() error
}
