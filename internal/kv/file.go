package kv

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"
)

const (
	blobSuffix     = ".json"
	checksumSuffix = ".checksum"
	lockSuffix     = ".lock"
)

// FileStore keeps each key in its own file under a directory.
// Writes go to a temp file that is renamed over the target, and a sha256
// sidecar detects blobs edited or truncated outside the store.
// A flock on a separate lock file serializes writers across processes.
type FileStore struct {
	dir string

	mu    sync.Mutex
	locks map[string]*flock.Flock
}

// NewFileStore creates a FileStore rooted at dir, creating the directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}
	return &FileStore{dir: dir, locks: make(map[string]*flock.Flock)}, nil
}

// Path returns the data file that holds key.
func (s *FileStore) Path(key string) string {
	return filepath.Join(s.dir, key+blobSuffix)
}

// calculateChecksum computes the SHA256 checksum of the given data.
func calculateChecksum(data []byte) string {
	hasher := sha256.New()
	hasher.Write(data)
	return hex.EncodeToString(hasher.Sum(nil))
}

func validKey(key string) error {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return fmt.Errorf("invalid key %q", key)
	}
	return nil
}

func (s *FileStore) lockFor(key string) *flock.Flock {
	if fl, ok := s.locks[key]; ok {
		return fl
	}
	fl := flock.New(s.Path(key) + lockSuffix)
	s.locks[key] = fl
	return fl
}

// withLock holds the in-process mutex and the cross-process file lock.
// flock alone does not exclude goroutines of the same process.
func (s *FileStore) withLock(ctx context.Context, key string, fn func() error) error {
	if err := validKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	fl := s.lockFor(key)
	if err := fl.Lock(); err != nil {
		return fmt.Errorf("could not lock %s: %w", fl.Path(), err)
	}
	defer func() { _ = fl.Unlock() }()
	return fn()
}

// readInternal loads and verifies a blob. The caller holds the lock.
func (s *FileStore) readInternal(key string) ([]byte, bool, error) {
	path := s.Path(key)
	checksumPath := path + checksumSuffix

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read data file %s: %w", path, err)
	}

	expected, err := os.ReadFile(checksumPath)
	switch {
	case err == nil:
		actual := calculateChecksum(data)
		if strings.TrimSpace(string(expected)) != actual {
			return nil, false, fmt.Errorf("checksum mismatch for %s - expected %s, got %s - file is corrupt or tampered", path, strings.TrimSpace(string(expected)), actual)
		}
	case errors.Is(err, fs.ErrNotExist):
		// Written before checksums existed; the next save adds one.
	default:
		return nil, false, fmt.Errorf("error reading checksum file %s: %w", checksumPath, err)
	}
	return data, true, nil
}

// writeInternal writes data to a temp file, then renames data and checksum into place.
func (s *FileStore) writeInternal(key string, data []byte) error {
	path := s.Path(key)
	tempPath := path + ".tmp"
	checksumPath := path + checksumSuffix
	tempChecksumPath := checksumPath + ".tmp"

	defer func() { _ = os.Remove(tempPath) }()
	defer func() { _ = os.Remove(tempChecksumPath) }()

	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temporary data file %s: %w", tempPath, err)
	}
	if err := os.WriteFile(tempChecksumPath, []byte(calculateChecksum(data)), 0o644); err != nil {
		return fmt.Errorf("failed to write temporary checksum file %s: %w", tempChecksumPath, err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename %s to %s: %w", tempPath, path, err)
	}
	if err := os.Rename(tempChecksumPath, checksumPath); err != nil {
		return fmt.Errorf("CRITICAL: data file %s updated, but failed to update checksum file %s: %w - store may be inconsistent", path, checksumPath, err)
	}
	return nil
}

func (s *FileStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var (
		data []byte
		ok   bool
	)
	err := s.withLock(ctx, key, func() error {
		var err error
		data, ok, err = s.readInternal(key)
		return err
	})
	return data, ok, err
}

func (s *FileStore) Set(ctx context.Context, key string, data []byte) error {
	return s.withLock(ctx, key, func() error {
		return s.writeInternal(key, data)
	})
}

func (s *FileStore) Update(ctx context.Context, key string, fn UpdateFunc) error {
	return s.withLock(ctx, key, func() error {
		current, ok, err := s.readInternal(key)
		if err != nil {
			return err
		}
		next, err := fn(current, ok)
		if err != nil {
			return err
		}
		return s.writeInternal(key, next)
	})
}

// Close releases any file locks still held.
func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var errs []error
	for _, fl := range s.locks {
		if err := fl.Unlock(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
