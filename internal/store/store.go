// Package store implements a durable key/value store backed by files in the
// gitfolio data directory. It persists the repository cache and user
// preferences across command invocations.
//
// All operations are best-effort: a read of an absent or unreadable key is a
// miss, and a failed write is reported through the return value and a log
// line rather than an error. Callers must tolerate Read returning a miss
// immediately after a successful Write (the directory may be removed out
// from under us, or the filesystem may be read-only).
package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gitfolio/gitfolio/internal/logging"
)

// storeFileExtension is the file extension used for persisted values.
const storeFileExtension = ".json"

// FileStore is a file-per-key persistent store. Thread-safe for concurrent
// access within a process; cross-process writers are last-write-wins.
type FileStore struct {
	directory string

	// mu protects concurrent file operations.
	mu sync.RWMutex
}

// NewFileStore creates a store rooted at directory, creating it if needed.
func NewFileStore(directory string) (*FileStore, error) {
	if err := os.MkdirAll(directory, 0750); err != nil {
		return nil, err
	}
	return &FileStore{directory: directory}, nil
}

// Read returns the raw value stored under key. The second return value is
// false when the key is absent or the value could not be read; that case is
// indistinguishable from "never written" on purpose.
func (s *FileStore) Read(ctx context.Context, key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.keyToFilePath(key))
	if err != nil {
		if !os.IsNotExist(err) {
			logging.FromContext(ctx).Debug().
				Str("component", "store").
				Str("key", key).
				Err(err).
				Msg("treating unreadable store entry as absent")
		}
		return nil, false
	}
	return data, true
}

// Write persists value under key. Returns false when the value could not be
// written; the failure is logged and must not abort the caller.
func (s *FileStore) Write(ctx context.Context, key string, value []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	filePath := s.keyToFilePath(key)

	// Write to a temporary file first, then rename for atomicity.
	tempPath := filePath + ".tmp"
	if err := os.WriteFile(tempPath, value, 0600); err != nil {
		logging.FromContext(ctx).Warn().
			Str("component", "store").
			Str("key", key).
			Err(err).
			Msg("failed to persist store entry")
		return false
	}

	if err := os.Rename(tempPath, filePath); err != nil {
		_ = os.Remove(tempPath)
		logging.FromContext(ctx).Warn().
			Str("component", "store").
			Str("key", key).
			Err(err).
			Msg("failed to persist store entry")
		return false
	}

	return true
}

// Remove deletes the value stored under key. Removing an absent key is a
// no-op.
func (s *FileStore) Remove(ctx context.Context, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.keyToFilePath(key))
	if err != nil && !os.IsNotExist(err) {
		logging.FromContext(ctx).Warn().
			Str("component", "store").
			Str("key", key).
			Err(err).
			Msg("failed to remove store entry")
	}
}

// Directory returns the store's root directory.
func (s *FileStore) Directory() string {
	return s.directory
}

// keyToFilePath converts a store key to a file path. The key is sanitized to
// ensure filesystem safety.
func (s *FileStore) keyToFilePath(key string) string {
	safeKey := strings.ReplaceAll(key, "/", "_")
	safeKey = strings.ReplaceAll(safeKey, "\\", "_")
	safeKey = strings.ReplaceAll(safeKey, ":", "_")
	return filepath.Join(s.directory, safeKey+storeFileExtension)
}
