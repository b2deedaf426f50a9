// Package cas implements the content-addressed store for raw validator responses.
package cas

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"sync/atomic"

	"go.trai.ch/markup/internal/core/domain"
	"go.trai.ch/zerr"
)

// Store implements ports.ResponseCache using a file-per-key strategy.
// Entries are never evicted or invalidated.
type Store struct {
	dir    string
	hits   atomic.Int64
	misses atomic.Int64
}

// NewStore creates a new Store backed by the directory at the given path.
func NewStore(dir string) (*Store, error) {
	cleanPath := filepath.Clean(dir)
	if err := os.MkdirAll(cleanPath, domain.DirPerm); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheCreateFailed.Error()), "dir", cleanPath)
	}
	return &Store{dir: cleanPath}, nil
}

// Dir returns the directory holding the cache entries.
func (s *Store) Dir() string {
	return s.dir
}

// Get retrieves the response stored under key.
// Missing, unreadable and corrupt entries are all reported as a miss.
func (s *Store) Get(key string) (*domain.RawResponse, bool) {
	//nolint:gosec // Path is constructed from trusted directory and hashed filename
	data, err := os.ReadFile(s.getFilename(key))
	if err != nil {
		s.misses.Add(1)
		return nil, false
	}

	var resp domain.RawResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		s.misses.Add(1)
		return nil, false
	}

	s.hits.Add(1)
	return &resp, true
}

// Put stores the response under key.
func (s *Store) Put(key string, resp *domain.RawResponse) error {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrCacheMarshalFailed.Error())
	}

	if err := atomicWriteFile(s.getFilename(key), data); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "key", key)
	}

	return nil
}

// Stats returns the hit and miss counters.
func (s *Store) Stats() domain.CacheStats {
	return domain.CacheStats{
		Hits:   s.hits.Load(),
		Misses: s.misses.Load(),
	}
}

// getFilename hashes the key again so that arbitrary keys map to safe file names.
func (s *Store) getFilename(key string) string {
	hash := sha256.Sum256([]byte(key))
	return filepath.Join(s.dir, hex.EncodeToString(hash[:])+".json")
}

// atomicWriteFile writes data to a temp file in the target directory and renames it into place,
// so concurrent readers see either the old entry or the complete new one.
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp(dir, "response-*.json.tmp")
	if err != nil {
		return err
	}
	tmpName := tmpFile.Name()

	// Clean up temp file on error
	defer func() {
		if _, statErr := os.Stat(tmpName); statErr == nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return err
	}

	if err := tmpFile.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}
