package watcher

import (
	"io"
	"os"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// DigestCache remembers the content digest of each file seen in watch mode,
// so that saves which leave a file unchanged do not trigger a re-validation.
type DigestCache struct {
	mu      sync.Mutex
	digests map[string]uint64
}

// NewDigestCache creates an empty DigestCache.
func NewDigestCache() *DigestCache {
	return &DigestCache{digests: make(map[string]uint64)}
}

// Changed reports whether the content of path differs from the last recorded digest,
// recording the new one. A file seen for the first time counts as changed.
func (c *DigestCache) Changed(path string) (bool, error) {
	sum, err := digestFile(path)
	if err != nil {
		return false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	prev, seen := c.digests[path]
	c.digests[path] = sum
	return !seen || prev != sum, nil
}

// Forget drops the digest of a removed file.
func (c *DigestCache) Forget(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.digests, path)
}

func digestFile(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // paths come from the watched tree
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = f.Close()
	}()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}
