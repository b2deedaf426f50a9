package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Fragment is the HTML/XHTML text under validation. It is never mutated.
type Fragment string

// String returns the fragment text.
func (f Fragment) String() string {
	return string(f)
}

// Lines splits the fragment into its source lines. Line N of the fragment is Lines()[N-1].
// A trailing newline does not start an extra line.
func (f Fragment) Lines() []string {
	s := strings.ReplaceAll(string(f), "\r\n", "\n")
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

// Digest returns the hex encoded SHA-256 digest of the fragment text.
func (f Fragment) Digest() string {
	sum := sha256.Sum256([]byte(f))
	return hex.EncodeToString(sum[:])
}

// CacheKey returns the content-addressed cache key of a fragment within a namespace.
// Identical fragment text always maps to the same key.
func CacheKey(namespace string, f Fragment) string {
	return namespace + "-" + f.Digest()
}
