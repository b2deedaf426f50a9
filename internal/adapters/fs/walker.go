// Package fs finds the markup files to validate.
package fs

import (
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/markup/internal/core/domain"
	"go.trai.ch/zerr"
)

// StdinPath names standard input on the command line.
const StdinPath = "-"

// markupExtensions are the file extensions treated as HTML/XHTML.
var markupExtensions = map[string]struct{}{
	".html":  {},
	".htm":   {},
	".xhtml": {},
}

// skippedDirs are never descended into.
var skippedDirs = map[string]struct{}{
	".git":         {},
	".jj":          {},
	"node_modules": {},
}

// Walker expands command line paths into markup files.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// IsMarkup reports whether path has an HTML or XHTML extension.
func IsMarkup(path string) bool {
	_, ok := markupExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Expand resolves paths in order: directories become their markup files (sorted, recursive),
// regular files and StdinPath are kept as given. Duplicates are dropped.
func (w *Walker) Expand(paths []string) ([]string, error) {
	var (
		out  []string
		seen = make(map[string]struct{})
	)
	add := func(p string) {
		if _, dup := seen[p]; dup {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}

	for _, p := range paths {
		if p == StdinPath {
			add(p)
			continue
		}

		info, err := os.Stat(p)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrInputReadFailed.Error()), "path", p)
		}
		if !info.IsDir() {
			add(p)
			continue
		}

		found := slices.Collect(w.WalkMarkup(p))
		slices.Sort(found)
		for _, f := range found {
			add(f)
		}
	}
	return out, nil
}

// WalkMarkup yields the markup files below root, skipping VCS and dependency directories.
func (w *Walker) WalkMarkup(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil //nolint:nilerr // unreadable entries are skipped
			}

			if d.IsDir() {
				if _, skip := skippedDirs[d.Name()]; skip && path != root {
					return filepath.SkipDir
				}
				return nil
			}

			if !IsMarkup(path) {
				return nil
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}
