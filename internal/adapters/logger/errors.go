package logger

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// zerrError is the part of *zerr.Error the formatter relies on.
type zerrError interface {
	Message() string
	Metadata() map[string]any
}

// ErrorEntry is one level of an error chain.
type ErrorEntry struct {
	Message  string
	Metadata map[string]any
}

// collectErrorEntries walks the chain, one entry per zerr level.
// A standard error ends the walk since its Error() already includes its own causes.
// Metadata-only levels (zerr.With on a standard error) are merged into the next entry.
func collectErrorEntries(err error) []ErrorEntry {
	var entries []ErrorEntry
	var pending map[string]any

	for current := err; current != nil; {
		z, ok := current.(zerrError)
		if !ok {
			entries = append(entries, ErrorEntry{Message: current.Error(), Metadata: pending})
			break
		}

		meta := z.Metadata()
		if z.Message() == "" {
			if pending == nil {
				pending = make(map[string]any, len(meta))
			}
			maps.Copy(pending, meta)
			current = errors.Unwrap(current)
			continue
		}

		if pending != nil {
			maps.Copy(meta, pending)
			pending = nil
		}
		entries = append(entries, ErrorEntry{Message: z.Message(), Metadata: meta})
		current = errors.Unwrap(current)
	}

	return entries
}

// formatErrorEntries renders the entries hierarchically:
//
//	Error: outer
//	       key: value
//
//	  Caused by:
//	    → inner
func formatErrorEntries(entries []ErrorEntry) string {
	lines := make([]string, 0, len(entries)*2)

	for i, entry := range entries {
		msgLines := strings.Split(entry.Message, "\n")

		var first, indent string
		if i == 0 {
			first, indent = "Error: ", "       "
		} else {
			if i == 1 {
				lines = append(lines, "", "  Caused by:")
			}
			first, indent = "    → ", "      "
		}

		lines = append(lines, first+msgLines[0])
		for _, line := range msgLines[1:] {
			lines = append(lines, indent+line)
		}
		for _, key := range slices.Sorted(maps.Keys(entry.Metadata)) {
			lines = append(lines, fmt.Sprintf("%s%s: %v", indent, key, entry.Metadata[key]))
		}
	}

	return strings.Join(lines, "\n")
}
