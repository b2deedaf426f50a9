package xmllint

import (
	"strconv"
	"strings"
)

const (
	resolvePrefix = "Resolve: pubID "
	sysIDMarker   = " sysID "
	nullID        = "(null)"
)

// resolveNotice is a catalog lookup reported by xmllint when XML_DEBUG_CATALOG is set.
type resolveNotice struct {
	PublicID string
	SystemID string
}

// parseResolve parses "Resolve: pubID <publicId> sysID <systemId>".
// Public identifiers may contain spaces; system identifiers never do.
func parseResolve(line string) (resolveNotice, bool) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(line), resolvePrefix)
	if !ok {
		return resolveNotice{}, false
	}

	idx := strings.LastIndex(rest, sysIDMarker)
	if idx < 0 {
		return resolveNotice{}, false
	}

	return resolveNotice{
		PublicID: normalizeID(rest[:idx]),
		SystemID: normalizeID(rest[idx+len(sysIDMarker):]),
	}, true
}

func normalizeID(id string) string {
	id = strings.TrimSpace(id)
	if id == nullID {
		return ""
	}
	return id
}

// parseResolveNotices returns the notices in output order, without duplicates.
func parseResolveNotices(lines []string) []resolveNotice {
	seen := make(map[resolveNotice]struct{})
	var notices []resolveNotice
	for _, line := range lines {
		n, ok := parseResolve(line)
		if !ok {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		notices = append(notices, n)
	}
	return notices
}

// diagnostic is one file-addressed message, "<file>:<line>: <message>".
type diagnostic struct {
	Line    int
	Message string
}

// parseDiagnostic extracts a diagnostic addressed to file.
// Source echo lines, caret markers and catalog debug output are rejected.
func parseDiagnostic(line, file string) (diagnostic, bool) {
	rest, ok := strings.CutPrefix(line, file+":")
	if !ok {
		return diagnostic{}, false
	}

	num, msg, ok := strings.Cut(rest, ":")
	if !ok {
		return diagnostic{}, false
	}

	n, err := strconv.Atoi(strings.TrimSpace(num))
	if err != nil || n < 0 {
		return diagnostic{}, false
	}

	return diagnostic{Line: n, Message: cleanMessage(msg, file)}, true
}

// isWarning reports whether a cleaned message is a warning rather than an error,
// e.g. "validity warning : ...", "namespace warning : ..." or the loader's
// "warning: failed to load external entity ...".
func isWarning(msg string) bool {
	if strings.HasPrefix(msg, "warning:") {
		return true
	}
	category, _, ok := strings.Cut(msg, " : ")
	return ok && strings.HasSuffix(category, "warning")
}

// cleanMessage removes the temp file path and collapses whitespace.
func cleanMessage(msg, file string) string {
	msg = strings.ReplaceAll(msg, file, "")
	return strings.Join(strings.Fields(msg), " ")
}
