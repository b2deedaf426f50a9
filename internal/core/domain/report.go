package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// reportPrefix starts every reported validation error.
const reportPrefix = "Invalid markup: "

// Report renders the result as a human-readable multi-line report.
// An empty string means the fragment is valid.
func Report(r Result) string {
	if r.Valid() {
		return ""
	}

	entries := make([]string, 0, len(r))
	for _, e := range r {
		entries = append(entries, e.Format())
	}
	return strings.Join(entries, "\n\n")
}

// Format renders a single error with its context window. The offending line is marked with ">".
func (e ValidationError) Format() string {
	var b strings.Builder

	b.WriteString(reportPrefix)
	if e.Line > 0 {
		fmt.Fprintf(&b, "line %d: ", e.Line)
	}
	b.WriteString(e.Message)

	if len(e.Context) == 0 {
		return b.String()
	}

	width := len(strconv.Itoa(e.Context[len(e.Context)-1].Number))
	for _, cl := range e.Context {
		marker := "  "
		if cl.Number == e.Line {
			marker = "> "
		}
		line := fmt.Sprintf("%s%*d: %s", marker, width, cl.Number, cl.Text)
		b.WriteByte('\n')
		b.WriteString(strings.TrimRight(line, " \t"))
	}
	return b.String()
}
