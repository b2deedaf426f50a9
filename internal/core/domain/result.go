package domain

// ContextRadius is the number of source lines shown on each side of an error line.
const ContextRadius = 3

// ContextLine is one source line shown around a validation error.
type ContextLine struct {
	Number int    `json:"number"`
	Text   string `json:"text"`
}

// ValidationError is a single line-addressed validation message.
// Line 0 marks a message that is not tied to a source line.
type ValidationError struct {
	Line    int           `json:"line"`
	Message string        `json:"message"`
	Context []ContextLine `json:"context,omitempty"`
}

// Result is the ordered list of validation errors for a fragment. Empty means valid.
type Result []ValidationError

// Valid reports whether the fragment passed validation.
func (r Result) Valid() bool {
	return len(r) == 0
}

// NewValidationError builds an error for the given line with its context window attached.
func NewValidationError(f Fragment, line int, message string) ValidationError {
	return ValidationError{
		Line:    line,
		Message: message,
		Context: ContextWindow(f.Lines(), line, ContextRadius),
	}
}

// ContextWindow returns the source lines line-radius..line+radius, clamped to the available lines.
// Lines outside the source are omitted.
func ContextWindow(lines []string, line, radius int) []ContextLine {
	if line < 1 || line > len(lines) {
		return nil
	}

	first := max(line-radius, 1)
	last := min(line+radius, len(lines))

	window := make([]ContextLine, 0, last-first+1)
	for n := first; n <= last; n++ {
		window = append(window, ContextLine{Number: n, Text: lines[n-1]})
	}
	return window
}
