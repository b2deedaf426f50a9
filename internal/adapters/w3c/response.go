package w3c

import (
	"encoding/json"
	"fmt"

	"go.trai.ch/markup/internal/core/domain"
	"golang.org/x/net/html"
)

// Message is one entry of the validator's JSON output.
type Message struct {
	Type      string `json:"type"`
	SubType   string `json:"subType,omitempty"`
	Line      int    `json:"line,omitempty"`
	FirstLine int    `json:"firstLine,omitempty"`
	LastLine  int    `json:"lastLine,omitempty"`
	Message   string `json:"message"`
}

// Response is the validator's JSON output.
type Response struct {
	Messages []Message `json:"messages"`
}

// isError reports whether the message makes the document invalid.
func (m Message) isError() bool {
	return m.Type == "error" || m.Type == "non-document-error"
}

func (m Message) line() int {
	switch {
	case m.LastLine > 0:
		return m.LastLine
	case m.Line > 0:
		return m.Line
	default:
		return m.FirstLine
	}
}

// interpret turns a raw service response into a validation result.
func interpret(fragment domain.Fragment, resp *domain.RawResponse) domain.Result {
	status := resp.HeaderValue(StatusHeader)
	if status == statusValid {
		return nil
	}

	if !isSuccess(resp.StatusCode) {
		return domain.Result{{Message: fmt.Sprintf("validation service responded with status %d", resp.StatusCode)}}
	}

	var parsed Response
	if err := json.Unmarshal(resp.Body, &parsed); err != nil {
		return domain.Result{{Message: fmt.Sprintf("%s: %v", domain.ErrServiceResponseInvalid.Error(), err)}}
	}

	var result domain.Result
	for _, m := range parsed.Messages {
		if !m.isError() {
			continue
		}
		result = append(result, domain.NewValidationError(fragment, m.line(), html.UnescapeString(m.Message)))
	}

	if len(result) == 0 && status != "" {
		result = domain.Result{{Message: fmt.Sprintf("validation service reported status %q", status)}}
	}
	return result
}
