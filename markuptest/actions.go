package markuptest

import (
	"net/http"
	"strings"
	"testing"
)

// ValidActions generates one subtest per action, named <action>_valid_markup,
// that GETs /<action> and asserts the response is successful and valid.
//
//	func TestPages(t *testing.T) {
//		markuptest.ValidActions(t, markuptest.NewHarness(t, mux), "index", "about", "contact")
//	}
func ValidActions(t *testing.T, h *Harness, actions ...string) {
	t.Helper()

	for _, action := range actions {
		t.Run(action+"_valid_markup", func(t *testing.T) {
			sub := h.withT(t)
			path := "/" + strings.TrimPrefix(action, "/")

			resp, body, ok := sub.fetch(t.Context(), path)
			if !ok {
				return
			}
			if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
				t.Errorf("GET %s: status %d", path, resp.StatusCode)
				return
			}
			assertValid(t.Context(), t, sub.checker, "GET "+path, Fragment(body), sub.opts)
		})
	}
}
