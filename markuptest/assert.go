// Package markuptest provides test helpers that assert HTML and XHTML markup is valid.
//
// Fragments are checked with the local DTD validator (xmllint) or the W3C
// validation service, configured through markup.yaml and MARKUP_* environment
// variables exactly like the markup CLI.
package markuptest

import (
	"context"
	"strings"
	"sync"

	"github.com/grindlemire/graft"
	"go.trai.ch/markup/internal/core/domain"
	"go.trai.ch/markup/internal/engine/dispatcher"
	_ "go.trai.ch/markup/internal/wiring" // Registers the validator nodes.
)

// TestingT is the subset of testing.TB used by the helpers.
type TestingT interface {
	Helper()
	Errorf(format string, args ...any)
	FailNow()
}

// Fragment is a piece of HTML or XHTML text.
type Fragment = domain.Fragment

// Option overrides a validation setting for one call.
type Option = domain.Option

// Checker validates a fragment and renders the errors as a report.
// An empty report means the fragment is valid.
type Checker interface {
	Check(ctx context.Context, fragment Fragment, opts ...Option) (string, error)
}

// WithService selects the validation backend, "local" or "w3c".
func WithService(name string) Option {
	return domain.WithService(domain.Service(strings.ToLower(name)))
}

// WithDTDValidate toggles DTD validation in the local backend.
func WithDTDValidate(enabled bool) Option {
	return domain.WithDTDValidate(enabled)
}

// WithCatalogPath sets the XML catalog directory of the local backend.
func WithCatalogPath(path string) Option {
	return domain.WithCatalogPath(path)
}

// WithServiceEndpoint sets the host of the remote validation service.
func WithServiceEndpoint(endpoint string) Option {
	return domain.WithServiceEndpoint(endpoint)
}

// WithNoCache bypasses cached validation service responses.
func WithNoCache(noCache bool) Option {
	return domain.WithNoCache(noCache)
}

var defaultChecker = sync.OnceValues(func() (Checker, error) {
	d, _, err := graft.ExecuteFor[*dispatcher.Dispatcher](context.Background())
	if err != nil {
		return nil, err
	}
	return d, nil
})

// Default returns the process-wide checker built from markup.yaml and the environment.
func Default() (Checker, error) {
	return defaultChecker()
}

// AssertValid reports the validation errors of fragment through t and returns whether it is valid.
// A nil checker means Default. Failures that prevent validation, such as an unusable
// XML catalog, abort the test.
func AssertValid(t TestingT, c Checker, fragment string, opts ...Option) bool {
	t.Helper()
	return assertValid(context.Background(), t, c, "", Fragment(fragment), opts)
}

func assertValid(ctx context.Context, t TestingT, c Checker, label string, fragment Fragment, opts []Option) bool {
	t.Helper()

	if c == nil {
		var err error
		if c, err = Default(); err != nil {
			t.Errorf("markup validation unavailable: %v", err)
			t.FailNow()
			return false
		}
	}

	report, err := c.Check(ctx, fragment, opts...)
	if err != nil {
		t.Errorf("markup validation failed to run: %v", err)
		t.FailNow()
		return false
	}
	if report == "" {
		return true
	}

	if label != "" {
		t.Errorf("%s:\n%s", label, report)
	} else {
		t.Errorf("%s", report)
	}
	return false
}
