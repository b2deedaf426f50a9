package markuptest

import (
	"bytes"
	"context"
	"io"
	"mime"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
)

// Harness performs GET requests against a handler or a running server and,
// when auto-validation is on, validates every successful markup response.
type Harness struct {
	t       TestingT
	checker Checker
	opts    []Option
	auto    bool

	handler http.Handler
	baseURL string
	client  *http.Client

	// skip is shared with harnesses derived for subtests.
	skip *atomic.Int32
}

// HarnessOption configures a Harness.
type HarnessOption func(*Harness)

// WithChecker replaces the Default checker.
func WithChecker(c Checker) HarnessOption {
	return func(h *Harness) { h.checker = c }
}

// WithValidationOptions applies opts to every validation done by the harness.
func WithValidationOptions(opts ...Option) HarnessOption {
	return func(h *Harness) { h.opts = append(h.opts, opts...) }
}

// WithAutoValidation toggles validation of responses returned by Get. It is on by default.
func WithAutoValidation(enabled bool) HarnessOption {
	return func(h *Harness) { h.auto = enabled }
}

// WithClient sets the HTTP client used by a server harness.
func WithClient(c *http.Client) HarnessOption {
	return func(h *Harness) { h.client = c }
}

// NewHarness returns a harness that serves requests with handler in-process.
func NewHarness(t TestingT, handler http.Handler, opts ...HarnessOption) *Harness {
	h := &Harness{t: t, handler: handler, auto: true, skip: new(atomic.Int32)}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// NewServerHarness returns a harness that sends requests to the server at baseURL.
func NewServerHarness(t TestingT, baseURL string, opts ...HarnessOption) *Harness {
	h := &Harness{
		t:       t,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  http.DefaultClient,
		auto:    true,
		skip:    new(atomic.Int32),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

type skipKey struct{}

// WithoutValidation returns a context under which GetContext never validates.
func WithoutValidation(ctx context.Context) context.Context {
	return context.WithValue(ctx, skipKey{}, true)
}

func skipped(ctx context.Context) bool {
	v, _ := ctx.Value(skipKey{}).(bool)
	return v
}

// SkipValidation runs fn with auto-validation suspended. Scopes nest, and the
// previous state is restored even when fn panics.
func (h *Harness) SkipValidation(fn func()) {
	h.skip.Add(1)
	defer h.skip.Add(-1)
	fn()
}

// Get requests path and returns the response with its body still readable.
func (h *Harness) Get(path string) *http.Response {
	h.t.Helper()
	return h.GetContext(context.Background(), path)
}

// GetContext is Get with a context; see WithoutValidation.
func (h *Harness) GetContext(ctx context.Context, path string) *http.Response {
	h.t.Helper()

	resp, body, ok := h.fetch(ctx, path)
	if !ok {
		return nil
	}
	if h.shouldValidate(ctx, resp) {
		assertValid(ctx, h.t, h.checker, "GET "+path, Fragment(body), h.opts)
	}
	return resp
}

// AssertValid validates fragment with the harness checker and options.
func (h *Harness) AssertValid(fragment string) bool {
	h.t.Helper()
	return assertValid(context.Background(), h.t, h.checker, "", Fragment(fragment), h.opts)
}

func (h *Harness) shouldValidate(ctx context.Context, resp *http.Response) bool {
	if !h.auto || h.skip.Load() > 0 || skipped(ctx) {
		return false
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return false
	}
	return isMarkup(resp.Header.Get("Content-Type"))
}

func isMarkup(contentType string) bool {
	media, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return media == "text/html" || media == "application/xhtml+xml"
}

// fetch performs the request and buffers the body so callers can read it after validation.
func (h *Harness) fetch(ctx context.Context, path string) (*http.Response, []byte, bool) {
	h.t.Helper()

	resp, err := h.do(ctx, path)
	if err != nil {
		h.t.Errorf("GET %s: %v", path, err)
		h.t.FailNow()
		return nil, nil, false
	}

	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		h.t.Errorf("GET %s: reading body: %v", path, err)
		h.t.FailNow()
		return nil, nil, false
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))
	return resp, body, true
}

func (h *Harness) do(ctx context.Context, path string) (*http.Response, error) {
	if h.handler != nil {
		req := httptest.NewRequestWithContext(ctx, http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		h.handler.ServeHTTP(rec, req)
		return rec.Result(), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	return h.client.Do(req)
}

// withT returns a copy of h reporting through t and sharing its skip scope.
func (h *Harness) withT(t TestingT) *Harness {
	c := *h
	c.t = t
	c.opts = append([]Option(nil), h.opts...)
	return &c
}
