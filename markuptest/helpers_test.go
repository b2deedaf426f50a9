package markuptest_test

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.trai.ch/markup/markuptest"
)

const (
	validXHTML    = `<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Strict//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-strict.dtd"><html xmlns="http://www.w3.org/1999/xhtml"><head><title></title></head><body></body></html>`
	invalidMarkup = "<foo>"
	fooReport     = "Invalid markup: line 1: Element foo is not declared"
)

// recordingT captures failures instead of failing the enclosing test.
type recordingT struct {
	mu     sync.Mutex
	errors []string
	fatal  bool
}

func (r *recordingT) Helper() {}

func (r *recordingT) Errorf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

func (r *recordingT) FailNow() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fatal = true
}

func (r *recordingT) Errors() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.errors...)
}

// stubChecker rejects fragments containing <foo>.
type stubChecker struct {
	mu        sync.Mutex
	fragments []string
}

func (s *stubChecker) Check(_ context.Context, fragment markuptest.Fragment, _ ...markuptest.Option) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fragments = append(s.fragments, string(fragment))
	if strings.Contains(string(fragment), invalidMarkup) {
		return fooReport, nil
	}
	return "", nil
}

func (s *stubChecker) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.fragments)
}
