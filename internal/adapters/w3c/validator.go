// Package w3c implements the remote validation backend against the W3C markup validator.
package w3c

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	"go.trai.ch/markup/internal/core/domain"
	"go.trai.ch/markup/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

const (
	// CacheNamespace prefixes the cache keys of remote validation responses.
	CacheNamespace = "w3c"

	// StatusHeader carries the overall verdict of the validator.
	StatusHeader = "X-W3C-Validator-Status"

	checkPath      = "/check"
	statusValid    = "Valid"
	maxBodyBytes   = 16 << 20
	formContentTyp = "application/x-www-form-urlencoded"
)

// Validator implements ports.Validator by posting fragments to the validation web service.
type Validator struct {
	httpClient *http.Client
	cache      ports.ResponseCache
	logger     ports.Logger
	group      singleflight.Group
}

// NewValidator creates a remote Validator. A nil client means http.DefaultClient.
func NewValidator(client *http.Client, cache ports.ResponseCache, logger ports.Logger) *Validator {
	if client == nil {
		client = http.DefaultClient
	}
	return &Validator{
		httpClient: client,
		cache:      cache,
		logger:     logger,
	}
}

// Validate checks the fragment with the remote service, reusing cached responses.
//
// An unreachable service is logged and treated as valid.
func (v *Validator) Validate(ctx context.Context, fragment domain.Fragment, opts domain.Options) (domain.Result, error) {
	key := domain.CacheKey(CacheNamespace, fragment)

	if !opts.NoCache {
		if resp, ok := v.cache.Get(key); ok {
			if vertex, ok := ports.VertexFromContext(ctx); ok {
				vertex.Cached()
			}
			return interpret(fragment, resp), nil
		}
	}

	endpoint := checkURL(opts.ServiceEndpoint)
	// The shared request outlives any single caller; each caller still honours its own ctx.
	ch := v.group.DoChan(endpoint+"\x00"+key, func() (any, error) {
		return v.post(context.WithoutCancel(ctx), endpoint, fragment)
	})

	var res any
	var err error
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		res, err = r.Val, r.Err
	}
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if isUnreachable(err) {
			v.logger.Warn(fmt.Sprintf("validation service %s unreachable, assuming valid: %v", opts.ServiceEndpoint, err))
			return nil, nil
		}
		return domain.Result{{Message: err.Error()}}, nil
	}

	resp, _ := res.(*domain.RawResponse)
	if isSuccess(resp.StatusCode) {
		if err := v.cache.Put(key, resp); err != nil {
			v.logger.Error(err)
		}
	}

	return interpret(fragment, resp), nil
}

func (v *Validator) post(ctx context.Context, endpoint string, fragment domain.Fragment) (*domain.RawResponse, error) {
	form := url.Values{}
	form.Set("fragment", fragment.String())
	form.Set("output", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrServiceRequestFailed.Error()), "endpoint", endpoint)
	}
	req.Header.Set("Content-Type", formContentTyp)

	resp, err := v.httpClient.Do(req)
	if err != nil {
		if isUnreachable(err) {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrServiceUnreachable.Error()), "endpoint", endpoint)
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrServiceRequestFailed.Error()), "endpoint", endpoint)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrServiceRequestFailed.Error()), "endpoint", endpoint)
	}

	header := make(map[string]string, len(resp.Header))
	for k := range resp.Header {
		header[k] = resp.Header.Get(k)
	}

	return &domain.RawResponse{
		StatusCode: resp.StatusCode,
		Header:     header,
		Body:       body,
		FetchedAt:  time.Now().UTC(),
	}, nil
}

// checkURL builds the check URL for an endpoint host. A missing scheme defaults to https.
func checkURL(endpoint string) string {
	if endpoint == "" {
		endpoint = domain.DefaultServiceEndpoint
	}
	if !strings.Contains(endpoint, "://") {
		endpoint = "https://" + endpoint
	}
	return strings.TrimSuffix(endpoint, "/") + checkPath
}

func isSuccess(status int) bool {
	return status >= http.StatusOK && status < http.StatusMultipleChoices
}

// isUnreachable reports whether err means the service host could not be reached at all.
func isUnreachable(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.EHOSTUNREACH) ||
		errors.Is(err, syscall.ENETUNREACH) {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}
