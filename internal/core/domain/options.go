package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// Service selects the validation backend.
type Service string

const (
	// ServiceLocal validates with the local DTD-validating tool.
	ServiceLocal Service = "local"
	// ServiceW3C validates with the remote validation web service.
	ServiceW3C Service = "w3c"
)

// ParseService parses a service name case-insensitively.
func ParseService(s string) (Service, error) {
	switch Service(strings.ToLower(strings.TrimSpace(s))) {
	case ServiceLocal:
		return ServiceLocal, nil
	case ServiceW3C:
		return ServiceW3C, nil
	default:
		return "", zerr.With(ErrUnknownService, "service", s)
	}
}

// Options controls a single validation. The zero value is not usable; start from DefaultOptions.
type Options struct {
	CatalogPath     string
	Service         Service
	DTDValidate     bool
	ServiceEndpoint string
	// NoCache disables cache reads. Responses are still written.
	NoCache bool
}

// DefaultOptions returns the process-wide defaults.
func DefaultOptions() Options {
	return Options{
		CatalogPath:     DefaultCatalogPath(),
		Service:         ServiceLocal,
		DTDValidate:     true,
		ServiceEndpoint: DefaultServiceEndpoint,
	}
}

// Option overrides a single field of Options for one call.
type Option func(*Options)

// With returns a copy of o with the overrides applied in order.
func (o Options) With(opts ...Option) Options {
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// WithService selects the validation backend.
func WithService(s Service) Option {
	return func(o *Options) { o.Service = s }
}

// WithCatalogPath sets the catalog directory used by the local backend.
func WithCatalogPath(path string) Option {
	return func(o *Options) { o.CatalogPath = path }
}

// WithDTDValidate toggles DTD validation in the local backend.
func WithDTDValidate(enabled bool) Option {
	return func(o *Options) { o.DTDValidate = enabled }
}

// WithServiceEndpoint sets the remote validation service host.
func WithServiceEndpoint(endpoint string) Option {
	return func(o *Options) { o.ServiceEndpoint = endpoint }
}

// WithNoCache bypasses cache reads.
func WithNoCache(noCache bool) Option {
	return func(o *Options) { o.NoCache = noCache }
}
