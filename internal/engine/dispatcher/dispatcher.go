// Package dispatcher selects a validation backend for a fragment and formats its findings.
package dispatcher

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.trai.ch/markup/internal/core/domain"
	"go.trai.ch/markup/internal/core/ports"
	"go.trai.ch/zerr"
)

// SpanName is the name of the span wrapping each validation.
const SpanName = "markup.validate"

// Span attribute keys.
const (
	AttrService     = "markup.service"
	AttrDTDValidate = "markup.dtd_validate"
	AttrHTML5       = "markup.html5"
	AttrErrors      = "markup.errors"
)

// Dispatcher routes fragments to the local or remote validator.
type Dispatcher struct {
	defaults domain.Options
	local    ports.Validator
	remote   ports.Validator
	tracer   trace.Tracer
}

// New creates a Dispatcher. Per-call options are applied over defaults.
// A nil tracer disables tracing.
func New(defaults domain.Options, local, remote ports.Validator, tracer trace.Tracer) *Dispatcher {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("")
	}
	return &Dispatcher{
		defaults: defaults,
		local:    local,
		remote:   remote,
		tracer:   tracer,
	}
}

// Defaults returns the options every call starts from.
func (d *Dispatcher) Defaults() domain.Options {
	return d.defaults
}

// Resolve merges opts over the defaults and applies the HTML5 override:
// a fragment starting with an HTML5 doctype is always sent to the remote service,
// because the DTD-based validator cannot check it.
func (d *Dispatcher) Resolve(fragment domain.Fragment, opts ...domain.Option) domain.Options {
	o := d.defaults.With(opts...)
	if fragment.IsHTML5() {
		o.Service = domain.ServiceW3C
	}
	return o
}

// Validate checks the fragment with the backend selected by the merged options.
func (d *Dispatcher) Validate(ctx context.Context, fragment domain.Fragment, opts ...domain.Option) (domain.Result, error) {
	o := d.Resolve(fragment, opts...)

	ctx, span := d.tracer.Start(ctx, SpanName, trace.WithAttributes(
		attribute.String(AttrService, string(o.Service)),
		attribute.Bool(AttrDTDValidate, o.DTDValidate),
		attribute.Bool(AttrHTML5, fragment.IsHTML5()),
	))
	defer span.End()

	var backend ports.Validator
	switch o.Service {
	case domain.ServiceLocal:
		backend = d.local
	case domain.ServiceW3C:
		backend = d.remote
	default:
		err := zerr.With(domain.ErrUnknownService, "service", string(o.Service))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	result, err := backend.Validate(ctx, fragment, o)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int(AttrErrors, len(result)))
	return result, nil
}

// Report renders a result for humans. An empty string means the fragment is valid.
func (d *Dispatcher) Report(result domain.Result) string {
	return domain.Report(result)
}

// Check validates the fragment and returns its report.
func (d *Dispatcher) Check(ctx context.Context, fragment domain.Fragment, opts ...domain.Option) (string, error) {
	result, err := d.Validate(ctx, fragment, opts...)
	if err != nil {
		return "", err
	}
	return d.Report(result), nil
}
