// Package telemetry provides OpenTelemetry tracing for validation runs.
package telemetry

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentationName identifies the spans emitted by this module.
const InstrumentationName = "go.trai.ch/markup"

// NewTracer returns the module tracer from provider, or from the global provider when nil.
// Without a registered SDK provider the global one is a no-op.
func NewTracer(provider trace.TracerProvider) trace.Tracer {
	if provider == nil {
		provider = otel.GetTracerProvider()
	}
	return provider.Tracer(InstrumentationName)
}
