package telemetry

import (
	"context"

	"github.com/grindlemire/graft"
	"go.opentelemetry.io/otel/trace"
)

// TracerNodeID is the unique identifier for the tracer Graft node.
const TracerNodeID graft.ID = "adapter.tracer"

func init() {
	graft.Register(graft.Node[trace.Tracer]{
		ID:        TracerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (trace.Tracer, error) {
			return NewTracer(nil), nil
		},
	})
}
