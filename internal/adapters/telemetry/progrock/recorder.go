// Package progrock records one progress vertex per validated file.
package progrock

import (
	"context"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.trai.ch/markup/internal/core/ports"
)

// Recorder implements ports.Telemetry on top of a progrock tape.
type Recorder struct {
	w   progrock.Writer
	rec *progrock.Recorder
}

// New creates a Recorder writing to an in-memory tape.
func New() ports.Telemetry {
	return NewRecorder(progrock.NewTape())
}

// NewRecorder creates a Recorder with the given writer.
func NewRecorder(w progrock.Writer) *Recorder {
	return &Recorder{
		w:   w,
		rec: progrock.NewRecorder(w),
	}
}

// Record starts a vertex named after the validated file and attaches it to the returned context.
// Vertices are keyed by name, so recording the same file twice reuses its digest.
func (r *Recorder) Record(ctx context.Context, name string) (context.Context, ports.Vertex) {
	vertex := &Vertex{vertex: r.rec.Vertex(digest.FromString(name), name)}
	return ports.ContextWithVertex(ctx, vertex), vertex
}

// Close flushes and closes the recording session.
func (r *Recorder) Close() error {
	if c, ok := r.w.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
