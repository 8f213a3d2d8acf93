// Package progrock provides the Progrock implementation of the telemetry adapter.
package progrock

import (
	"context"

	"github.com/google/uuid"
	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.trai.ch/kerntune/internal/core/ports"
)

// Recorder implements the ports.Telemetry interface using the vito/progrock library.
type Recorder struct {
	w       progrock.Writer
	rec     *progrock.Recorder
	session string
}

// New creates a new Recorder with a default tape.
func New() *Recorder {
	return NewRecorder(progrock.NewTape())
}

// NewRecorder creates a new Recorder with the given writer.
// Every Recorder gets its own session so identical names in separate runs map to
// distinct vertices.
func NewRecorder(w progrock.Writer) *Recorder {
	return &Recorder{
		w:       w,
		rec:     progrock.NewRecorder(w),
		session: uuid.NewString(),
	}
}

// Digest returns the vertex digest used for name.
func (r *Recorder) Digest(name string) digest.Digest {
	return digest.FromString(r.session + "/" + name)
}

// Record starts recording a new vertex.
func (r *Recorder) Record(ctx context.Context, name string) (context.Context, ports.Vertex) {
	v := r.rec.Vertex(r.Digest(name), name)
	vertex := &Vertex{vertex: v}
	return ports.ContextWithVertex(ctx, vertex), vertex
}

// Close flushes and closes the recording session.
func (r *Recorder) Close() error {
	if err := r.rec.Close(); err != nil {
		return err
	}
	if c, ok := r.w.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
