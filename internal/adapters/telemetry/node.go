// Package telemetry wires the progress recorder used for benchmark steps and validated files.
package telemetry

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kerntune/internal/adapters/telemetry/progrock"
	"go.trai.ch/kerntune/internal/core/ports"
)

// NodeID is the unique identifier for the telemetry adapter Graft node.
const NodeID graft.ID = "adapter.telemetry"

func init() {
	graft.Register(graft.Node[ports.Telemetry]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Telemetry, error) {
			return progrock.New(), nil
		},
	})
}
