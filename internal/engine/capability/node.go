package capability

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kerntune/internal/adapters/cache"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/kerntune/internal/adapters/logger" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/kerntune/internal/adapters/shell"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/kerntune/internal/core/ports"
)

// NodeID is the unique identifier for the capability builder Graft node.
const NodeID graft.ID = "engine.capability"

func init() {
	graft.Register(graft.Node[*Builder]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			shell.NodeID,
			cache.CapabilityNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Builder, error) {
			runner, err := graft.Dep[ports.Runner](ctx)
			if err != nil {
				return nil, err
			}

			store, err := graft.Dep[ports.CapabilityStore](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewBuilder(NewProber(runner), store, log), nil
		},
	})
}
