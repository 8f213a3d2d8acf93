package generator

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kerntune/internal/adapters/logger"
	"go.trai.ch/kerntune/internal/adapters/shell"
	"go.trai.ch/kerntune/internal/core/ports"
)

// NodeID is the unique identifier for the kernel generator Graft node.
const NodeID graft.ID = "adapter.generator"

func init() {
	graft.Register(graft.Node[ports.KernelGenerator]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.KernelGenerator, error) {
			runner, err := graft.Dep[ports.Runner](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(runner, log), nil
		},
	})
}
