package client

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kerntune/internal/adapters/logger"
	"go.trai.ch/kerntune/internal/adapters/shell"
	"go.trai.ch/kerntune/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the benchmark client Graft node.
	NodeID graft.ID = "adapter.client"
	// LockNodeID is the unique identifier for the client lock Graft node.
	LockNodeID graft.ID = "adapter.client_lock"
)

func init() {
	graft.Register(graft.Node[ports.BenchmarkClient]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.BenchmarkClient, error) {
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

	graft.Register(graft.Node[ports.ClientLock]{
		ID:        LockNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ClientLock, error) {
			return NewFileLock(), nil
		},
	})
}
