package benchmark

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kerntune/internal/adapters/cache"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/kerntune/internal/adapters/client"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/kerntune/internal/adapters/fs"        //nolint:depguard // Wired in engine wiring
	"go.trai.ch/kerntune/internal/adapters/generator" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/kerntune/internal/adapters/library"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/kerntune/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/kerntune/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/kerntune/internal/core/ports"
)

// NodeID is the unique identifier for the benchmark orchestrator Graft node.
const NodeID graft.ID = "engine.benchmark"

func init() {
	graft.Register(graft.Node[*Orchestrator]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			cache.StepNodeID,
			fs.NodeID,
			library.NodeID,
			generator.NodeID,
			client.NodeID,
			client.LockNodeID,
			telemetry.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Orchestrator, error) {
			caches, err := graft.Dep[ports.StepCacheStore](ctx)
			if err != nil {
				return nil, err
			}

			files, err := graft.Dep[ports.FileSystem](ctx)
			if err != nil {
				return nil, err
			}

			lib, err := graft.Dep[ports.Library](ctx)
			if err != nil {
				return nil, err
			}

			gen, err := graft.Dep[ports.KernelGenerator](ctx)
			if err != nil {
				return nil, err
			}

			runner, err := graft.Dep[ports.BenchmarkClient](ctx)
			if err != nil {
				return nil, err
			}

			lock, err := graft.Dep[ports.ClientLock](ctx)
			if err != nil {
				return nil, err
			}

			tel, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return New(caches, files, lib, gen, runner, lock, tel, log), nil
		},
	})
}
