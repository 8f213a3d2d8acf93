package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kerntune/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/kerntune/internal/adapters/library"   //nolint:depguard // Wired in app layer
	"go.trai.ch/kerntune/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/kerntune/internal/adapters/shell"     //nolint:depguard // Wired in app layer
	"go.trai.ch/kerntune/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/kerntune/internal/core/ports"
	"go.trai.ch/kerntune/internal/engine/benchmark"
	"go.trai.ch/kerntune/internal/engine/capability"
	"go.trai.ch/kerntune/internal/engine/validation"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components contains the initialized application components needed by the CLI layer.
type Components struct {
	App       *App
	Logger    ports.Logger
	Telemetry ports.Telemetry
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			shell.NodeID,
			capability.NodeID,
			library.CustomKernelNodeID,
			benchmark.NodeID,
			validation.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			telemetry.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			tel, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{App: app, Logger: log, Telemetry: tel}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	runner, err := graft.Dep[ports.Runner](ctx)
	if err != nil {
		return nil, err
	}

	builder, err := graft.Dep[*capability.Builder](ctx)
	if err != nil {
		return nil, err
	}

	kernels, err := graft.Dep[ports.CustomKernelLoader](ctx)
	if err != nil {
		return nil, err
	}

	orch, err := graft.Dep[*benchmark.Orchestrator](ctx)
	if err != nil {
		return nil, err
	}

	validator, err := graft.Dep[*validation.Runner](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, runner, builder, kernels, orch, validator, log), nil
}
