package validation

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kerntune/internal/adapters/fs"        //nolint:depguard // Wired in engine wiring
	"go.trai.ch/kerntune/internal/adapters/library"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/kerntune/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/kerntune/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/kerntune/internal/core/ports"
)

// NodeID is the unique identifier for the validation runner Graft node.
const NodeID graft.ID = "engine.validation"

func init() {
	graft.Register(graft.Node[*Runner]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			library.NodeID,
			fs.NodeID,
			telemetry.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Runner, error) {
			lib, err := graft.Dep[ports.Library](ctx)
			if err != nil {
				return nil, err
			}

			files, err := graft.Dep[ports.FileSystem](ctx)
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

			return NewRunner(lib, files, tel, log), nil
		},
	})
}
