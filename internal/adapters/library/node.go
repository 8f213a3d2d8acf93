package library

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kerntune/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the library Graft node.
	NodeID graft.ID = "adapter.library"
	// CustomKernelNodeID is the unique identifier for the custom kernel loader Graft node.
	CustomKernelNodeID graft.ID = "adapter.custom_kernels"
)

func init() {
	graft.Register(graft.Node[ports.Library]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Library, error) {
			return New(), nil
		},
	})

	graft.Register(graft.Node[ports.CustomKernelLoader]{
		ID:        CustomKernelNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.CustomKernelLoader, error) {
			return NewCustomKernels(), nil
		},
	})
}
