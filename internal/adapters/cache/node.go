package cache

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kerntune/internal/core/ports"
)

const (
	// StepNodeID is the unique identifier for the step cache Graft node.
	StepNodeID graft.ID = "adapter.step_cache"
	// CapabilityNodeID is the unique identifier for the capability cache Graft node.
	CapabilityNodeID graft.ID = "adapter.capability_cache"
)

func init() {
	graft.Register(graft.Node[ports.StepCacheStore]{
		ID:        StepNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.StepCacheStore, error) {
			return NewStepStore(), nil
		},
	})

	graft.Register(graft.Node[ports.CapabilityStore]{
		ID:        CapabilityNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.CapabilityStore, error) {
			store, err := NewCapabilityStore(DefaultCapabilityPath)
			if err != nil {
				return nil, err
			}
			return store, nil
		},
	})
}
