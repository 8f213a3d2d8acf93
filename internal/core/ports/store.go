package ports

import "go.trai.ch/kerntune/internal/core/domain"

// StepCacheStore persists benchmark step caches (one cache.yaml per step directory).
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type StepCacheStore interface {
	// Load reads the step cache at path.
	// Returns nil, nil if no cache exists.
	Load(path string) (*domain.StepCache, error)

	// Save writes the step cache, replacing any previous content.
	Save(path string, cache domain.StepCache) error
}

// CapabilityStore persists probed capability sets across processes.
type CapabilityStore interface {
	// Get returns the set stored for the target, assembler and extra assembler flags.
	// Returns nil, nil if not found.
	Get(target domain.Target, assemblerPath string, flags []string) (*domain.CapabilitySet, error)

	// Put stores the capability set.
	Put(set domain.CapabilitySet) error
}
