package cache

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/kerntune/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// StepStore implements ports.StepCacheStore with one YAML document per step.
type StepStore struct{}

// NewStepStore creates a StepStore.
func NewStepStore() *StepStore {
	return &StepStore{}
}

// Load reads the step cache at path. It returns nil, nil when the file does not exist.
func (s *StepStore) Load(path string) (*domain.StepCache, error) {
	//nolint:gosec // Path is built by the orchestrator
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to read step cache"), "path", path)
	}

	var c domain.StepCache
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to unmarshal step cache"), "path", path)
	}
	return &c, nil
}

// Save writes the step cache, replacing any previous content.
func (s *StepStore) Save(path string, c domain.StepCache) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to marshal step cache"), "path", path)
	}
	return writeFileAtomic(filepath.Clean(path), data)
}
