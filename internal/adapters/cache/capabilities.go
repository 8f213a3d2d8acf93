// Package cache persists step caches and probed capability sets as YAML files.
package cache

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.trai.ch/kerntune/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// DefaultCapabilityPath is the capability cache location relative to the working directory.
const DefaultCapabilityPath = ".kerntune/capabilities.yaml"

// CapabilityStore implements ports.CapabilityStore using a flat YAML file.
type CapabilityStore struct {
	path  string
	mu    sync.RWMutex
	cache map[string]domain.CapabilitySet
}

// NewCapabilityStore creates a CapabilityStore backed by the file at the given path.
func NewCapabilityStore(path string) (*CapabilityStore, error) {
	s := &CapabilityStore{
		path:  filepath.Clean(path),
		cache: make(map[string]domain.CapabilitySet),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// capabilityKey identifies a set by target, assembler and the extra flags it was probed with.
func capabilityKey(target domain.Target, assemblerPath string, flags []string) string {
	key := target.Gfx() + "|" + assemblerPath
	if len(flags) > 0 {
		key += "|" + strings.Join(flags, " ")
	}
	return key
}

func (s *CapabilityStore) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.With(zerr.Wrap(err, "failed to read capability cache"), "path", s.path)
	}

	if len(data) == 0 {
		return nil
	}

	if err := yaml.Unmarshal(data, &s.cache); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to unmarshal capability cache"), "path", s.path)
	}
	if s.cache == nil {
		s.cache = make(map[string]domain.CapabilitySet)
	}
	return nil
}

func (s *CapabilityStore) save() error {
	s.mu.RLock()
	data, err := yaml.Marshal(s.cache)
	s.mu.RUnlock()
	if err != nil {
		return zerr.Wrap(err, "failed to marshal capability cache")
	}
	return writeFileAtomic(s.path, data)
}

// Get retrieves the capability set probed for target with the given assembler and flags.
func (s *CapabilityStore) Get(target domain.Target, assemblerPath string, flags []string) (*domain.CapabilitySet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set, ok := s.cache[capabilityKey(target, assemblerPath, flags)]
	if !ok {
		return nil, nil
	}
	return &set, nil
}

// Put stores the capability set.
func (s *CapabilityStore) Put(set domain.CapabilitySet) error {
	s.mu.Lock()
	s.cache[capabilityKey(set.Target, set.AssemblerPath, set.AssemblerFlags)] = set
	s.mu.Unlock()

	return s.save()
}

// writeFileAtomic replaces path through a temporary file in the same directory so
// concurrent readers never observe a partial file.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create cache directory"), "path", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create temporary file"), "path", dir)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return zerr.With(zerr.Wrap(err, "failed to write cache"), "path", path)
	}
	if err := tmp.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write cache"), "path", path)
	}
	//nolint:gosec // cache files are not secret
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write cache"), "path", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to replace cache"), "path", path)
	}
	return nil
}
