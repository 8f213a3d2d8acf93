// Package library reads and writes solution library files.
package library

import (
	"os"
	"path/filepath"

	"go.trai.ch/kerntune/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// solutionsElement is the position of the solution list in a logic file's top-level list.
const solutionsElement = 5

// Library implements ports.Library over YAML files.
type Library struct{}

// New creates a new Library.
func New() *Library {
	return &Library{}
}

// ReadLogicSolutions returns the solutions stored in a library logic file.
func (l *Library) ReadLogicSolutions(path string) ([]domain.Solution, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the logic directory walk
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read logic file"), "path", path)
	}

	var doc []any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidLogicFile, err.Error()), "path", path)
	}
	if len(doc) <= solutionsElement {
		return nil, zerr.With(zerr.With(zerr.Wrap(domain.ErrInvalidLogicFile, "missing solution list"),
			"path", path), "elements", len(doc))
	}

	list, ok := domain.Normalize(doc[solutionsElement]).([]any)
	if !ok {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidLogicFile, "solution element is not a list"), "path", path)
	}

	solutions := make([]domain.Solution, 0, len(list))
	for i, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, zerr.With(zerr.With(zerr.Wrap(domain.ErrInvalidLogicFile, "solution is not a mapping"),
				"path", path), "position", i)
		}
		solutions = append(solutions, domain.NewSolution(m))
	}
	return solutions, nil
}

// sizes is the metadata header of a solutions listing.
type sizes struct {
	ProblemSizes   []any `yaml:"ProblemSizes"`
	BiasTypeArgs   []any `yaml:"BiasTypeArgs,omitempty"`
	ActivationArgs []any `yaml:"ActivationArgs,omitempty"`
	FactorDimArgs  []any `yaml:"FactorDimArgs,omitempty"`
	ICacheFlush    []any `yaml:"ICacheFlush,omitempty"`
}

// WriteSolutions writes a two-element listing: the size metadata followed by the
// solutions, or null when none are given.
func (l *Library) WriteSolutions(path string, args domain.BenchmarkArgs, solutions []domain.Solution) error {
	header := sizes{
		ProblemSizes:   args.ProblemSizes,
		BiasTypeArgs:   args.BiasTypeArgs,
		ActivationArgs: args.ActivationArgs,
		FactorDimArgs:  args.FactorDimArgs,
		ICacheFlush:    args.ICacheFlush,
	}

	var body any
	if solutions != nil {
		list := make([]any, len(solutions))
		for i, s := range solutions {
			list[i] = domain.Normalize(s)
		}
		body = list
	}

	data, err := yaml.Marshal([]any{header, body})
	if err != nil {
		return zerr.Wrap(err, "failed to encode solutions")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create solutions directory"), "path", path)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write solutions"), "path", path)
	}
	return nil
}
