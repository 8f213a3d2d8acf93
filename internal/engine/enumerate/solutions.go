package enumerate

import (
	"fmt"
	"iter"
	"strings"

	"go.trai.ch/kerntune/internal/core/domain"
	"go.trai.ch/kerntune/internal/core/ports"
	"go.trai.ch/kerntune/internal/engine/filter"
	"go.trai.ch/zerr"
)

// Admitter completes a candidate and decides whether it is kept.
type Admitter interface {
	Admit(w filter.Bound, sol domain.Solution) (domain.Solution, bool)
}

// Enumerator builds the accepted solutions of a benchmark step.
type Enumerator struct {
	filter Admitter
	loader ports.CustomKernelLoader
	logger ports.Logger
}

// New creates an Enumerator.
func New(f Admitter, loader ports.CustomKernelLoader, logger ports.Logger) *Enumerator {
	return &Enumerator{filter: f, loader: loader, logger: logger}
}

// Forked merges the problem type, the constant parameters and each permutation into
// one descriptor and keeps the valid ones. Later descriptors structurally equal to an
// already kept one are dropped silently; the first one wins.
func (e *Enumerator) Forked(
	w filter.Bound,
	pt domain.ProblemType,
	constants map[string]any,
	perms iter.Seq[domain.ParamAssignment],
) []domain.Solution {
	var kept []domain.Solution
	seen := make(map[uint64][]domain.Solution)

	for perm := range perms {
		cand := domain.NewSolution(map[string]any{domain.KeyProblemType: pt.Clone()}).
			Merge(constants, perm.Map())

		full, ok := e.filter.Admit(w, cand)
		if !ok {
			continue
		}

		fp := full.Fingerprint()
		if containsEqual(seen[fp], full) {
			continue
		}
		seen[fp] = append(seen[fp], full)
		kept = append(kept, full)
	}
	return kept
}

func containsEqual(bucket []domain.Solution, s domain.Solution) bool {
	for _, b := range bucket {
		if b.Equal(s) {
			return true
		}
	}
	return false
}

// Custom loads the named hand-authored kernels from dir.
//
// The kernel's activation type is replaced by the one of pt before the problem types
// are compared. On mismatch Custom fails when failOnMismatch is set, listing the
// differing fields in both directions; otherwise the kernel is skipped.
func (e *Enumerator) Custom(
	w filter.Bound,
	pt domain.ProblemType,
	dir string,
	names []string,
	internalSupportParams map[string]any,
	failOnMismatch bool,
) ([]domain.Solution, error) {
	var kept []domain.Solution
	for _, name := range names {
		e.logger.Debug(fmt.Sprintf("processing custom kernel %s", name))

		sol, err := e.loader.Load(dir, name, internalSupportParams)
		if err != nil {
			return nil, err
		}

		kpt, _ := sol.ProblemType()
		kpt = kpt.WithActivation(pt[domain.KeyActivationType])

		if !kpt.Equal(pt) {
			if failOnMismatch {
				onlyConfig, onlyKernel := pt.Diff(kpt)
				err := zerr.With(zerr.Wrap(domain.ErrCustomKernelMismatch, "problem type differs from config"), "kernel", name)
				err = zerr.With(err, "config_values", strings.Join(onlyConfig, ", "))
				return nil, zerr.With(err, "kernel_values", strings.Join(onlyKernel, ", "))
			}
			e.logger.Info(fmt.Sprintf("rejected custom kernel %s: problem type does not match", name))
			continue
		}

		sol = sol.Merge(map[string]any{domain.KeyProblemType: map[string]any(kpt)})
		full, ok := e.filter.Admit(w, sol)
		if !ok {
			continue
		}
		e.logger.Debug(fmt.Sprintf("added custom kernel %s", name))
		kept = append(kept, full)
	}
	return kept, nil
}
