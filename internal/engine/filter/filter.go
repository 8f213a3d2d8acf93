// Package filter decides whether a candidate solution can be built for the bound target.
package filter

import (
	"fmt"

	"go.trai.ch/kerntune/internal/core/domain"
	"go.trai.ch/kerntune/internal/core/ports"
	"go.trai.ch/kerntune/internal/engine/capability"
	"go.trai.ch/kerntune/internal/engine/validator"
)

// Rule ids for the structural checks that run before the matrix-instruction rules.
const (
	RuleBinding     domain.Rule = "solution.binding"
	RuleProblemType domain.Rule = "solution.problem-type"
	RuleSparse      domain.Rule = "solution.sparse"
	RuleWorkGroup   domain.Rule = "solution.work-group"
	RuleWavefront   domain.Rule = "solution.wavefront"
	RuleISA         domain.Rule = "solution.isa"
)

// maxWorkGroupSize is the hardware limit on threads per work group.
const maxWorkGroupSize = 1024

// Bound is the view of a worker the filter needs.
type Bound interface {
	Current() (capability.Binding, error)
	Capabilities() (*domain.CapabilitySet, error)
}

// Filter completes candidate descriptors and accepts or rejects them.
type Filter struct {
	caps    validator.CapabilitySource
	logger  ports.Logger
	verbose bool
}

// New creates a Filter. When verbose is set every rejection is logged with its reason.
func New(caps validator.CapabilitySource, logger ports.Logger, verbose bool) *Filter {
	return &Filter{caps: caps, logger: logger, verbose: verbose}
}

// Check completes sol for the worker's bound target and validates it. The completed
// descriptor is returned alongside the outcome; sol itself is not modified.
func (f *Filter) Check(w Bound, sol domain.Solution) (domain.Solution, domain.ValidationOutcome) {
	binding, err := w.Current()
	if err != nil {
		return sol, domain.Reject(RuleBinding, "%v", err)
	}
	set, err := w.Capabilities()
	if err != nil {
		return sol, domain.Reject(RuleBinding, "%v", err)
	}

	full := validator.Fill(sol, set, binding.WavefrontSize)
	if out := f.structural(full); !out.Valid {
		return full, out
	}
	return full, validator.Validate(full, f.caps)
}

// Accept reports whether sol is valid for the worker's bound target.
func (f *Filter) Accept(w Bound, sol domain.Solution) bool {
	_, ok := f.Admit(w, sol)
	return ok
}

// Admit is Accept returning the completed descriptor. Rejections are logged, never raised.
func (f *Filter) Admit(w Bound, sol domain.Solution) (domain.Solution, bool) {
	full, out := f.Check(w, sol)
	if !out.Valid && f.verbose {
		f.logger.Info(fmt.Sprintf("rejected %s: %s", sol.Name(), out))
	}
	return full, out.Valid
}

func (f *Filter) structural(sol domain.Solution) domain.ValidationOutcome {
	pt, ok := sol.ProblemType()
	if !ok {
		return domain.Reject(RuleProblemType, "descriptor has no %s", domain.KeyProblemType)
	}
	if _, err := pt.DataType(); err != nil {
		return domain.Reject(RuleProblemType, "%v", err)
	}
	if s := pt.Sparse(); s < 0 || s > 2 {
		return domain.Reject(RuleSparse, "sparse mode %d out of range", s)
	}

	target, ok := sol.Target()
	if !ok {
		return domain.Reject(RuleISA, "invalid %s %v", domain.KeyISA, sol[domain.KeyISA])
	}
	set, ok := f.caps.Capabilities(target)
	if !ok {
		return domain.Reject(RuleISA, "target %s is not initialized", target.Gfx())
	}
	if !set.Asm.SupportedISA {
		return domain.Reject(RuleISA, "assembler does not support %s", target.Gfx())
	}

	switch wf, _ := sol.Int(domain.KeyWavefrontSize); wf {
	case 64:
	case 32:
		if !set.Arch.HasWave32 {
			return domain.Reject(RuleWavefront, "%s does not support wave32", target.Gfx())
		}
	default:
		return domain.Reject(RuleWavefront, "unsupported %s %v", domain.KeyWavefrontSize, sol[domain.KeyWavefrontSize])
	}

	if sol.Has(domain.KeyWorkGroup) {
		wg, ok := sol.Ints(domain.KeyWorkGroup)
		if !ok || len(wg) == 0 {
			return domain.Reject(RuleWorkGroup, "invalid %s %v", domain.KeyWorkGroup, sol[domain.KeyWorkGroup])
		}
		size := 1
		for _, d := range wg {
			if d <= 0 {
				return domain.Reject(RuleWorkGroup, "non-positive %s %v", domain.KeyWorkGroup, wg)
			}
			size *= d
		}
		if size > maxWorkGroupSize {
			return domain.Reject(RuleWorkGroup, "%s %v exceeds %d threads", domain.KeyWorkGroup, wg, maxWorkGroupSize)
		}
	}
	return domain.Accept()
}
