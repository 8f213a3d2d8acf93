package domain

import (
	"fmt"

	"github.com/google/go-cmp/cmp"
)

// ForkParam is one independent axis of the parameter space.
type ForkParam struct {
	Name   string
	Values []any
}

// ParamGroup is a set of parameters that vary together: each element is one choice,
// assigning every member of the group at once.
type ParamGroup []map[string]any

// Param is a single name/value assignment.
type Param struct {
	Name  string
	Value any
}

// ParamAssignment is one point of the parameter space, in declaration order.
type ParamAssignment []Param

// Map flattens the assignment; later entries win on duplicate names.
func (a ParamAssignment) Map() map[string]any {
	m := make(map[string]any, len(a))
	for _, p := range a {
		m[p.Name] = p.Value
	}
	return m
}

// BenchmarkArgs are the per-step problem sizes and client arguments, passed through opaquely.
type BenchmarkArgs struct {
	ProblemSizes   []any `yaml:"ProblemSizes"`
	BiasTypeArgs   []any `yaml:"BiasTypeArgs"`
	ActivationArgs []any `yaml:"ActivationArgs"`
	FactorDimArgs  []any `yaml:"FactorDimArgs"`
	ICacheFlush    []any `yaml:"ICacheFlush"`
}

// BenchmarkStep is one step of a size group's benchmark plan.
type BenchmarkStep struct {
	Index                 int
	Name                  string
	Final                 bool
	ConstantParams        map[string]any
	ForkParams            []ForkParam
	ParamGroups           []ParamGroup
	CustomKernels         []string
	CustomKernelWildcard  bool
	InternalSupportParams map[string]any
	Args                  BenchmarkArgs
}

// StepName returns the deterministic short name of a step.
func StepName(idx int, final bool) string {
	if final {
		return fmt.Sprintf("%02d_Final", idx)
	}
	return fmt.Sprintf("%02d_Fork", idx)
}

// SizeGroup is one problem-size group of a problem type.
type SizeGroup struct {
	Index int
	Steps []BenchmarkStep
}

// BenchmarkProblem pairs a problem type with its size groups.
type BenchmarkProblem struct {
	ProblemType ProblemType
	Groups      []SizeGroup
}

// GroupName returns "<ProblemTypeName>_<idx:02d>".
func (p BenchmarkProblem) GroupName(g SizeGroup) string {
	return fmt.Sprintf("%s_%02d", p.ProblemType.Name(), g.Index)
}

// GlobalParams are run-wide settings.
type GlobalParams struct {
	ForceRedo        bool
	PrintRejections  bool
	ExitOnFails      bool
	CSVExportWinner  bool
	UseCache         bool
	AssemblerPath    string
	ClientPath       string
	KernelWriterPath string
	CustomKernelDir  string
	ClientLockPath   string
	ProbeFlags       []string
	Targets          []Target
	WavefrontSize    int
}

// BenchmarkConfig is a fully loaded benchmark configuration.
type BenchmarkConfig struct {
	Path     string
	Global   GlobalParams
	Problems []BenchmarkProblem
}

// StepCacheKey is the six-field identity of a step's generated artifacts.
// Fields hold normalized values so they compare structurally regardless of origin.
type StepCacheKey struct {
	ConstantParams        any      `yaml:"ConstantParams"`
	ForkParams            any      `yaml:"ForkParams"`
	ParamGroups           any      `yaml:"ParamGroups"`
	CustomKernels         []string `yaml:"CustomKernels"`
	CustomKernelWildcard  bool     `yaml:"CustomKernelWildcard"`
	InternalSupportParams any      `yaml:"InternalSupportParams"`
}

// StepCache is the persisted step cache record.
type StepCache struct {
	StepCacheKey    `yaml:",inline"`
	CodeObjectFiles []string `yaml:"CodeObjectFiles"`
}

// CacheKey builds the cache key of the step.
func (s BenchmarkStep) CacheKey() StepCacheKey {
	forks := make([]any, 0, len(s.ForkParams))
	for _, f := range s.ForkParams {
		forks = append(forks, map[string]any{f.Name: Normalize(f.Values)})
	}
	groups := make([]any, 0, len(s.ParamGroups))
	for _, g := range s.ParamGroups {
		choices := make([]any, 0, len(g))
		for _, c := range g {
			choices = append(choices, Normalize(c))
		}
		groups = append(groups, choices)
	}
	kernels := append([]string{}, s.CustomKernels...)

	return StepCacheKey{
		ConstantParams:        normalizeMap(s.ConstantParams),
		ForkParams:            forks,
		ParamGroups:           groups,
		CustomKernels:         kernels,
		CustomKernelWildcard:  s.CustomKernelWildcard,
		InternalSupportParams: normalizeMap(s.InternalSupportParams),
	}
}

func normalizeMap(m map[string]any) map[string]any {
	n, _ := Normalize(m).(map[string]any)
	if n == nil {
		return map[string]any{}
	}
	return n
}

// Equal compares every key field structurally. Any difference invalidates the cache,
// including an absent field against an empty one.
func (k StepCacheKey) Equal(o StepCacheKey) bool {
	return cmp.Equal(Normalize(k.ConstantParams), Normalize(o.ConstantParams)) &&
		cmp.Equal(Normalize(k.ForkParams), Normalize(o.ForkParams)) &&
		cmp.Equal(Normalize(k.ParamGroups), Normalize(o.ParamGroups)) &&
		cmp.Equal(k.CustomKernels, o.CustomKernels) &&
		k.CustomKernelWildcard == o.CustomKernelWildcard &&
		cmp.Equal(Normalize(k.InternalSupportParams), Normalize(o.InternalSupportParams))
}
