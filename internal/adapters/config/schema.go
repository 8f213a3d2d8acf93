package config

import (
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Benchfile represents the structure of a benchmark configuration file.
type Benchfile struct {
	Global   GlobalDTO     `yaml:"GlobalParameters"`
	Problems [][]yaml.Node `yaml:"BenchmarkProblems"`
}

// GlobalDTO represents the GlobalParameters section. Pointer fields distinguish
// an explicit false from an absent key.
type GlobalDTO struct {
	ForceRedo        bool     `yaml:"ForceRedoBenchmarkProblems"`
	PrintRejections  bool     `yaml:"PrintSolutionRejectionReason"`
	ExitOnFails      *bool    `yaml:"ExitOnFails"`
	CSVExportWinner  bool     `yaml:"CSVExportWinner"`
	UseCache         *bool    `yaml:"UseCache"`
	AssemblerPath    string   `yaml:"AssemblerPath"`
	ClientPath       string   `yaml:"ClientPath"`
	KernelWriterPath string   `yaml:"KernelWriterPath"`
	CustomKernelDir  string   `yaml:"CustomKernelDir"`
	ClientLockPath   string   `yaml:"ClientLockPath"`
	ProbeFlags       []string `yaml:"ProbeFlags"`
	Targets          []string `yaml:"Targets"`
	WavefrontSize    int      `yaml:"WavefrontSize"`
}

// StepDTO holds the keys a size group declares and a step may override.
type StepDTO struct {
	InitialSolutionParameters map[string]any   `yaml:"InitialSolutionParameters"`
	BenchmarkCommonParameters []map[string]any `yaml:"BenchmarkCommonParameters"`
	ForkParameters            []map[string]any `yaml:"ForkParameters"`
	CustomKernels             []string         `yaml:"CustomKernels"`
	CustomKernelWildcard      *bool            `yaml:"CustomKernelWildcard"`
	InternalSupportParams     map[string]any   `yaml:"InternalSupportParams"`
	BenchmarkFinalParameters  *FinalParamsDTO  `yaml:"BenchmarkFinalParameters"`
}

// GroupDTO represents one size group of a problem.
type GroupDTO struct {
	StepDTO `yaml:",inline"`
	Steps   []StepDTO `yaml:"Steps"`
}

// FinalParamsDTO holds the client arguments of a step. It accepts either a mapping
// or a list of single-key mappings.
type FinalParamsDTO struct {
	ProblemSizes   []any `yaml:"ProblemSizes"`
	BiasTypeArgs   []any `yaml:"BiasTypeArgs"`
	ActivationArgs []any `yaml:"ActivationArgs"`
	FactorDimArgs  []any `yaml:"FactorDimArgs"`
	ICacheFlush    []any `yaml:"ICacheFlush"`
}

type finalParamsFields FinalParamsDTO

// UnmarshalYAML implements yaml.Unmarshaler.
func (f *FinalParamsDTO) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		return node.Decode((*finalParamsFields)(f))
	case yaml.SequenceNode:
		for _, item := range node.Content {
			if err := item.Decode((*finalParamsFields)(f)); err != nil {
				return err
			}
		}
		return nil
	default:
		return zerr.With(zerr.New("BenchmarkFinalParameters must be a mapping or a list"), "line", node.Line)
	}
}
