// Package config provides the benchmark configuration loader.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"go.trai.ch/kerntune/internal/core/domain"
	"go.trai.ch/kerntune/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Defaults applied to absent global parameters.
const (
	DefaultTarget          = "gfx90a"
	DefaultWavefrontSize   = 64
	DefaultCustomKernelDir = "CustomKernels"
	groupsKey              = "Groups"
)

// FileConfigLoader implements ports.ConfigLoader using YAML files.
type FileConfigLoader struct {
	logger ports.Logger
}

// NewLoader creates a new FileConfigLoader.
func NewLoader(logger ports.Logger) *FileConfigLoader {
	return &FileConfigLoader{logger: logger}
}

// Load reads the configuration file at path.
func (l *FileConfigLoader) Load(path string) (*domain.BenchmarkConfig, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	steps := 0
	for _, p := range cfg.Problems {
		for _, g := range p.Groups {
			steps += len(g.Steps)
		}
	}
	l.logger.Debug(fmt.Sprintf("loaded %s: %d problem types, %d steps", path, len(cfg.Problems), steps))
	return cfg, nil
}

// Load reads a configuration file from the given path and returns a domain.BenchmarkConfig.
func Load(path string) (*domain.BenchmarkConfig, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read config file")
	}

	var file Benchfile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.Wrap(err, "failed to parse config file")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to resolve config path")
	}

	global, err := buildGlobal(file.Global, filepath.Dir(abs))
	if err != nil {
		return nil, zerr.With(err, "config", path)
	}

	cfg := &domain.BenchmarkConfig{Path: abs, Global: global}
	for i, entry := range file.Problems {
		problem, err := buildProblem(entry)
		if err != nil {
			return nil, zerr.With(zerr.With(err, "config", path), "problem", i)
		}
		cfg.Problems = append(cfg.Problems, problem)
	}
	return cfg, nil
}

func buildGlobal(dto GlobalDTO, dir string) (domain.GlobalParams, error) {
	g := domain.GlobalParams{
		ForceRedo:        dto.ForceRedo,
		PrintRejections:  dto.PrintRejections,
		ExitOnFails:      dto.ExitOnFails == nil || *dto.ExitOnFails,
		CSVExportWinner:  dto.CSVExportWinner,
		UseCache:         dto.UseCache == nil || *dto.UseCache,
		AssemblerPath:    dto.AssemblerPath,
		ClientPath:       dto.ClientPath,
		KernelWriterPath: dto.KernelWriterPath,
		CustomKernelDir:  dto.CustomKernelDir,
		ClientLockPath:   dto.ClientLockPath,
		ProbeFlags:       dto.ProbeFlags,
		WavefrontSize:    dto.WavefrontSize,
	}

	if g.CustomKernelDir == "" {
		g.CustomKernelDir = DefaultCustomKernelDir
	}
	if !filepath.IsAbs(g.CustomKernelDir) {
		g.CustomKernelDir = filepath.Join(dir, g.CustomKernelDir)
	}
	if g.WavefrontSize == 0 {
		g.WavefrontSize = DefaultWavefrontSize
	}
	if g.WavefrontSize != 32 && g.WavefrontSize != 64 {
		return g, zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "WavefrontSize must be 32 or 64"), "wavefront_size", g.WavefrontSize)
	}

	names := dto.Targets
	if len(names) == 0 {
		names = []string{DefaultTarget}
	}
	for _, name := range names {
		t, err := domain.ParseGfx(name)
		if err != nil {
			return g, err
		}
		g.Targets = append(g.Targets, t)
	}
	return g, nil
}

func buildProblem(entry []yaml.Node) (domain.BenchmarkProblem, error) {
	if len(entry) == 0 {
		return domain.BenchmarkProblem{}, zerr.Wrap(domain.ErrInvalidConfig, "problem entry is empty")
	}

	var pt map[string]any
	if err := entry[0].Decode(&pt); err != nil || pt == nil {
		return domain.BenchmarkProblem{}, zerr.With(
			zerr.Wrap(domain.ErrInvalidConfig, "problem type must be a mapping"), "line", entry[0].Line)
	}
	problem := domain.BenchmarkProblem{ProblemType: domain.NewProblemType(pt)}

	groups := entry[1:]
	if len(groups) == 0 {
		groups = []yaml.Node{{}}
	}
	for i, node := range groups {
		var dto GroupDTO
		if node.Kind != 0 {
			if err := node.Decode(&dto); err != nil {
				return problem, zerr.With(zerr.Wrap(err, "failed to parse size group"), "group", i)
			}
		}
		group, err := buildGroup(i, dto)
		if err != nil {
			return problem, zerr.With(err, "group", i)
		}
		problem.Groups = append(problem.Groups, group)
	}
	return problem, nil
}

func buildGroup(idx int, dto GroupDTO) (domain.SizeGroup, error) {
	overrides := dto.Steps
	if len(overrides) == 0 {
		overrides = []StepDTO{{}}
	}

	group := domain.SizeGroup{Index: idx}
	for i, o := range overrides {
		final := i == len(overrides)-1
		step, err := buildStep(i, final, overlay(dto.StepDTO, o))
		if err != nil {
			return group, zerr.With(err, "step", i)
		}
		group.Steps = append(group.Steps, step)
	}
	return group, nil
}

// overlay returns base with every key declared by o replaced.
func overlay(base, o StepDTO) StepDTO {
	if o.InitialSolutionParameters != nil {
		base.InitialSolutionParameters = o.InitialSolutionParameters
	}
	if o.BenchmarkCommonParameters != nil {
		base.BenchmarkCommonParameters = o.BenchmarkCommonParameters
	}
	if o.ForkParameters != nil {
		base.ForkParameters = o.ForkParameters
	}
	if o.CustomKernels != nil {
		base.CustomKernels = o.CustomKernels
	}
	if o.CustomKernelWildcard != nil {
		base.CustomKernelWildcard = o.CustomKernelWildcard
	}
	if o.InternalSupportParams != nil {
		base.InternalSupportParams = o.InternalSupportParams
	}
	if o.BenchmarkFinalParameters != nil {
		base.BenchmarkFinalParameters = o.BenchmarkFinalParameters
	}
	return base
}

func buildStep(idx int, final bool, dto StepDTO) (domain.BenchmarkStep, error) {
	step := domain.BenchmarkStep{
		Index:                 idx,
		Name:                  domain.StepName(idx, final),
		Final:                 final,
		ConstantParams:        map[string]any{},
		CustomKernels:         dto.CustomKernels,
		CustomKernelWildcard:  dto.CustomKernelWildcard != nil && *dto.CustomKernelWildcard,
		InternalSupportParams: dto.InternalSupportParams,
	}
	for k, v := range dto.InitialSolutionParameters {
		step.ConstantParams[k] = domain.Normalize(v)
	}

	for _, entry := range dto.BenchmarkCommonParameters {
		name, values, err := singleParam(entry)
		if err != nil {
			return step, err
		}
		if len(values) == 1 {
			step.ConstantParams[name] = values[0]
			continue
		}
		step.ForkParams = append(step.ForkParams, domain.ForkParam{Name: name, Values: values})
	}

	for _, entry := range dto.ForkParameters {
		name, values, err := singleParam(entry)
		if err != nil {
			return step, err
		}
		if name != groupsKey {
			step.ForkParams = append(step.ForkParams, domain.ForkParam{Name: name, Values: values})
			continue
		}
		for _, v := range values {
			group, err := paramGroup(v)
			if err != nil {
				return step, err
			}
			step.ParamGroups = append(step.ParamGroups, group)
		}
	}

	if f := dto.BenchmarkFinalParameters; f != nil {
		step.Args = domain.BenchmarkArgs{
			ProblemSizes:   f.ProblemSizes,
			BiasTypeArgs:   f.BiasTypeArgs,
			ActivationArgs: f.ActivationArgs,
			FactorDimArgs:  f.FactorDimArgs,
			ICacheFlush:    f.ICacheFlush,
		}
	}
	return step, nil
}

// singleParam unpacks a single-key mapping. A scalar value is a one-element list.
func singleParam(entry map[string]any) (string, []any, error) {
	if len(entry) != 1 {
		return "", nil, zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "parameter entry must have exactly one key"), "keys", len(entry))
	}
	for name, v := range entry {
		values, ok := domain.Normalize(v).([]any)
		if !ok {
			values = []any{domain.Normalize(v)}
		}
		if len(values) == 0 {
			return "", nil, zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "parameter has no values"), "param", name)
		}
		return name, values, nil
	}
	return "", nil, nil
}

func paramGroup(v any) (domain.ParamGroup, error) {
	choices, ok := v.([]any)
	if !ok || len(choices) == 0 {
		return nil, zerr.Wrap(domain.ErrInvalidConfig, "parameter group must be a non-empty list of mappings")
	}
	group := make(domain.ParamGroup, 0, len(choices))
	for _, c := range choices {
		m, ok := c.(map[string]any)
		if !ok {
			return nil, zerr.Wrap(domain.ErrInvalidConfig, "parameter group choice must be a mapping")
		}
		group = append(group, m)
	}
	return group, nil
}
