// Package app implements the application layer for kerntune.
package app

import (
	"context"
	"fmt"

	"go.trai.ch/kerntune/internal/core/domain"
	"go.trai.ch/kerntune/internal/core/ports"
	"go.trai.ch/kerntune/internal/engine/benchmark"
	"go.trai.ch/kerntune/internal/engine/capability"
	"go.trai.ch/kerntune/internal/engine/enumerate"
	"go.trai.ch/kerntune/internal/engine/filter"
	"go.trai.ch/kerntune/internal/engine/validation"
	"go.trai.ch/zerr"
)

// Default executable names and install locations.
const (
	DefaultAssembler    = "clang"
	DefaultClient       = "kerntune-client"
	DefaultKernelWriter = "kerntune-kernel-writer"
	AssemblerDir        = "/opt/rocm/llvm/bin"
	ToolDir             = "/opt/rocm/bin"
)

// BenchmarkRunner runs the steps of a benchmark configuration.
type BenchmarkRunner interface {
	Run(ctx context.Context, cfg *domain.BenchmarkConfig, sess benchmark.Session) (benchmark.Summary, error)
}

// ValidationRunner validates stored logic files.
type ValidationRunner interface {
	Run(ctx context.Context, reg validation.Registry, logicPath, assembler string, jobs int) (validation.Result, error)
}

// App represents the main application logic.
type App struct {
	configLoader  ports.ConfigLoader
	runner        ports.Runner
	builder       *capability.Builder
	customKernels ports.CustomKernelLoader
	benchmarks    BenchmarkRunner
	validator     ValidationRunner
	logger        ports.Logger
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	runner ports.Runner,
	builder *capability.Builder,
	customKernels ports.CustomKernelLoader,
	benchmarks BenchmarkRunner,
	validator ValidationRunner,
	logger ports.Logger,
) *App {
	return &App{
		configLoader:  loader,
		runner:        runner,
		builder:       builder,
		customKernels: customKernels,
		benchmarks:    benchmarks,
		validator:     validator,
		logger:        logger,
	}
}

// BenchmarkOptions override configuration settings from the command line.
type BenchmarkOptions struct {
	OutputDir string
	Force     bool
	NoCache   bool
	Verbose   bool
}

// Benchmark loads the configuration at configPath and runs every benchmark step.
func (a *App) Benchmark(ctx context.Context, configPath string, opts BenchmarkOptions) (benchmark.Summary, error) {
	done := a.timed("load configuration")
	cfg, err := a.configLoader.Load(configPath)
	done()
	if err != nil {
		return benchmark.Summary{}, zerr.Wrap(err, "failed to load configuration")
	}

	g := &cfg.Global
	g.ForceRedo = g.ForceRedo || opts.Force
	g.UseCache = g.UseCache && !opts.NoCache
	g.PrintRejections = g.PrintRejections || opts.Verbose
	if g.PrintRejections {
		a.setLevel(domain.LogLevelDebug)
	}

	if len(g.Targets) == 0 {
		return benchmark.Summary{}, zerr.Wrap(domain.ErrInvalidConfig, "no targets configured")
	}

	tools, err := a.resolveTools(*g)
	if err != nil {
		return benchmark.Summary{}, err
	}

	reg := capability.NewRegistry(a.builder.WithFlags(g.ProbeFlags...))
	worker := reg.NewWorker(ctx)
	defer worker.Close()

	done = a.timed("initialize targets")
	for _, t := range g.Targets {
		if _, err := reg.Ensure(ctx, t, tools.Assembler); err != nil {
			done()
			return benchmark.Summary{}, err
		}
	}
	done()
	if err := worker.SetTarget(g.Targets[0], g.WavefrontSize); err != nil {
		return benchmark.Summary{}, err
	}

	f := filter.New(reg, a.logger, g.PrintRejections)
	sess := benchmark.Session{
		Worker:     worker,
		Enumerator: enumerate.New(f, a.customKernels, a.logger),
		Tools:      tools,
		OutputDir:  opts.OutputDir,
	}

	done = a.timed("benchmark")
	defer done()
	return a.benchmarks.Run(ctx, cfg, sess)
}

func (a *App) resolveTools(g domain.GlobalParams) (benchmark.Tools, error) {
	var tools benchmark.Tools
	var err error
	if tools.Assembler, err = a.locate(g.AssemblerPath, DefaultAssembler, AssemblerDir); err != nil {
		return tools, err
	}
	if tools.Client, err = a.locate(g.ClientPath, DefaultClient, ToolDir); err != nil {
		return tools, err
	}
	if tools.Writer, err = a.locate(g.KernelWriterPath, DefaultKernelWriter, ToolDir); err != nil {
		return tools, err
	}
	return tools, nil
}

func (a *App) locate(configured, fallback, dir string) (string, error) {
	name := configured
	if name == "" {
		name = fallback
	}
	path, err := a.runner.Locate(name, dir)
	if err != nil {
		return "", zerr.With(err, "tool", name)
	}
	a.logger.Debug(fmt.Sprintf("using %s", path))
	return path, nil
}

// ValidateOptions select the checks of a validation pass.
type ValidateOptions struct {
	CheckMatrixInstruction bool
	Jobs                   int
	Assembler              string
}

// Validate re-checks the stored solutions below logicPath. It returns ok=false when no
// check was requested.
func (a *App) Validate(ctx context.Context, logicPath string, opts ValidateOptions) (res validation.Result, ok bool, err error) {
	if !opts.CheckMatrixInstruction {
		return validation.Result{}, false, nil
	}

	asm, err := a.locate(opts.Assembler, DefaultAssembler, AssemblerDir)
	if err != nil {
		return validation.Result{}, true, err
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = validation.DefaultJobs
	}

	done := a.timed("validate")
	defer done()
	res, err = a.validator.Run(ctx, capability.NewRegistry(a.builder), logicPath, asm, jobs)
	return res, true, err
}

// Capabilities builds the capability set of the named target.
func (a *App) Capabilities(ctx context.Context, gfx, assembler string) (*domain.CapabilitySet, error) {
	target, err := domain.ParseGfx(gfx)
	if err != nil {
		return nil, err
	}
	asm, err := a.locate(assembler, DefaultAssembler, AssemblerDir)
	if err != nil {
		return nil, err
	}

	done := a.timed("probe " + target.Gfx())
	defer done()
	return a.builder.Build(ctx, target, asm)
}

func (a *App) setLevel(level domain.LogLevel) {
	if l, ok := a.logger.(interface{ SetLevel(domain.LogLevel) }); ok {
		l.SetLevel(level)
	}
}
