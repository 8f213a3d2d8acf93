// Package benchmark drives the benchmark steps of a configuration: it reuses or
// regenerates each step's solutions, runs the external client and collects the
// final data of every size group.
package benchmark

import (
	"context"
	"fmt"
	"iter"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.trai.ch/kerntune/internal/core/domain"
	"go.trai.ch/kerntune/internal/core/ports"
	"go.trai.ch/kerntune/internal/engine/enumerate"
	"go.trai.ch/kerntune/internal/engine/filter"
	"go.trai.ch/zerr"
)

// Output layout below the run's output directory.
const (
	ProblemsDir = "1_BenchmarkProblems"
	DataDir     = "2_BenchmarkData"

	cacheFile         = "cache.yaml"
	sourceDir         = "source"
	stepDataDir       = "Data"
	csvWinnerSuffix   = "_CSVWinner"
	granularitySuffix = "_Granularity.csv"
	customKernelExt   = ".s"
)

// StepEnumerator produces the accepted solutions of one benchmark step.
type StepEnumerator interface {
	Forked(
		w filter.Bound,
		pt domain.ProblemType,
		constants map[string]any,
		perms iter.Seq[domain.ParamAssignment],
	) []domain.Solution
	Custom(
		w filter.Bound,
		pt domain.ProblemType,
		dir string,
		names []string,
		internalSupportParams map[string]any,
		failOnMismatch bool,
	) ([]domain.Solution, error)
}

// Tools are the resolved external executables of a run.
type Tools struct {
	Assembler string
	Client    string
	Writer    string
}

// Session carries the collaborators of one run that depend on its configuration.
type Session struct {
	Worker     filter.Bound
	Enumerator StepEnumerator
	Tools      Tools
	OutputDir  string
}

// Summary reports the outcome of a run.
type Summary struct {
	RunID  string
	Fails  int
	Groups int
	Steps  map[string]domain.StepStatus
}

// Orchestrator runs the benchmark steps of a configuration.
type Orchestrator struct {
	caches    ports.StepCacheStore
	fs        ports.FileSystem
	library   ports.Library
	generator ports.KernelGenerator
	client    ports.BenchmarkClient
	lock      ports.ClientLock
	telemetry ports.Telemetry
	logger    ports.Logger

	mu         sync.RWMutex
	stepStatus map[string]domain.StepStatus
}

// New creates an Orchestrator.
func New(
	caches ports.StepCacheStore,
	fs ports.FileSystem,
	library ports.Library,
	generator ports.KernelGenerator,
	client ports.BenchmarkClient,
	lock ports.ClientLock,
	telemetry ports.Telemetry,
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		caches:     caches,
		fs:         fs,
		library:    library,
		generator:  generator,
		client:     client,
		lock:       lock,
		telemetry:  telemetry,
		logger:     logger,
		stepStatus: make(map[string]domain.StepStatus),
	}
}

func stepKey(group, step string) string {
	return group + "/" + step
}

func (o *Orchestrator) updateStatus(key string, status domain.StepStatus) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stepStatus[key] = status
}

// Status returns the status of a step, keyed by group and step short name.
func (o *Orchestrator) Status(group, step string) domain.StepStatus {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if s, ok := o.stepStatus[stepKey(group, step)]; ok {
		return s
	}
	return domain.StepStatusPending
}

func (o *Orchestrator) snapshot() map[string]domain.StepStatus {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make(map[string]domain.StepStatus, len(o.stepStatus))
	for k, v := range o.stepStatus {
		out[k] = v
	}
	return out
}

func (o *Orchestrator) initStatuses(cfg *domain.BenchmarkConfig) {
	o.mu.Lock()
	defer o.mu.Unlock()
	clear(o.stepStatus)
	for _, p := range cfg.Problems {
		for _, g := range p.Groups {
			for _, s := range g.Steps {
				o.stepStatus[stepKey(p.GroupName(g), s.Name)] = domain.StepStatusPending
			}
		}
	}
}

// Run benchmarks every size group of cfg.
//
// A group whose final data already exists in the data directory is skipped unless
// ForceRedo is set. Client failures are counted; the run fails with
// ErrBenchmarkFailures only when ExitOnFails is set. Configuration errors such as
// a step without valid solutions abort the run immediately.
func (o *Orchestrator) Run(ctx context.Context, cfg *domain.BenchmarkConfig, sess Session) (Summary, error) {
	state := &runState{
		Orchestrator: o,
		cfg:          cfg,
		sess:         sess,
		runID:        uuid.NewString(),
	}
	o.initStatuses(cfg)
	o.logger.Info(fmt.Sprintf("benchmark run %s: %d problem types", state.runID, len(cfg.Problems)))

	dataDir := filepath.Join(sess.OutputDir, DataDir)
	if err := o.fs.EnsureDir(dataDir); err != nil {
		return state.summary(), zerr.With(zerr.Wrap(err, "failed to create data directory"), "path", dataDir)
	}

	suffix := ""
	if cfg.Global.CSVExportWinner {
		suffix = csvWinnerSuffix
	}

	for _, problem := range cfg.Problems {
		for _, group := range problem.Groups {
			if err := ctx.Err(); err != nil {
				return state.summary(), err
			}
			if err := state.runGroup(ctx, problem, group, dataDir, suffix); err != nil {
				return state.summary(), err
			}
		}
	}

	if state.fails > 0 && cfg.Global.ExitOnFails {
		return state.summary(), zerr.With(zerr.Wrap(domain.ErrBenchmarkFailures, "benchmark run failed"), "fails", state.fails)
	}
	return state.summary(), nil
}

type runState struct {
	*Orchestrator
	cfg    *domain.BenchmarkConfig
	sess   Session
	runID  string
	fails  int
	groups int
}

func (s *runState) summary() Summary {
	return Summary{
		RunID:  s.runID,
		Fails:  s.fails,
		Groups: s.groups,
		Steps:  s.snapshot(),
	}
}

func (s *runState) runGroup(
	ctx context.Context,
	problem domain.BenchmarkProblem,
	group domain.SizeGroup,
	dataDir, suffix string,
) error {
	name := problem.GroupName(group)
	base := filepath.Join(dataDir, name+suffix)

	done, err := s.fs.Exists(base + ".csv")
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to check group results"), "group", name)
	}
	if done && !s.cfg.Global.ForceRedo {
		s.logger.Info(fmt.Sprintf("%s already benchmarked; skipping", name))
		for _, st := range group.Steps {
			s.updateStatus(stepKey(name, st.Name), domain.StepStatusSkipped)
		}
		return nil
	}

	groupDir := filepath.Join(s.sess.OutputDir, ProblemsDir, name)
	if err := s.fs.EnsureDir(filepath.Join(groupDir, stepDataDir)); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create group directory"), "group", name)
	}
	s.logger.Info(fmt.Sprintf("group %s: %d benchmark steps", name, len(group.Steps)))

	var final string
	for _, step := range group.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		resultsBase, err := s.runStep(ctx, problem.ProblemType, name, groupDir, step)
		if err != nil {
			return err
		}
		if step.Final {
			final = resultsBase
		}
	}
	s.groups++

	verdict := "(PASS)"
	if s.fails > 0 {
		verdict = "(ERROR)"
	}
	s.logger.Info(fmt.Sprintf("clientExit=%d %s for %s", s.fails, verdict, s.cfg.Path))

	return s.collect(name, final, base)
}

// collect copies the final step's data into the data directory.
func (s *runState) collect(group, final, base string) error {
	if final == "" {
		return nil
	}
	ok, err := s.fs.Exists(final + ".csv")
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to check final results"), "group", group)
	}
	if !ok {
		s.logger.Warn(fmt.Sprintf("no final results for %s; nothing to collect", group))
		return nil
	}

	copies := [][2]string{
		{final + ".csv", base + ".csv"},
		{final + ".yaml", base + ".yaml"},
	}
	if ok, _ := s.fs.Exists(final + granularitySuffix); ok {
		copies = append(copies, [2]string{final + granularitySuffix, base + ".gsp"})
	}
	for _, c := range copies {
		if err := s.fs.Copy(c[0], c[1]); err != nil {
			return zerr.With(zerr.With(zerr.Wrap(err, "failed to copy group data"), "src", c[0]), "dst", c[1])
		}
	}
	return nil
}

// runStep executes one step and returns the base path (without extension) of its results.
func (s *runState) runStep(
	ctx context.Context,
	pt domain.ProblemType,
	group, groupDir string,
	step domain.BenchmarkStep,
) (string, error) {
	key := stepKey(group, step.Name)
	s.updateStatus(key, domain.StepStatusRunning)

	ctx, vtx := s.telemetry.Record(ctx, key)
	status, err := s.executeStep(ctx, pt, group, groupDir, step, vtx)
	s.updateStatus(key, status)

	switch {
	case err != nil:
		vtx.Complete(err)
		return "", err
	case status == domain.StepStatusFailed:
		vtx.Complete(zerr.With(zerr.New("benchmark client failed"), "step", key))
	case status == domain.StepStatusSkipped:
		vtx.Cached()
		vtx.Complete(nil)
	default:
		vtx.Complete(nil)
	}
	return filepath.Join(groupDir, stepDataDir, step.Name), nil
}

func (s *runState) executeStep(
	ctx context.Context,
	pt domain.ProblemType,
	group, groupDir string,
	step domain.BenchmarkStep,
	vtx ports.Vertex,
) (domain.StepStatus, error) {
	stepDir := filepath.Join(groupDir, step.Name)
	srcDir := filepath.Join(stepDir, sourceDir)
	resultsBase := filepath.Join(groupDir, stepDataDir, step.Name)
	resultsFile := resultsBase + ".csv"
	cachePath := filepath.Join(stepDir, cacheFile)

	s.logger.Info(fmt.Sprintf("benchmark step %s - %s", group, step.Name))
	if err := s.fs.EnsureDir(srcDir); err != nil {
		return domain.StepStatusFailed, zerr.With(zerr.Wrap(err, "failed to create step directory"), "path", srcDir)
	}

	codeObjects, solutions, cached, err := s.prepare(ctx, pt, step, stepDir, srcDir, cachePath)
	if err != nil {
		return domain.StepStatusFailed, zerr.With(zerr.With(err, "group", group), "step", step.Name)
	}

	req := ports.ClientRequest{
		ClientPath:      s.sess.Tools.Client,
		AssemblerPath:   s.sess.Tools.Assembler,
		StepDir:         stepDir,
		SourceDir:       srcDir,
		ResultsFile:     resultsFile,
		CodeObjectFiles: codeObjects,
		ProblemType:     pt,
		Args:            step.Args,
		Stdout:          vtx.Stdout(),
		Stderr:          vtx.Stderr(),
	}
	if _, err := s.client.WriteParameters(req); err != nil {
		return domain.StepStatusFailed, zerr.With(zerr.Wrap(err, "failed to write client parameters"), "step", step.Name)
	}

	if err := s.library.WriteSolutions(resultsBase+".yaml", step.Args, solutions); err != nil {
		return domain.StepStatusFailed, zerr.With(zerr.Wrap(err, "failed to write solutions"), "step", step.Name)
	}

	exists, err := s.fs.Exists(resultsFile)
	if err != nil {
		return domain.StepStatusFailed, zerr.With(zerr.Wrap(err, "failed to check step results"), "path", resultsFile)
	}
	if exists && !s.cfg.Global.ForceRedo {
		s.logger.Info(fmt.Sprintf("%s already benchmarked; skipping", step.Name))
		return domain.StepStatusSkipped, nil
	}

	code, err := s.runClient(ctx, req)
	if err != nil {
		return domain.StepStatusFailed, err
	}
	if code != 0 {
		s.fails++
		s.logger.Warn(fmt.Sprintf("benchmark client exited with code %d for %s/%s", code, group, step.Name))
		vtx.Log(domain.LogLevelError, fmt.Sprintf("client exit code %d", code))
		return domain.StepStatusFailed, nil
	}

	if cached {
		return domain.StepStatusCached, nil
	}
	return domain.StepStatusComputed, nil
}

// prepare returns the step's code objects and, when they were regenerated, its solutions.
// solutions is nil when the step cache matched.
func (s *runState) prepare(
	ctx context.Context,
	pt domain.ProblemType,
	step domain.BenchmarkStep,
	stepDir, srcDir, cachePath string,
) (codeObjects []string, solutions []domain.Solution, cached bool, err error) {
	key := step.CacheKey()

	if s.cfg.Global.UseCache {
		c, err := s.caches.Load(cachePath)
		switch {
		case err != nil:
			s.logger.Warn(fmt.Sprintf("ignoring unreadable step cache %s: %v", cachePath, err))
		case c != nil && c.StepCacheKey.Equal(key):
			s.logger.Info("using cached solution data")
			return c.CodeObjectFiles, nil, true, nil
		case c != nil:
			s.logger.Warn("cache data does not match config: redoing solution generation")
		}
	}

	solutions, err = s.enumerate(pt, step)
	if err != nil {
		return nil, nil, false, err
	}

	keys := domain.MinNamingKeys(solutions)
	for i, sol := range solutions {
		sol[domain.KeySolutionIndex] = i
		sol[domain.KeySolutionNameMin] = sol.MinName(keys)
		sol[domain.KeyKernelNameMin] = sol.MinName(keys)
	}

	codeObjects, err = s.generator.Generate(ctx, ports.GenerateRequest{
		WriterPath:    s.sess.Tools.Writer,
		AssemblerPath: s.sess.Tools.Assembler,
		StepName:      step.Name,
		StepDir:       stepDir,
		SourceDir:     srcDir,
		ProblemType:   pt,
		Solutions:     solutions,
		Args:          step.Args,
	})
	if err != nil {
		return nil, nil, false, zerr.Wrap(err, "failed to generate benchmark kernels")
	}

	if err := s.caches.Save(cachePath, domain.StepCache{StepCacheKey: key, CodeObjectFiles: codeObjects}); err != nil {
		return nil, nil, false, zerr.With(zerr.Wrap(err, "failed to save step cache"), "path", cachePath)
	}

	return codeObjects, solutions, false, nil
}

func (s *runState) enumerate(pt domain.ProblemType, step domain.BenchmarkStep) ([]domain.Solution, error) {
	perms := enumerate.Permutations(step.ForkParams, step.ParamGroups)
	forked := s.sess.Enumerator.Forked(s.sess.Worker, pt, step.ConstantParams, perms)

	dir := s.cfg.Global.CustomKernelDir
	names, err := s.customKernelNames(dir, step)
	if err != nil {
		return nil, err
	}
	custom, err := s.sess.Enumerator.Custom(
		s.sess.Worker, pt, dir, names, step.InternalSupportParams, !step.CustomKernelWildcard,
	)
	if err != nil {
		return nil, err
	}

	possible := enumerate.Count(step.ForkParams, step.ParamGroups) + len(names)
	solutions := slices.Concat(forked, custom)
	s.logger.Info(fmt.Sprintf("actual solutions: %d / %d", len(solutions), possible))

	if len(solutions) == 0 {
		hint := `re-run with "PrintSolutionRejectionReason: True" to see why each parameter combination was rejected`
		if s.cfg.Global.PrintRejections {
			hint = "examine the reject messages above to see why solutions were rejected"
		}
		return nil, zerr.Wrap(domain.ErrNoValidSolutions, hint)
	}
	for _, sol := range solutions {
		s.logger.Debug(sol.Name())
	}
	return solutions, nil
}

// customKernelNames expands the wildcard over every assembly file in dir, after the
// explicitly listed kernels.
func (s *runState) customKernelNames(dir string, step domain.BenchmarkStep) ([]string, error) {
	names := slices.Clone(step.CustomKernels)
	if !step.CustomKernelWildcard || dir == "" {
		return names, nil
	}
	files, err := s.fs.Glob(dir, "*"+customKernelExt)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to list custom kernels"), "dir", dir)
	}
	for _, f := range files {
		n := strings.TrimSuffix(path.Base(filepath.ToSlash(f)), customKernelExt)
		if !slices.Contains(names, n) {
			names = append(names, n)
		}
	}
	return names, nil
}

func (s *runState) runClient(ctx context.Context, req ports.ClientRequest) (int, error) {
	release, err := s.lock.Acquire(ctx, s.cfg.Global.ClientLockPath)
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to acquire client lock"), "path", s.cfg.Global.ClientLockPath)
	}
	defer func() {
		if err := release(); err != nil {
			s.logger.Warn(fmt.Sprintf("failed to release client lock: %v", err))
		}
	}()

	code, err := s.client.Run(ctx, req)
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to start benchmark client"), "client", req.ClientPath)
	}
	return code, nil
}
