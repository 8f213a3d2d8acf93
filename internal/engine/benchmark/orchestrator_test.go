package benchmark_test

import (
	"context"
	"io"
	"iter"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kerntune/internal/core/domain"
	"go.trai.ch/kerntune/internal/core/ports"
	"go.trai.ch/kerntune/internal/core/ports/mocks"
	"go.trai.ch/kerntune/internal/engine/benchmark"
	"go.trai.ch/kerntune/internal/engine/filter"
	"go.uber.org/mock/gomock"
)

const (
	out       = "/out"
	group     = "Cijk_test_00"
	finalStep = "00_Final"
)

var (
	groupDir    = filepath.Join(out, benchmark.ProblemsDir, group)
	stepDir     = filepath.Join(groupDir, finalStep)
	cachePath   = filepath.Join(stepDir, "cache.yaml")
	stepResults = filepath.Join(groupDir, "Data", finalStep)
	dataBase    = filepath.Join(out, benchmark.DataDir, group)
)

// memFS is an in-memory ports.FileSystem.
type memFS struct {
	mu     sync.Mutex
	files  map[string]bool
	copies map[string]string
	globs  map[string][]string
}

func newMemFS(files ...string) *memFS {
	m := &memFS{files: map[string]bool{}, copies: map[string]string{}, globs: map[string][]string{}}
	for _, f := range files {
		m.files[f] = true
	}
	return m
}

func (m *memFS) touch(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = true
}

func (m *memFS) Exists(path string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.files[path], nil
}

func (m *memFS) EnsureDir(string) error { return nil }

func (m *memFS) Copy(src, dst string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.copies[dst] = src
	m.files[dst] = true
	return nil
}

func (m *memFS) Glob(root, _ string) ([]string, error) {
	return m.globs[root], nil
}

type stubEnumerator struct {
	forked      []domain.Solution
	custom      []domain.Solution
	customNames []string
	strict      bool
	calls       int
}

func (s *stubEnumerator) Forked(
	_ filter.Bound,
	_ domain.ProblemType,
	_ map[string]any,
	perms iter.Seq[domain.ParamAssignment],
) []domain.Solution {
	s.calls++
	for range perms {
	}
	return s.forked
}

func (s *stubEnumerator) Custom(
	_ filter.Bound,
	_ domain.ProblemType,
	_ string,
	names []string,
	_ map[string]any,
	failOnMismatch bool,
) ([]domain.Solution, error) {
	s.customNames = names
	s.strict = failOnMismatch
	return s.custom, nil
}

type harness struct {
	ctrl      *gomock.Controller
	fs        *memFS
	caches    *mocks.MockStepCacheStore
	library   *mocks.MockLibrary
	generator *mocks.MockKernelGenerator
	client    *mocks.MockBenchmarkClient
	lock      *mocks.MockClientLock
	enum      *stubEnumerator
	orch      *benchmark.Orchestrator
}

func newHarness(t *testing.T, fs *memFS) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)

	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Debug(gomock.Any()).AnyTimes()
	logger.EXPECT().Info(gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()

	vtx := mocks.NewMockVertex(ctrl)
	vtx.EXPECT().Stdout().Return(io.Discard).AnyTimes()
	vtx.EXPECT().Stderr().Return(io.Discard).AnyTimes()
	vtx.EXPECT().Log(gomock.Any(), gomock.Any()).AnyTimes()
	vtx.EXPECT().Cached().AnyTimes()
	vtx.EXPECT().Complete(gomock.Any()).AnyTimes()

	tel := mocks.NewMockTelemetry(ctrl)
	tel.EXPECT().Record(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string) (context.Context, ports.Vertex) {
			return ctx, vtx
		}).AnyTimes()

	h := &harness{
		ctrl:      ctrl,
		fs:        fs,
		caches:    mocks.NewMockStepCacheStore(ctrl),
		library:   mocks.NewMockLibrary(ctrl),
		generator: mocks.NewMockKernelGenerator(ctrl),
		client:    mocks.NewMockBenchmarkClient(ctrl),
		lock:      mocks.NewMockClientLock(ctrl),
		enum: &stubEnumerator{
			forked: []domain.Solution{
				domain.NewSolution(map[string]any{"DepthU": 16}),
				domain.NewSolution(map[string]any{"DepthU": 32}),
			},
		},
	}
	h.orch = benchmark.New(h.caches, fs, h.library, h.generator, h.client, h.lock, tel, logger)
	return h
}

func (h *harness) session() benchmark.Session {
	return benchmark.Session{
		Enumerator: h.enum,
		Tools:      benchmark.Tools{Assembler: "/bin/clang", Client: "/bin/client", Writer: "/bin/writer"},
		OutputDir:  out,
	}
}

func (h *harness) expectClient(code int) {
	h.client.EXPECT().WriteParameters(gomock.Any()).
		DoAndReturn(func(req ports.ClientRequest) (string, error) {
			return filepath.Join(req.SourceDir, "ClientParameters.ini"), nil
		})
	h.lock.EXPECT().Acquire(gomock.Any(), "").Return(func() error { return nil }, nil)
	h.client.EXPECT().Run(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req ports.ClientRequest) (int, error) {
			if code == 0 {
				h.fs.touch(req.ResultsFile)
			}
			return code, nil
		})
}

func step() domain.BenchmarkStep {
	return domain.BenchmarkStep{
		Index: 0,
		Name:  finalStep,
		Final: true,
		ConstantParams: map[string]any{
			"MatrixInstruction": []any{16, 16, 16, 1},
		},
		ForkParams: []domain.ForkParam{{Name: "DepthU", Values: []any{16, 32}}},
	}
}

func config() *domain.BenchmarkConfig {
	return &domain.BenchmarkConfig{
		Path:   "tune.yaml",
		Global: domain.GlobalParams{UseCache: true, ExitOnFails: true},
		Problems: []domain.BenchmarkProblem{{
			ProblemType: domain.NewProblemType(map[string]any{"Name": "Cijk_test", "DataType": "h"}),
			Groups:      []domain.SizeGroup{{Index: 0, Steps: []domain.BenchmarkStep{step()}}},
		}},
	}
}

func TestOrchestrator_RunComputesStep(t *testing.T) {
	h := newHarness(t, newMemFS())

	h.caches.EXPECT().Load(cachePath).Return(nil, nil)
	h.generator.EXPECT().Generate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req ports.GenerateRequest) ([]string, error) {
			assert.Equal(t, finalStep, req.StepName)
			assert.Len(t, req.Solutions, 2)
			return []string{"kernels.co"}, nil
		})
	h.caches.EXPECT().Save(cachePath, gomock.Any()).
		DoAndReturn(func(_ string, c domain.StepCache) error {
			assert.Equal(t, []string{"kernels.co"}, c.CodeObjectFiles)
			assert.True(t, c.StepCacheKey.Equal(step().CacheKey()))
			return nil
		})
	h.library.EXPECT().WriteSolutions(stepResults+".yaml", gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ string, _ domain.BenchmarkArgs, sols []domain.Solution) error {
			require.Len(t, sols, 2)
			for i, s := range sols {
				assert.Equal(t, i, s.Index())
				assert.NotEmpty(t, s[domain.KeySolutionNameMin])
			}
			assert.NotEqual(t, sols[0][domain.KeySolutionNameMin], sols[1][domain.KeySolutionNameMin])
			return nil
		})
	h.expectClient(0)

	sum, err := h.orch.Run(t.Context(), config(), h.session())
	require.NoError(t, err)

	assert.NotEmpty(t, sum.RunID)
	assert.Equal(t, 0, sum.Fails)
	assert.Equal(t, 1, sum.Groups)
	assert.Equal(t, domain.StepStatusComputed, h.orch.Status(group, finalStep))
	assert.Equal(t, stepResults+".csv", h.fs.copies[dataBase+".csv"])
	assert.Equal(t, stepResults+".yaml", h.fs.copies[dataBase+".yaml"])
	assert.NotContains(t, h.fs.copies, dataBase+".gsp")
	assert.True(t, h.enum.strict)
}

func TestOrchestrator_RunReusesMatchingCache(t *testing.T) {
	h := newHarness(t, newMemFS())

	h.caches.EXPECT().Load(cachePath).Return(&domain.StepCache{
		StepCacheKey:    step().CacheKey(),
		CodeObjectFiles: []string{"cached.co"},
	}, nil)
	h.library.EXPECT().WriteSolutions(stepResults+".yaml", gomock.Any(), gomock.Nil()).Return(nil)
	h.client.EXPECT().WriteParameters(gomock.Any()).
		DoAndReturn(func(req ports.ClientRequest) (string, error) {
			assert.Equal(t, []string{"cached.co"}, req.CodeObjectFiles)
			return "", nil
		})
	h.lock.EXPECT().Acquire(gomock.Any(), "").Return(func() error { return nil }, nil)
	h.client.EXPECT().Run(gomock.Any(), gomock.Any()).Return(0, nil)

	_, err := h.orch.Run(t.Context(), config(), h.session())
	require.NoError(t, err)

	assert.Zero(t, h.enum.calls)
	assert.Equal(t, domain.StepStatusCached, h.orch.Status(group, finalStep))
}

func TestOrchestrator_RunRegeneratesOnCacheMismatch(t *testing.T) {
	h := newHarness(t, newMemFS())

	stale := step()
	stale.InternalSupportParams = map[string]any{"KernArgsVersion": 1}
	h.caches.EXPECT().Load(cachePath).Return(&domain.StepCache{StepCacheKey: stale.CacheKey()}, nil)
	h.generator.EXPECT().Generate(gomock.Any(), gomock.Any()).Return([]string{"fresh.co"}, nil)
	h.caches.EXPECT().Save(cachePath, gomock.Any()).Return(nil)
	h.library.EXPECT().WriteSolutions(gomock.Any(), gomock.Any(), gomock.Not(gomock.Nil())).Return(nil)
	h.expectClient(0)

	_, err := h.orch.Run(t.Context(), config(), h.session())
	require.NoError(t, err)

	assert.Equal(t, 1, h.enum.calls)
	assert.Equal(t, domain.StepStatusComputed, h.orch.Status(group, finalStep))
}

func TestOrchestrator_RunIgnoresCacheWhenDisabled(t *testing.T) {
	h := newHarness(t, newMemFS())
	cfg := config()
	cfg.Global.UseCache = false

	h.generator.EXPECT().Generate(gomock.Any(), gomock.Any()).Return([]string{"fresh.co"}, nil)
	h.caches.EXPECT().Save(cachePath, gomock.Any()).Return(nil)
	h.library.EXPECT().WriteSolutions(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	h.expectClient(0)

	_, err := h.orch.Run(t.Context(), cfg, h.session())
	require.NoError(t, err)
}

func TestOrchestrator_RunSkipsBenchmarkedGroup(t *testing.T) {
	h := newHarness(t, newMemFS(dataBase+".csv"))

	sum, err := h.orch.Run(t.Context(), config(), h.session())
	require.NoError(t, err)

	assert.Zero(t, sum.Groups)
	assert.Equal(t, domain.StepStatusSkipped, h.orch.Status(group, finalStep))
}

func TestOrchestrator_RunCSVWinnerSuffix(t *testing.T) {
	h := newHarness(t, newMemFS(dataBase+".csv", stepResults+"_Granularity.csv"))
	cfg := config()
	cfg.Global.CSVExportWinner = true

	h.caches.EXPECT().Load(cachePath).Return(nil, nil)
	h.generator.EXPECT().Generate(gomock.Any(), gomock.Any()).Return(nil, nil)
	h.caches.EXPECT().Save(cachePath, gomock.Any()).Return(nil)
	h.library.EXPECT().WriteSolutions(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	h.expectClient(0)

	_, err := h.orch.Run(t.Context(), cfg, h.session())
	require.NoError(t, err)

	winner := dataBase + "_CSVWinner"
	assert.Equal(t, stepResults+".csv", h.fs.copies[winner+".csv"])
	assert.Equal(t, stepResults+"_Granularity.csv", h.fs.copies[winner+".gsp"])
}

func TestOrchestrator_RunSkipsBenchmarkedStep(t *testing.T) {
	h := newHarness(t, newMemFS(stepResults+".csv"))

	h.caches.EXPECT().Load(cachePath).Return(&domain.StepCache{StepCacheKey: step().CacheKey()}, nil)
	h.library.EXPECT().WriteSolutions(gomock.Any(), gomock.Any(), gomock.Nil()).Return(nil)
	h.client.EXPECT().WriteParameters(gomock.Any()).Return("", nil)

	_, err := h.orch.Run(t.Context(), config(), h.session())
	require.NoError(t, err)

	assert.Equal(t, domain.StepStatusSkipped, h.orch.Status(group, finalStep))
	assert.Equal(t, stepResults+".csv", h.fs.copies[dataBase+".csv"])
}

func TestOrchestrator_RunClientFailure(t *testing.T) {
	tests := []struct {
		name        string
		exitOnFails bool
		wantErr     bool
	}{
		{name: "exit on fails", exitOnFails: true, wantErr: true},
		{name: "tolerated", exitOnFails: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, newMemFS())
			cfg := config()
			cfg.Global.ExitOnFails = tt.exitOnFails

			h.caches.EXPECT().Load(cachePath).Return(nil, nil)
			h.generator.EXPECT().Generate(gomock.Any(), gomock.Any()).Return(nil, nil)
			h.caches.EXPECT().Save(cachePath, gomock.Any()).Return(nil)
			h.library.EXPECT().WriteSolutions(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			h.expectClient(3)

			sum, err := h.orch.Run(t.Context(), cfg, h.session())
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrBenchmarkFailures)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, 1, sum.Fails)
			assert.Equal(t, domain.StepStatusFailed, h.orch.Status(group, finalStep))
			assert.Empty(t, h.fs.copies)
		})
	}
}

func TestOrchestrator_RunContinuesAfterClientFailure(t *testing.T) {
	forkStep := domain.StepName(0, false)
	lastStep := domain.StepName(1, true)

	tests := []struct {
		name      string
		codes     map[string]int
		wantFails int
		want      map[string]domain.StepStatus
	}{
		{
			name:      "first step fails",
			codes:     map[string]int{forkStep: 3, lastStep: 0},
			wantFails: 1,
			want: map[string]domain.StepStatus{
				forkStep: domain.StepStatusFailed,
				lastStep: domain.StepStatusComputed,
			},
		},
		{
			name:      "every step fails",
			codes:     map[string]int{forkStep: 3, lastStep: 1},
			wantFails: 2,
			want: map[string]domain.StepStatus{
				forkStep: domain.StepStatusFailed,
				lastStep: domain.StepStatusFailed,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, newMemFS())

			first := step()
			first.Index, first.Name, first.Final = 0, forkStep, false
			last := step()
			last.Index, last.Name = 1, lastStep

			cfg := config()
			cfg.Global.ExitOnFails = false
			cfg.Problems[0].Groups[0].Steps = []domain.BenchmarkStep{first, last}

			h.caches.EXPECT().Load(gomock.Any()).Return(nil, nil).Times(2)
			h.generator.EXPECT().Generate(gomock.Any(), gomock.Any()).Return(nil, nil).Times(2)
			h.caches.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).Times(2)
			h.library.EXPECT().WriteSolutions(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)
			h.client.EXPECT().WriteParameters(gomock.Any()).Return("", nil).Times(2)
			h.lock.EXPECT().Acquire(gomock.Any(), "").Return(func() error { return nil }, nil).Times(2)

			var ran []string
			h.client.EXPECT().Run(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, req ports.ClientRequest) (int, error) {
					name := filepath.Base(req.StepDir)
					ran = append(ran, name)
					code := tt.codes[name]
					if code == 0 {
						h.fs.touch(req.ResultsFile)
					}
					return code, nil
				}).
				Times(2)

			sum, err := h.orch.Run(t.Context(), cfg, h.session())
			require.NoError(t, err)

			assert.Equal(t, []string{forkStep, lastStep}, ran)
			assert.Equal(t, tt.wantFails, sum.Fails)
			assert.Equal(t, 1, sum.Groups)
			for name, status := range tt.want {
				assert.Equal(t, status, h.orch.Status(group, name), name)
			}
		})
	}
}

func TestOrchestrator_RunNoValidSolutions(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		hint    string
	}{
		{name: "quiet", hint: "PrintSolutionRejectionReason: True"},
		{name: "verbose", verbose: true, hint: "reject messages above"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, newMemFS())
			h.enum.forked = nil
			cfg := config()
			cfg.Global.PrintRejections = tt.verbose

			h.caches.EXPECT().Load(cachePath).Return(nil, nil)

			_, err := h.orch.Run(t.Context(), cfg, h.session())
			require.ErrorIs(t, err, domain.ErrNoValidSolutions)
			assert.Contains(t, err.Error(), tt.hint)
			assert.Equal(t, domain.StepStatusFailed, h.orch.Status(group, finalStep))
		})
	}
}

func TestOrchestrator_RunExpandsCustomKernelWildcard(t *testing.T) {
	fs := newMemFS()
	fs.globs["/kernels"] = []string{"/kernels/b.s", "/kernels/a.s"}
	h := newHarness(t, fs)

	cfg := config()
	cfg.Global.CustomKernelDir = "/kernels"
	st := step()
	st.CustomKernels = []string{"a"}
	st.CustomKernelWildcard = true
	cfg.Problems[0].Groups[0].Steps = []domain.BenchmarkStep{st}

	h.caches.EXPECT().Load(cachePath).Return(nil, nil)
	h.generator.EXPECT().Generate(gomock.Any(), gomock.Any()).Return(nil, nil)
	h.caches.EXPECT().Save(cachePath, gomock.Any()).Return(nil)
	h.library.EXPECT().WriteSolutions(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	h.expectClient(0)

	_, err := h.orch.Run(t.Context(), cfg, h.session())
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, h.enum.customNames)
	assert.False(t, h.enum.strict)
}

func TestOrchestrator_RunCanceled(t *testing.T) {
	h := newHarness(t, newMemFS())
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := h.orch.Run(ctx, config(), h.session())
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, domain.StepStatusPending, h.orch.Status(group, finalStep))
}
