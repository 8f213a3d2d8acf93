package validation_test

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"testing/synctest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kerntune/internal/core/domain"
	"go.trai.ch/kerntune/internal/core/ports"
	"go.trai.ch/kerntune/internal/core/ports/mocks"
	"go.trai.ch/kerntune/internal/engine/capability"
	"go.trai.ch/kerntune/internal/engine/validation"
	"go.trai.ch/kerntune/internal/engine/validator"
	"go.uber.org/mock/gomock"
)

var gfx90a = domain.Target{Major: 9, Minor: 0, Step: 10}

type staticBuilder struct {
	builds atomic.Int32
}

func (b *staticBuilder) Build(_ context.Context, target domain.Target, assembler string) (*domain.CapabilitySet, error) {
	b.builds.Add(1)
	return &domain.CapabilitySet{
		Target:        target,
		AssemblerPath: assembler,
		Asm:           domain.AsmCaps{SupportedISA: true, HasMFMA: target.Major == 9},
	}, nil
}

// listFS serves a fixed file listing.
type listFS struct {
	ports.FileSystem
	files []string
}

func (l listFS) Glob(string, string) ([]string, error) {
	return l.files, nil
}

func setup(t *testing.T, files ...string) (*mocks.MockLibrary, *mocks.MockLogger, *validation.Runner) {
	t.Helper()
	ctrl := gomock.NewController(t)

	lib := mocks.NewMockLibrary(ctrl)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()

	vtx := mocks.NewMockVertex(ctrl)
	vtx.EXPECT().Stdout().Return(io.Discard).AnyTimes()
	vtx.EXPECT().Log(gomock.Any(), gomock.Any()).AnyTimes()
	vtx.EXPECT().Complete(gomock.Any()).AnyTimes()

	tel := mocks.NewMockTelemetry(ctrl)
	tel.EXPECT().Record(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string) (context.Context, ports.Vertex) {
			return ctx, vtx
		}).AnyTimes()

	return lib, log, validation.NewRunner(lib, listFS{files: files}, tel, log)
}

func mfma() domain.Solution {
	sol := domain.NewSolution(map[string]any{
		domain.KeyProblemType: map[string]any{
			domain.KeyDataType:   "H",
			domain.KeyTransposeA: false,
			domain.KeyTransposeB: true,
		},
		domain.KeyMatrixInstruction: []int{32, 32, 8, 1, 1, 2, 2, 2, 2},
		domain.KeySolutionIndex:     0,
	})
	return validator.Fill(sol, &domain.CapabilitySet{Target: gfx90a}, 64)
}

func shortForm(index int, enabled bool) domain.Solution {
	return domain.NewSolution(map[string]any{
		domain.KeyMatrixInstruction: []int{32, 32, 8, 1},
		domain.KeyEnableMI:          enabled,
		domain.KeySolutionIndex:     index,
	})
}

func TestRunner_Run(t *testing.T) {
	lib, log, runner := setup(t,
		"/logic/a.yaml",
		"/logic/sub/b.yaml",
		"/logic/Experimental/c.yaml",
	)

	lib.EXPECT().ReadLogicSolutions("/logic/a.yaml").Return([]domain.Solution{mfma(), shortForm(1, true)}, nil)
	lib.EXPECT().ReadLogicSolutions("/logic/sub/b.yaml").Return([]domain.Solution{shortForm(3, false)}, nil)
	log.EXPECT().Warn("validation failed: sub/b.yaml (index 3)")
	log.EXPECT().Warn(gomock.Any())

	builder := &staticBuilder{}
	reg := capability.NewRegistry(builder)

	res, err := runner.Run(t.Context(), reg, "/logic", "clang", 4)
	require.ErrorIs(t, err, domain.ErrRejectedSolutions)

	assert.Equal(t, validation.Result{Files: 2, Keep: 2, Total: 3}, res)
	assert.Equal(t, 1, res.Rejected())
	assert.Equal(t, int32(1), builder.builds.Load())
	assert.Equal(t, []domain.Target{gfx90a}, reg.Targets())
	assert.Zero(t, reg.WorkerCount())
}

func TestRunner_RunAllValid(t *testing.T) {
	lib, _, runner := setup(t, "/logic/a.yaml")
	lib.EXPECT().ReadLogicSolutions("/logic/a.yaml").Return([]domain.Solution{shortForm(0, true)}, nil)

	res, err := runner.Run(t.Context(), capability.NewRegistry(&staticBuilder{}), "/logic", "clang", 0)
	require.NoError(t, err)
	assert.Equal(t, validation.Result{Files: 1, Keep: 1, Total: 1}, res)
}

func TestRunner_RunSkipsExperimental(t *testing.T) {
	_, _, runner := setup(t, "/logic/Experimental/x.yaml", "/logic/a/Experimental/y.yaml")

	res, err := runner.Run(t.Context(), capability.NewRegistry(&staticBuilder{}), "/logic", "clang", 2)
	require.NoError(t, err)
	assert.Equal(t, validation.Result{}, res)
}

func TestRunner_RunReadError(t *testing.T) {
	lib, _, runner := setup(t, "/logic/a.yaml", "/logic/b.yaml")
	boom := errors.New("boom")
	lib.EXPECT().ReadLogicSolutions("/logic/a.yaml").Return(nil, boom)
	lib.EXPECT().ReadLogicSolutions("/logic/b.yaml").Return([]domain.Solution{shortForm(0, true)}, nil)

	res, err := runner.Run(t.Context(), capability.NewRegistry(&staticBuilder{}), "/logic", "clang", 1)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, res.Keep)
}

func TestRunner_RunBoundsParallelism(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		files := []string{"/l/1.yaml", "/l/2.yaml", "/l/3.yaml", "/l/4.yaml", "/l/5.yaml"}
		lib, _, runner := setup(t, files...)

		var inflight, peak atomic.Int32
		release := make(chan struct{})
		lib.EXPECT().ReadLogicSolutions(gomock.Any()).
			DoAndReturn(func(string) ([]domain.Solution, error) {
				n := inflight.Add(1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				<-release
				inflight.Add(-1)
				return []domain.Solution{shortForm(0, true)}, nil
			}).Times(len(files))

		done := make(chan validation.Result)
		go func() {
			res, err := runner.Run(t.Context(), capability.NewRegistry(&staticBuilder{}), "/l", "clang", 2)
			assert.NoError(t, err)
			done <- res
		}()

		synctest.Wait()
		assert.Equal(t, int32(2), inflight.Load())

		close(release)
		res := <-done
		assert.Equal(t, 5, res.Total)
		assert.Equal(t, int32(2), peak.Load())
	})
}
