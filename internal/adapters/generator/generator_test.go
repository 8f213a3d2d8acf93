package generator_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kerntune/internal/adapters/generator"
	"go.trai.ch/kerntune/internal/core/domain"
	"go.trai.ch/kerntune/internal/core/ports"
	"go.trai.ch/kerntune/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func setup(t *testing.T) (*mocks.MockRunner, *generator.Generator, ports.GenerateRequest) {
	t.Helper()
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockRunner(ctrl)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()

	stepDir := t.TempDir()
	srcDir := filepath.Join(stepDir, "source")
	require.NoError(t, os.MkdirAll(srcDir, 0o750))

	req := ports.GenerateRequest{
		WriterPath:    "/opt/kerntune/bin/kernel-writer",
		AssemblerPath: "/opt/rocm/llvm/bin/clang",
		StepName:      "00_Final",
		StepDir:       stepDir,
		SourceDir:     srcDir,
		ProblemType:   domain.NewProblemType(map[string]any{domain.KeyDataType: "h"}),
		Solutions: []domain.Solution{
			domain.NewSolution(map[string]any{domain.KeySolutionIndex: 0}),
			domain.NewSolution(map[string]any{domain.KeySolutionIndex: 1}),
		},
		Args: domain.BenchmarkArgs{ProblemSizes: []any{map[string]any{"Exact": []any{64, 64, 1, 64}}}},
	}
	return runner, generator.New(runner, log), req
}

func writeManifest(t *testing.T, dir string, files ...string) {
	t.Helper()
	data, err := json.Marshal(generator.Manifest{CodeObjectFiles: files})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, generator.ManifestFile), data, 0o600))
}

func TestGenerator_Generate(t *testing.T) {
	runner, gen, req := setup(t)

	runner.EXPECT().Run(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmd ports.Command) (ports.Result, error) {
			assert.Equal(t, req.WriterPath, cmd.Path)
			assert.Equal(t, req.StepDir, cmd.Dir)
			assert.Contains(t, cmd.Args, req.SourceDir)
			assert.Contains(t, cmd.Args, req.AssemblerPath)
			assert.Nil(t, cmd.Stdout)

			data, err := os.ReadFile(filepath.Join(req.StepDir, generator.RequestFile))
			require.NoError(t, err)
			var doc generator.Request
			require.NoError(t, json.Unmarshal(data, &doc))
			assert.Equal(t, "00_Final", doc.StepName)
			assert.Len(t, doc.Solutions, 2)
			assert.Equal(t, "h", doc.ProblemType[domain.KeyDataType])
			assert.Len(t, doc.ProblemSizes, 1)

			writeManifest(t, req.SourceDir, "library/Kernels.so-000-gfx90a.hsaco", filepath.Join(req.SourceDir, "library", "TensileLibrary.co"))
			return ports.Result{}, nil
		})

	files, err := gen.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, []string{"library/Kernels.so-000-gfx90a.hsaco", "library/TensileLibrary.co"}, files)
}

func TestGenerator_GenerateStreamsToVertex(t *testing.T) {
	runner, gen, req := setup(t)
	ctrl := gomock.NewController(t)

	var out bytes.Buffer
	vtx := mocks.NewMockVertex(ctrl)
	vtx.EXPECT().Stdout().Return(&out)
	vtx.EXPECT().Stderr().Return(&out)
	ctx := ports.ContextWithVertex(context.Background(), vtx)

	runner.EXPECT().Run(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmd ports.Command) (ports.Result, error) {
			assert.Same(t, &out, cmd.Stdout)
			writeManifest(t, req.SourceDir)
			return ports.Result{}, nil
		})

	files, err := gen.Generate(ctx, req)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestGenerator_GenerateFailures(t *testing.T) {
	tests := []struct {
		name   string
		result ports.Result
		write  func(t *testing.T, dir string)
	}{
		{
			name:   "non-zero exit",
			result: ports.Result{ExitCode: 2, Output: []byte("bad parameter")},
		},
		{
			name:   "missing manifest",
			result: ports.Result{},
		},
		{
			name:   "malformed manifest",
			result: ports.Result{},
			write: func(t *testing.T, dir string) {
				t.Helper()
				require.NoError(t, os.WriteFile(filepath.Join(dir, generator.ManifestFile), []byte("{"), 0o600))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner, gen, req := setup(t)
			runner.EXPECT().Run(gomock.Any(), gomock.Any()).
				DoAndReturn(func(context.Context, ports.Command) (ports.Result, error) {
					if tt.write != nil {
						tt.write(t, req.SourceDir)
					}
					return tt.result, nil
				})

			_, err := gen.Generate(context.Background(), req)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrKernelWriterFailed)
		})
	}
}

func TestGenerator_GenerateMissingWriter(t *testing.T) {
	runner, gen, req := setup(t)
	runner.EXPECT().Run(gomock.Any(), gomock.Any()).
		Return(ports.Result{}, domain.ErrExecutableNotFound)

	_, err := gen.Generate(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrExecutableNotFound)
}
