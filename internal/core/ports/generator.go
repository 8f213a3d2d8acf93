package ports

import (
	"context"

	"go.trai.ch/kerntune/internal/core/domain"
)

// GenerateRequest describes the artifacts to produce for one benchmark step.
type GenerateRequest struct {
	WriterPath    string
	AssemblerPath string
	StepName      string
	StepDir       string
	SourceDir     string
	ProblemType   domain.ProblemType
	Solutions     []domain.Solution
	Args          domain.BenchmarkArgs
}

// KernelGenerator turns accepted solutions into buildable artifacts.
//
//go:generate go run go.uber.org/mock/mockgen -source=generator.go -destination=mocks/mock_generator.go -package=mocks
type KernelGenerator interface {
	// Generate writes sources and code objects under req.SourceDir and returns the
	// code-object files relative to it.
	Generate(ctx context.Context, req GenerateRequest) ([]string, error)
}
