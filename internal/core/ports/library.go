package ports

import "go.trai.ch/kerntune/internal/core/domain"

// Library reads stored library logic files and writes solution listings.
//
//go:generate go run go.uber.org/mock/mockgen -source=library.go -destination=mocks/mock_library.go -package=mocks
type Library interface {
	// ReadLogicSolutions returns the solutions stored in a library logic file.
	ReadLogicSolutions(path string) ([]domain.Solution, error)

	// WriteSolutions writes the step's solutions listing. solutions is nil when the
	// step was served from cache; the size metadata is written regardless.
	WriteSolutions(path string, args domain.BenchmarkArgs, solutions []domain.Solution) error
}

// CustomKernelLoader loads hand-authored kernel descriptors.
type CustomKernelLoader interface {
	// Load reads the descriptor of the named kernel from dir, merging internalSupportParams.
	Load(dir, name string, internalSupportParams map[string]any) (domain.Solution, error)
}
