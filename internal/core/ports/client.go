package ports

import (
	"context"
	"io"

	"go.trai.ch/kerntune/internal/core/domain"
)

// ClientRequest describes one benchmark client invocation.
type ClientRequest struct {
	ClientPath      string
	AssemblerPath   string
	StepDir         string
	SourceDir       string
	ResultsFile     string
	CodeObjectFiles []string
	ProblemType     domain.ProblemType
	Args            domain.BenchmarkArgs
	Stdout          io.Writer
	Stderr          io.Writer
}

// BenchmarkClient drives the external benchmark client executable.
//
//go:generate go run go.uber.org/mock/mockgen -source=client.go -destination=mocks/mock_client.go -package=mocks
type BenchmarkClient interface {
	// WriteParameters writes the client parameter file for the step and returns its path.
	WriteParameters(req ClientRequest) (string, error)

	// Run invokes the client and blocks until it exits, returning its exit code.
	// An error is returned only when the client could not be started.
	Run(ctx context.Context, req ClientRequest) (int, error)
}

// ClientLock serializes client executions across processes.
type ClientLock interface {
	// Acquire blocks until the lock at path is held. An empty path is a no-op lock.
	Acquire(ctx context.Context, path string) (release func() error, err error)
}
