// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"
)

// Command describes one subprocess invocation.
type Command struct {
	// Path is the executable to run.
	Path string
	// Args are the arguments, excluding the program name.
	Args []string
	// Stdin is fed to the process standard input when non-nil.
	Stdin []byte
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// Env holds extra "KEY=VALUE" entries layered over the process environment.
	Env []string
	// Stdout and Stderr stream the process output when set.
	// When both are nil, stdout and stderr are captured together into Result.Output.
	Stdout io.Writer
	Stderr io.Writer
}

// Result is the outcome of a finished subprocess.
type Result struct {
	ExitCode int
	Output   []byte
}

// Runner defines the interface for running external tools as blocking subprocesses.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Runner interface {
	// Run executes the command to completion.
	//
	// A non-zero exit code is reported through Result and is not an error.
	// An error means the process could not be started at all (e.g. the binary is missing),
	// which callers must treat as a configuration error.
	Run(ctx context.Context, cmd Command) (Result, error)

	// Locate resolves an executable name. Absolute or relative paths are checked
	// as-is, then each of dirs, then PATH. It returns domain.ErrExecutableNotFound
	// when nothing matches.
	Locate(name string, dirs ...string) (string, error)
}
