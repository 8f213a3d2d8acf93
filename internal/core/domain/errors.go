package domain

import "go.trai.ch/zerr"

var (
	// ErrExecutableNotFound is returned when an external tool (assembler, client, kernel writer) cannot be located.
	ErrExecutableNotFound = zerr.New("executable not found")

	// ErrInvalidTarget is returned when a gfx name cannot be parsed into a target.
	ErrInvalidTarget = zerr.New("invalid target")

	// ErrUnknownArchitecture is returned when register limits are requested for an unrecognized major version.
	ErrUnknownArchitecture = zerr.New("no valid register limits for this architecture")

	// ErrNotInitialized is returned when a worker binds to a target that was never initialized.
	ErrNotInitialized = zerr.New("target not initialized")

	// ErrNotBound is returned when capabilities are read by a worker without a bound target.
	ErrNotBound = zerr.New("worker has no bound target")

	// ErrWorkerClosed is returned when a closed worker handle is used.
	ErrWorkerClosed = zerr.New("worker is closed")

	// ErrNoValidSolutions is returned when enumeration rejects every candidate of a step.
	ErrNoValidSolutions = zerr.New("parameters resulted in 0 valid solutions")

	// ErrCustomKernelMismatch is returned when a requested custom kernel's problem type differs from the config.
	ErrCustomKernelMismatch = zerr.New("custom kernel problem type mismatch")

	// ErrCustomKernelNotFound is returned when a custom kernel file cannot be found.
	ErrCustomKernelNotFound = zerr.New("custom kernel not found")

	// ErrInvalidConfig is returned when the benchmark configuration is structurally invalid.
	ErrInvalidConfig = zerr.New("invalid benchmark configuration")

	// ErrInvalidLogicFile is returned when a stored logic file does not have the expected layout.
	ErrInvalidLogicFile = zerr.New("invalid logic file")

	// ErrKernelWriterFailed is returned when the kernel writer exits non-zero or leaves no manifest.
	ErrKernelWriterFailed = zerr.New("kernel writer failed")

	// ErrBenchmarkFailures is returned when benchmark steps failed and the exit-on-fails policy is set.
	ErrBenchmarkFailures = zerr.New("benchmark client reported failures")

	// ErrRejectedSolutions is returned when a validation pass rejected at least one stored solution.
	ErrRejectedSolutions = zerr.New("validation rejected solutions")
)
