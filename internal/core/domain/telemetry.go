package domain

import "strings"

// StepStatus is the lifecycle state of one benchmark step.
type StepStatus string

const (
	// StepStatusPending indicates the step has not started.
	StepStatusPending StepStatus = "pending"
	// StepStatusRunning indicates the step is preparing solutions or running the client.
	StepStatusRunning StepStatus = "running"
	// StepStatusCached indicates the step reused a matching step cache and ran the client.
	StepStatusCached StepStatus = "cached"
	// StepStatusComputed indicates the step regenerated its solutions and ran the client.
	StepStatusComputed StepStatus = "computed"
	// StepStatusSkipped indicates results already existed, so the client was not invoked.
	StepStatusSkipped StepStatus = "skipped"
	// StepStatusFailed indicates the benchmark client exited with a non-zero code.
	StepStatusFailed StepStatus = "failed"
)

// LogLevel represents the severity of a log message, mirroring the standard slog levels.
type LogLevel int

const (
	// LogLevelDebug represents debug-level verbosity.
	LogLevelDebug LogLevel = -4
	// LogLevelInfo represents informational verbosity.
	LogLevelInfo LogLevel = 0
	// LogLevelWarn represents warning verbosity.
	LogLevelWarn LogLevel = 4
	// LogLevelError represents error verbosity.
	LogLevelError LogLevel = 8
)

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// IsTerminal checks if a status is a terminal state (Cached, Computed, Skipped, Failed).
func (s StepStatus) IsTerminal() bool {
	switch s {
	case StepStatusCached, StepStatusComputed, StepStatusSkipped, StepStatusFailed:
		return true
	default:
		return false
	}
}

// ParseStepStatus converts a string to a StepStatus, defaulting to pending if unknown.
func ParseStepStatus(s string) StepStatus {
	switch st := StepStatus(strings.ToLower(s)); st {
	case StepStatusRunning, StepStatusCached, StepStatusComputed, StepStatusSkipped, StepStatusFailed:
		return st
	default:
		return StepStatusPending
	}
}
