package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/kerntune/internal/core/domain"
)

func TestStepStatus(t *testing.T) {
	tests := []struct {
		name       string
		status     domain.StepStatus
		isTerminal bool
	}{
		{"Pending", domain.StepStatusPending, false},
		{"Running", domain.StepStatusRunning, false},
		{"Cached", domain.StepStatusCached, true},
		{"Computed", domain.StepStatusComputed, true},
		{"Skipped", domain.StepStatusSkipped, true},
		{"Failed", domain.StepStatusFailed, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.isTerminal, tt.status.IsTerminal())
		})
	}
}

func TestParseStepStatus(t *testing.T) {
	tests := []struct {
		input    string
		expected domain.StepStatus
	}{
		{"cached", domain.StepStatusCached},
		{"COMPUTED", domain.StepStatusComputed},
		{"skipped", domain.StepStatusSkipped},
		{"failed", domain.StepStatusFailed},
		{"running", domain.StepStatusRunning},
		{"unknown", domain.StepStatusPending},
		{"", domain.StepStatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, domain.ParseStepStatus(tt.input))
		})
	}
}

func TestLogLevel_String(t *testing.T) {
	tests := []struct {
		level    domain.LogLevel
		expected string
	}{
		{domain.LogLevelDebug, "DEBUG"},
		{domain.LogLevelInfo, "INFO"},
		{domain.LogLevelWarn, "WARN"},
		{domain.LogLevelError, "ERROR"},
		{domain.LogLevel(99), "INFO"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.level.String())
		})
	}
}
