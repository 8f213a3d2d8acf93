package filter_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kerntune/internal/core/domain"
	"go.trai.ch/kerntune/internal/core/ports/mocks"
	"go.trai.ch/kerntune/internal/engine/capability"
	"go.trai.ch/kerntune/internal/engine/filter"
	"go.trai.ch/kerntune/internal/engine/validator"
	"go.uber.org/mock/gomock"
)

type staticBuilder struct{}

func (staticBuilder) Build(_ context.Context, t domain.Target, asm string) (*domain.CapabilitySet, error) {
	return &domain.CapabilitySet{
		Target:        t,
		AssemblerPath: asm,
		Asm:           domain.AsmCaps{SupportedISA: t.Major != 8, HasMFMA: t.Major == 9},
		Arch:          domain.NewArchCaps(t),
	}, nil
}

var (
	gfx90a  = domain.Target{Major: 9, Minor: 0, Step: 10}
	gfx1100 = domain.Target{Major: 11, Minor: 0, Step: 0}
	gfx803  = domain.Target{Major: 8, Minor: 0, Step: 3}
)

func boundWorker(t *testing.T, target domain.Target) (*capability.Registry, *capability.Worker) {
	t.Helper()
	reg := capability.NewRegistry(staticBuilder{})
	w := reg.NewWorker(t.Context())
	require.NoError(t, w.Init(t.Context(), target, "clang"))
	return reg, w
}

func candidate(extra map[string]any) domain.Solution {
	base := map[string]any{
		domain.KeyProblemType: map[string]any{
			domain.KeyDataType: "H",
			domain.KeySparse:   0,
		},
		domain.KeyMatrixInstruction: []int{32, 32, 8, 1, 1, 2, 2, 2, 2},
	}
	for k, v := range extra {
		base[k] = v
	}
	return domain.NewSolution(base)
}

func TestFilter_Check(t *testing.T) {
	tests := []struct {
		name   string
		target domain.Target
		sol    domain.Solution
		rule   domain.Rule
	}{
		{"accepted", gfx90a, candidate(nil), ""},
		{"missing problem type", gfx90a, domain.NewSolution(map[string]any{
			domain.KeyMatrixInstruction: []int{},
		}), filter.RuleProblemType},
		{"bad data type", gfx90a, candidate(map[string]any{
			domain.KeyProblemType: map[string]any{domain.KeyDataType: "Q"},
		}), filter.RuleProblemType},
		{"bad sparse mode", gfx90a, candidate(map[string]any{
			domain.KeyProblemType: map[string]any{domain.KeyDataType: "H", domain.KeySparse: 3},
		}), filter.RuleSparse},
		{"wave32 on CDNA", gfx90a, candidate(map[string]any{domain.KeyWavefrontSize: 32}), filter.RuleWavefront},
		{"odd wavefront", gfx90a, candidate(map[string]any{domain.KeyWavefrontSize: 48}), filter.RuleWavefront},
		{"oversized work group", gfx90a, candidate(map[string]any{
			domain.KeyMatrixInstruction: []int{32, 32, 8, 1},
			domain.KeyWorkGroup:         []int{64, 32},
		}), filter.RuleWorkGroup},
		{"negative work group", gfx90a, candidate(map[string]any{
			domain.KeyMatrixInstruction: []int{32, 32, 8, 1},
			domain.KeyWorkGroup:         []int{64, -1},
		}), filter.RuleWorkGroup},
		{"unsupported isa", gfx803, candidate(map[string]any{
			domain.KeyMatrixInstruction: []int{},
		}), filter.RuleISA},
		{"inconsistent geometry", gfx90a, candidate(map[string]any{
			domain.KeyMIWaveTile: []int{1, 1},
		}), validator.RuleWaveTile},
		{"no matrix hardware", gfx1100, candidate(map[string]any{domain.KeyWavefrontSize: 32}), validator.RuleHardwareNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, w := boundWorker(t, tt.target)
			f := filter.New(reg, mocks.NewMockLogger(gomock.NewController(t)), false)

			full, out := f.Check(w, tt.sol)
			if tt.rule == "" {
				assert.True(t, out.Valid, out.String())
				isa, ok := full.Ints(domain.KeyISA)
				require.True(t, ok)
				assert.Equal(t, tt.target.Slice(), isa)
				return
			}
			require.False(t, out.Valid)
			assert.Equal(t, tt.rule, out.Rule, out.String())
		})
	}
}

func TestFilter_CheckUnboundWorker(t *testing.T) {
	reg := capability.NewRegistry(staticBuilder{})
	w := reg.NewWorker(t.Context())
	f := filter.New(reg, mocks.NewMockLogger(gomock.NewController(t)), false)

	_, out := f.Check(w, candidate(nil))
	assert.Equal(t, filter.RuleBinding, out.Rule)
}

func TestFilter_AcceptVerbose(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	reg, w := boundWorker(t, gfx90a)

	log.EXPECT().Info(gomock.Any()).DoAndReturn(func(msg string) {
		assert.True(t, strings.HasPrefix(msg, "rejected "))
		assert.Contains(t, msg, string(validator.RuleWaveTile))
	}).Times(1)

	f := filter.New(reg, log, true)
	assert.True(t, f.Accept(w, candidate(nil)))
	assert.False(t, f.Accept(w, candidate(map[string]any{domain.KeyMIWaveTile: []int{1, 1}})))
}
