// Package validator checks the matrix-instruction fields of solution descriptors
// against the known instruction geometries and the capabilities of their target.
package validator

import (
	"slices"

	"go.trai.ch/kerntune/internal/core/domain"
)

// Rule ids reported by Validate.
const (
	RuleKeys           domain.Rule = "mi.keys"
	RuleEmptyEnabled   domain.Rule = "mi.empty-enabled"
	RuleUnknown        domain.Rule = "mi.unknown-geometry"
	RuleTarget         domain.Rule = "mi.target"
	RuleProblemType    domain.Rule = "mi.problem-type"
	RuleWavefront      domain.Rule = "mi.wavefront"
	RuleWorkGroup      domain.Rule = "mi.work-group"
	RuleHardwareDense  domain.Rule = "mi.hw-dense"
	RuleHardwareSparse domain.Rule = "mi.hw-sparse"
	RuleHardwareNone   domain.Rule = "mi.hw-none"
	RuleBF16_1k        domain.Rule = "mi.bf16-1k"
	RuleBlock          domain.Rule = "mi.block"
	RuleWaveGroup      domain.Rule = "mi.wave-group"
	RuleWaveTile       domain.Rule = "mi.wave-tile"
	RuleInputPerThread domain.Rule = "mi.input-per-thread"
	RuleInputA         domain.Rule = "mi.input-per-thread-a"
	RuleInputB         domain.Rule = "mi.input-per-thread-b"
	RuleInputMetadata  domain.Rule = "mi.input-per-thread-metadata"
	RuleEnabled        domain.Rule = "mi.enabled"
)

// CapabilitySource resolves the capability set of an initialized target.
type CapabilitySource interface {
	Capabilities(target domain.Target) (*domain.CapabilitySet, bool)
}

// Validate checks the matrix-instruction configuration of sol. The first violated
// rule is reported. Validate never mutates sol.
func Validate(sol domain.Solution, caps CapabilitySource) domain.ValidationOutcome {
	if !sol.Has(domain.KeyMatrixInstruction) || !sol.Has(domain.KeyEnableMI) {
		return domain.Reject(RuleKeys, "descriptor must declare %s and %s",
			domain.KeyMatrixInstruction, domain.KeyEnableMI)
	}

	sel, ok := sol.Ints(domain.KeyMatrixInstruction)
	if !ok {
		return domain.Reject(RuleUnknown, "%s is not a list of integers: %v",
			domain.KeyMatrixInstruction, sol[domain.KeyMatrixInstruction])
	}
	enabled, ok := sol.Bool(domain.KeyEnableMI)
	if !ok {
		return domain.Reject(RuleKeys, "%s is not a boolean: %v", domain.KeyEnableMI, sol[domain.KeyEnableMI])
	}
	if len(sel) == 0 && enabled {
		return domain.Reject(RuleEmptyEnabled, "empty %s cannot be enabled", domain.KeyMatrixInstruction)
	}
	if !Known(sel) {
		return domain.Reject(RuleUnknown, "unknown matrix instruction %v", sel)
	}

	switch len(sel) {
	case 9:
		if out := validateExtended(sol, sel, caps); !out.Valid {
			return out
		}
		if !enabled {
			return domain.Reject(RuleEnabled, "matrix instruction %v must be enabled", sel)
		}
	case 4:
		if !enabled {
			return domain.Reject(RuleEnabled, "matrix instruction %v must be enabled", sel)
		}
	default:
		if enabled {
			return domain.Reject(RuleEnabled, "matrix instruction %v must not be enabled", sel)
		}
	}
	return domain.Accept()
}

func validateExtended(sol domain.Solution, sel []int, caps CapabilitySource) domain.ValidationOutcome {
	target, ok := sol.Target()
	if !ok {
		return domain.Reject(RuleTarget, "descriptor has no valid %s", domain.KeyISA)
	}
	set, ok := caps.Capabilities(target)
	if !ok {
		return domain.Reject(RuleTarget, "target %s is not initialized", target.Gfx())
	}

	wfsize, ok := sol.Int(domain.KeyWavefrontSize)
	if !ok || wfsize <= 0 {
		return domain.Reject(RuleWavefront, "invalid %s %v", domain.KeyWavefrontSize, sol[domain.KeyWavefrontSize])
	}

	pt, ok := sol.ProblemType()
	if !ok {
		return domain.Reject(RuleProblemType, "descriptor has no %s", domain.KeyProblemType)
	}
	xdl, _ := sol.Bool(domain.KeyEnableF32XdlMathOp)
	dt, err := pt.MathDataType(xdl)
	if err != nil {
		return domain.Reject(RuleProblemType, "%v", err)
	}
	sparse := pt.Sparse()

	geo := Derive(sel, wfsize, sparse)
	base := Shape(sel[:4])

	if !intsEqual(sol, domain.KeyWorkGroup, geo.WorkGroup) {
		return domain.Reject(RuleWorkGroup, "%s %v does not match derived %v",
			domain.KeyWorkGroup, sol[domain.KeyWorkGroup], geo.WorkGroup)
	}

	if out := hardwareGate(set, dt, base, sparse); !out.Valid {
		return out
	}

	if bf16, ok := sol.Bool(domain.KeyMFMABF16_1K); !ok || bf16 {
		return domain.Reject(RuleBF16_1k, "%s must be false with an extended selector", domain.KeyMFMABF16_1K)
	}

	if !intsEqual(sol, domain.KeyMIBlock, geo.Block) {
		return domain.Reject(RuleBlock, "%s %v does not match derived %v",
			domain.KeyMIBlock, sol[domain.KeyMIBlock], geo.Block)
	}
	if !intsEqual(sol, domain.KeyMIWaveGroup, geo.WaveGroup) {
		return domain.Reject(RuleWaveGroup, "%s %v does not match derived %v",
			domain.KeyMIWaveGroup, sol[domain.KeyMIWaveGroup], geo.WaveGroup)
	}
	if !intsEqual(sol, domain.KeyMIWaveTile, geo.WaveTile) {
		return domain.Reject(RuleWaveTile, "%s %v does not match derived %v",
			domain.KeyMIWaveTile, sol[domain.KeyMIWaveTile], geo.WaveTile)
	}

	checks := []struct {
		rule domain.Rule
		key  string
		want int
	}{
		{RuleInputPerThread, domain.KeyMIInputPerThread, geo.InputPerThread},
		{RuleInputA, domain.KeyMIInputPerThreadA, geo.InputPerThreadA},
		{RuleInputB, domain.KeyMIInputPerThreadB, geo.InputPerThreadB},
		{RuleInputMetadata, domain.KeyMIInputPerThreadMeta, geo.InputPerThreadMD},
	}
	for _, c := range checks {
		if got, ok := sol.Int(c.key); !ok || got != c.want {
			return domain.Reject(c.rule, "%s %v does not match derived %d", c.key, sol[c.key], c.want)
		}
	}
	return domain.Accept()
}

// hardwareGate checks that the target can execute the selected instruction.
func hardwareGate(set *domain.CapabilitySet, dt domain.DataType, base Shape, sparse int) domain.ValidationOutcome {
	asm := set.Asm
	if sparse != 0 {
		if !asm.HasSMFMA {
			return domain.Reject(RuleHardwareNone, "%s has no structured-sparse matrix instructions", set.Target.Gfx())
		}
		if !slices.Contains(SparseShapes(dt), base) {
			return domain.Reject(RuleHardwareSparse, "sparse %v is not available for data type %s", base, dt)
		}
		return domain.Accept()
	}

	switch {
	case asm.HasMFMA:
		if slices.Contains(DenseShapes(dt), base) {
			return domain.Accept()
		}
		if dt.IsBFloat16() && slices.Contains(mfmaBF16_1k, base) {
			return domain.Accept()
		}
		return domain.Reject(RuleHardwareDense, "%v is not available for data type %s", base, dt)
	case asm.HasWMMA:
		if slices.Contains(wmma, base) {
			return domain.Accept()
		}
		return domain.Reject(RuleHardwareDense, "%v is not a WMMA instruction", base)
	default:
		return domain.Reject(RuleHardwareNone, "%s has no matrix instructions", set.Target.Gfx())
	}
}

func intsEqual(sol domain.Solution, key string, want []int) bool {
	got, ok := sol.Ints(key)
	return ok && slices.Equal(got, want)
}
