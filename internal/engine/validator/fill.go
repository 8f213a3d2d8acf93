package validator

import "go.trai.ch/kerntune/internal/core/domain"

// Fill returns a copy of sol with the redundant matrix-instruction fields it does not
// declare filled in from its selector. Declared fields are left untouched so that
// inconsistent declarations are still caught by Validate.
//
// set is the capability set of the bound target; it may be nil when unknown.
func Fill(sol domain.Solution, set *domain.CapabilitySet, wavefrontSize int) domain.Solution {
	out := sol.Clone()
	setDefault := func(key string, v any) {
		if !out.Has(key) {
			out[key] = domain.Normalize(v)
		}
	}

	if set != nil {
		setDefault(domain.KeyISA, set.Target.Slice())
	}
	setDefault(domain.KeyWavefrontSize, wavefrontSize)
	setDefault(domain.KeyMFMABF16_1K, false)
	setDefault(domain.KeyEnableF32XdlMathOp, false)

	sel, ok := out.Ints(domain.KeyMatrixInstruction)
	if !ok {
		return out
	}
	setDefault(domain.KeyEnableMI, len(sel) == 4 || len(sel) == 9)

	if len(sel) != 9 || !Known(sel) {
		return out
	}
	wfsize, ok := out.Int(domain.KeyWavefrontSize)
	if !ok || wfsize <= 0 {
		return out
	}
	sparse := 0
	if pt, ok := out.ProblemType(); ok {
		sparse = pt.Sparse()
	}
	geo := Derive(sel, wfsize, sparse)
	setDefault(domain.KeyWorkGroup, geo.WorkGroup)
	setDefault(domain.KeyMIBlock, geo.Block)
	setDefault(domain.KeyMIWaveGroup, geo.WaveGroup)
	setDefault(domain.KeyMIWaveTile, geo.WaveTile)
	setDefault(domain.KeyMIInputPerThread, geo.InputPerThread)
	setDefault(domain.KeyMIInputPerThreadA, geo.InputPerThreadA)
	setDefault(domain.KeyMIInputPerThreadB, geo.InputPerThreadB)
	setDefault(domain.KeyMIInputPerThreadMeta, geo.InputPerThreadMD)
	return out
}
