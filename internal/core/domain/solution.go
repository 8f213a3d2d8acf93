package domain

import (
	"fmt"
	"slices"
	"strings"
)

// Solution descriptor keys read or written by the core.
const (
	KeyProblemType          = "ProblemType"
	KeyMatrixInstruction    = "MatrixInstruction"
	KeyEnableMI             = "EnableMatrixInstruction"
	KeyISA                  = "ISA"
	KeyWavefrontSize        = "WavefrontSize"
	KeyWorkGroup            = "WorkGroup"
	KeyMIBlock              = "MIBlock"
	KeyMIWaveGroup          = "MIWaveGroup"
	KeyMIWaveTile           = "MIWaveTile"
	KeyMIInputPerThread     = "MIInputPerThread"
	KeyMIInputPerThreadA    = "MIInputPerThreadA"
	KeyMIInputPerThreadB    = "MIInputPerThreadB"
	KeyMIInputPerThreadMeta = "MIInputPerThreadMetadata"
	KeyMFMABF16_1K          = "MFMA_BF16_1K"
	KeyEnableF32XdlMathOp   = "EnableF32XdlMathOp"
	KeySolutionIndex        = "SolutionIndex"
	KeySolutionNameMin      = "SolutionNameMin"
	KeyKernelNameMin        = "KernelNameMin"
	KeyCustomKernelName     = "CustomKernelName"
	KeyInternalSupport      = "InternalSupportParams"
)

// Solution is one candidate kernel configuration: a flat parameter name -> value map.
// Equality is structural.
type Solution map[string]any

// NewSolution normalizes a decoded map into a Solution.
func NewSolution(m map[string]any) Solution {
	n, _ := Normalize(m).(map[string]any)
	if n == nil {
		n = map[string]any{}
	}
	return Solution(n)
}

// Clone returns a deep copy.
func (s Solution) Clone() Solution {
	return NewSolution(s)
}

// Equal reports structural equality.
func (s Solution) Equal(o Solution) bool {
	return StructurallyEqual(map[string]any(s), map[string]any(o))
}

// Fingerprint hashes the descriptor content; see domain.Fingerprint.
func (s Solution) Fingerprint() uint64 {
	return Fingerprint(map[string]any(s))
}

// Has reports whether a key is declared.
func (s Solution) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Int returns an integer field.
func (s Solution) Int(key string) (int, bool) {
	v, ok := s[key]
	if !ok {
		return 0, false
	}
	return AsInt(v)
}

// Ints returns an integer list field.
func (s Solution) Ints(key string) ([]int, bool) {
	v, ok := s[key]
	if !ok {
		return nil, false
	}
	return AsInts(v)
}

// Bool returns a boolean field.
func (s Solution) Bool(key string) (bool, bool) {
	v, ok := s[key]
	if !ok {
		return false, false
	}
	return AsBool(v)
}

// ProblemType returns the embedded problem type, if any.
func (s Solution) ProblemType() (ProblemType, bool) {
	switch pt := Normalize(s[KeyProblemType]).(type) {
	case map[string]any:
		return ProblemType(pt), true
	default:
		return nil, false
	}
}

// Target returns the ISA the descriptor is bound to.
func (s Solution) Target() (Target, bool) {
	isa, ok := s.Ints(KeyISA)
	if !ok {
		return Target{}, false
	}
	return TargetFromSlice(isa)
}

// Index returns the solution index, or -1 when unassigned.
func (s Solution) Index() int {
	if i, ok := s.Int(KeySolutionIndex); ok {
		return i
	}
	return -1
}

// Merge overlays the given maps onto a copy of s, later maps winning.
func (s Solution) Merge(layers ...map[string]any) Solution {
	out := s.Clone()
	for _, l := range layers {
		for k, v := range l {
			out[k] = Normalize(v)
		}
	}
	return out
}

// Name returns a deterministic, human-readable name covering every non problem-type key.
func (s Solution) Name() string {
	return s.name(nil)
}

// MinName names the solution using only the keys whose values differ across the
// accepted set (the "minimal naming" keys).
func (s Solution) MinName(keys []string) string {
	return s.name(keys)
}

func (s Solution) name(only []string) string {
	keys := make([]string, 0, len(s))
	for k := range s {
		switch k {
		case KeyProblemType, KeySolutionIndex, KeySolutionNameMin, KeyKernelNameMin, KeyInternalSupport:
			continue
		}
		if only != nil && !slices.Contains(only, k) {
			continue
		}
		keys = append(keys, k)
	}
	slices.Sort(keys)

	prefix := "Cijk"
	if pt, ok := s.ProblemType(); ok {
		prefix = pt.Name()
	}
	parts := []string{prefix}
	for _, k := range keys {
		parts = append(parts, abbreviate(k)+formatValue(s[k]))
	}
	return strings.Join(parts, "_")
}

// MinNamingKeys returns the keys whose values are not identical across all solutions.
func MinNamingKeys(solutions []Solution) []string {
	if len(solutions) == 0 {
		return nil
	}
	seen := map[string]struct{}{}
	for _, s := range solutions {
		for k := range s {
			seen[k] = struct{}{}
		}
	}
	var keys []string
	for k := range seen {
		first, ok := solutions[0][k]
		for _, s := range solutions[1:] {
			v, has := s[k]
			if has != ok || !StructurallyEqual(first, v) {
				keys = append(keys, k)
				break
			}
		}
	}
	slices.Sort(keys)
	return keys
}

// abbreviate keeps the capital letters of a CamelCase key (MatrixInstruction -> MI).
func abbreviate(key string) string {
	var b strings.Builder
	for _, r := range key {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return key
	}
	return b.String()
}

func formatValue(v any) string {
	switch x := Normalize(v).(type) {
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = formatValue(e)
		}
		return strings.Join(parts, "x")
	case bool:
		if x {
			return "1"
		}
		return "0"
	default:
		return fmt.Sprint(x)
	}
}
