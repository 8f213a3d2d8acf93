package domain

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// Problem type keys read by the core.
const (
	KeyDataType       = "DataType"
	KeyDestDataType   = "DestDataType"
	KeyComputeType    = "ComputeDataType"
	KeyTransposeA     = "TransposeA"
	KeyTransposeB     = "TransposeB"
	KeySparse         = "Sparse"
	KeyActivationType = "ActivationType"
	KeyF32XdlMathOp   = "F32XdlMathOp"
	KeyProblemName    = "Name"
)

// ProblemType describes the contraction being tuned (data types, transposes, sparsity...).
// It is a value object: equality is structural.
type ProblemType map[string]any

// NewProblemType normalizes a decoded map into a ProblemType.
func NewProblemType(m map[string]any) ProblemType {
	n, _ := Normalize(m).(map[string]any)
	if n == nil {
		n = map[string]any{}
	}
	return ProblemType(n)
}

// Clone returns a deep copy.
func (p ProblemType) Clone() ProblemType {
	return NewProblemType(p)
}

// Equal reports structural equality.
func (p ProblemType) Equal(o ProblemType) bool {
	return StructurallyEqual(map[string]any(p), map[string]any(o))
}

// DataType returns the operand data type.
func (p ProblemType) DataType() (DataType, error) {
	return ParseDataType(p[KeyDataType])
}

// MathDataType returns the type fed to the matrix instruction: the F32 xdl math op
// type when enabled, otherwise the operand data type.
func (p ProblemType) MathDataType(xdlMathOp bool) (DataType, error) {
	if xdlMathOp {
		return ParseDataType(p[KeyF32XdlMathOp])
	}
	return p.DataType()
}

// Sparse returns the structured-sparsity mode: 0 dense, 1 sparse A, 2 sparse B.
func (p ProblemType) Sparse() int {
	if v, ok := AsInt(p[KeySparse]); ok {
		return v
	}
	if b, ok := AsBool(p[KeySparse]); ok && b {
		return 1
	}
	return 0
}

// WithActivation returns a copy with the activation type replaced.
func (p ProblemType) WithActivation(act any) ProblemType {
	c := p.Clone()
	if act == nil {
		delete(c, KeyActivationType)
		return c
	}
	c[KeyActivationType] = Normalize(act)
	return c
}

// Name returns the problem type name used for directory and file naming.
func (p ProblemType) Name() string {
	if n, ok := p[KeyProblemName].(string); ok && n != "" {
		return n
	}

	a, b := "Ailk", "Bljk"
	if t, _ := AsBool(p[KeyTransposeA]); t {
		a = "Alik"
	}
	if t, _ := AsBool(p[KeyTransposeB]); t {
		b = "Bjlk"
	}

	types := ""
	dt, err := p.DataType()
	if err == nil {
		dest, compute := dt, dt
		if d, err := ParseDataType(p[KeyDestDataType]); err == nil {
			dest, compute = d, d
		}
		if c, err := ParseDataType(p[KeyComputeType]); err == nil {
			compute = c
		}
		types = dt.Char() + dest.Char() + compute.Char()
	}

	name := strings.Join([]string{"Cijk", a, b, types}, "_")
	switch p.Sparse() {
	case 1:
		name += "_SPA"
	case 2:
		name += "_SPB"
	}
	return name
}

// Diff lists the key=value pairs present only in p and only in o, sorted.
func (p ProblemType) Diff(o ProblemType) (onlyP, onlyO []string) {
	pairs := func(m ProblemType) []string {
		out := make([]string, 0, len(m))
		for k, v := range NewProblemType(m) {
			out = append(out, fmt.Sprintf("%s=%v", k, v))
		}
		return out
	}
	onlyP, onlyO = lo.Difference(pairs(p), pairs(o))
	slices.Sort(onlyP)
	slices.Sort(onlyO)
	return onlyP, onlyO
}
