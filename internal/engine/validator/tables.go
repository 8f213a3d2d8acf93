package validator

import (
	"slices"

	"go.trai.ch/kerntune/internal/core/domain"
)

// Shape is the base geometry of a matrix instruction: [m, n, k, b].
type Shape [4]int

// maxThreadTile bounds each thread-tile component of an extended selector.
const maxThreadTile = 32

var (
	mfmaHalf   = []Shape{{32, 32, 4, 2}, {32, 32, 8, 1}, {16, 16, 4, 4}, {16, 16, 16, 1}, {4, 4, 4, 16}}
	mfmaSingle = []Shape{{32, 32, 1, 2}, {32, 32, 2, 1}, {16, 16, 1, 4}, {16, 16, 4, 1}, {4, 4, 1, 16}}
	mfmaBF16   = []Shape{{32, 32, 2, 2}, {32, 32, 4, 1}, {16, 16, 2, 4}, {16, 16, 8, 1}, {4, 4, 2, 16}}
	mfmaInt8   = append(slices.Clone(mfmaHalf), Shape{32, 32, 16, 1}, Shape{16, 16, 32, 1})
	mfmaDouble = []Shape{{16, 16, 4, 1}, {4, 4, 4, 4}}
	mfmaXF32   = []Shape{{32, 32, 4, 1}, {16, 16, 8, 1}}
	mfmaF8     = []Shape{{32, 32, 16, 1}, {16, 16, 32, 1}}

	// mfmaBF16_1k is the fallback table for bfloat16 on hardware with the 1k variants.
	mfmaBF16_1k = mfmaHalf

	wmma = []Shape{{16, 16, 16, 1}}

	smfmaHalf = []Shape{{32, 32, 16, 1}, {16, 16, 32, 1}}
	smfmaInt8 = []Shape{{32, 32, 32, 1}, {16, 16, 64, 1}}
	smfmaF8   = []Shape{{32, 32, 32, 1}, {16, 16, 64, 1}}
)

// denseTable maps a math data type to the dense instructions available for it.
var denseTable = map[domain.DataType][]Shape{
	domain.DataTypeHalf:              mfmaHalf,
	domain.DataTypeSingle:            mfmaSingle,
	domain.DataTypeBFloat16:          mfmaBF16,
	domain.DataTypeInt8x4:            mfmaInt8,
	domain.DataTypeInt8:              mfmaInt8,
	domain.DataTypeDouble:            mfmaDouble,
	domain.DataTypeComplexSingle:     mfmaSingle,
	domain.DataTypeComplexDouble:     mfmaDouble,
	domain.DataTypeXFloat32:          mfmaXF32,
	domain.DataTypeFloat8:            mfmaF8,
	domain.DataTypeBFloat8:           mfmaF8,
	domain.DataTypeFloat8BFloat8:     mfmaF8,
	domain.DataTypeBFloat8Float8:     mfmaF8,
	domain.DataTypeFloat8FNUZ:        mfmaF8,
	domain.DataTypeBFloat8FNUZ:       mfmaF8,
	domain.DataTypeFloat8BFloat8FNUZ: mfmaF8,
	domain.DataTypeBFloat8Float8FNUZ: mfmaF8,
}

// sparseTable maps a math data type to the structured-sparse instructions available for it.
var sparseTable = map[domain.DataType][]Shape{
	domain.DataTypeHalf:              smfmaHalf,
	domain.DataTypeBFloat16:          smfmaHalf,
	domain.DataTypeInt8x4:            smfmaInt8,
	domain.DataTypeInt8:              smfmaInt8,
	domain.DataTypeFloat8:            smfmaF8,
	domain.DataTypeBFloat8:           smfmaF8,
	domain.DataTypeFloat8BFloat8:     smfmaF8,
	domain.DataTypeBFloat8Float8:     smfmaF8,
	domain.DataTypeFloat8FNUZ:        smfmaF8,
	domain.DataTypeBFloat8FNUZ:       smfmaF8,
	domain.DataTypeFloat8BFloat8FNUZ: smfmaF8,
	domain.DataTypeBFloat8Float8FNUZ: smfmaF8,
}

// shortForm lists the shapes accepted as a bare 4-field selector.
var shortForm = slices.Concat(mfmaHalf, mfmaSingle, mfmaBF16, mfmaDouble, mfmaBF16_1k, mfmaXF32,
	smfmaHalf, smfmaInt8)

// extendedDense and extendedSparse list the base shapes an extended selector may build on.
var (
	extendedDense  = slices.Concat(mfmaHalf, mfmaSingle, mfmaBF16, mfmaDouble, mfmaXF32, mfmaF8, wmma)
	extendedSparse = slices.Concat(smfmaHalf, smfmaInt8, smfmaF8)
)

// Known reports whether sel is a recognized instruction selector: empty, the [-1]
// placeholder, a short 4-field shape or a 9-field extended geometry.
func Known(sel []int) bool {
	switch len(sel) {
	case 0:
		return true
	case 1:
		return sel[0] == -1
	case 4:
		return slices.Contains(shortForm, Shape(sel))
	case 9:
		return knownExtended(sel)
	default:
		return false
	}
}

func knownExtended(sel []int) bool {
	base := Shape(sel[:4])
	if !slices.Contains(extendedDense, base) && !slices.Contains(extendedSparse, base) {
		return false
	}
	// The batch multiplier is a power of two no larger than b.
	if bm := sel[4]; bm < 1 || bm > base[3] || bm&(bm-1) != 0 {
		return false
	}
	for _, tt := range sel[5:7] {
		if tt < 1 || tt > maxThreadTile {
			return false
		}
	}
	for _, w := range sel[7:9] {
		if w != 1 && w != 2 && w != 4 {
			return false
		}
	}
	return true
}

// DenseShapes returns the dense instruction shapes available for dt.
func DenseShapes(dt domain.DataType) []Shape {
	return denseTable[dt]
}

// SparseShapes returns the structured-sparse instruction shapes available for dt.
func SparseShapes(dt domain.DataType) []Shape {
	return sparseTable[dt]
}
