package validator

// Geometry holds the fields that follow from an extended selector. Every field of a
// descriptor that uses the extended form must equal the derived value.
type Geometry struct {
	WorkGroup        []int
	Block            []int
	WaveGroup        []int
	WaveTile         []int
	InputPerThread   int
	InputPerThreadA  int
	InputPerThreadB  int
	InputPerThreadMD int
}

// Derive computes the geometry of a 9-field selector
// [m, n, k, b, batchMul, tt0, tt1, waveM, waveN] for the given wavefront size and
// sparsity mode (0 dense, 1 sparse A, 2 sparse B).
func Derive(sel []int, wavefrontSize, sparse int) Geometry {
	m, n, k, b := sel[0], sel[1], sel[2], sel[3]
	waves := sel[7] * sel[8]
	wg0 := sel[4] * m * sel[7]
	wg1 := waves * wavefrontSize / wg0

	blk4 := min(wg0/m, b)
	wave0 := min((wg0/m)/blk4, waves)

	ipt := m * k * b / wavefrontSize
	iptA, iptB, iptMD := ipt, ipt, ipt
	switch sparse {
	case 1:
		iptA = ipt / 2
	case 2:
		iptB = ipt / 2
	}
	if sparse != 0 {
		iptMD = ipt / 8
	}

	return Geometry{
		WorkGroup:        []int{wg0, wg1},
		Block:            []int{m, n, k, b, blk4, b / blk4},
		WaveGroup:        []int{wave0, waves / wave0},
		WaveTile:         []int{sel[5], sel[6]},
		InputPerThread:   ipt,
		InputPerThreadA:  iptA,
		InputPerThreadB:  iptB,
		InputPerThreadMD: iptMD,
	}
}
