package opc

// Square matrix helpers over flat row-major uint64 slices. All arithmetic
// wraps modulo 2^64; the transpose stands in for the reference's integer
// adjoint.

func matTranspose(m []uint64, n int) []uint64 {
	out := make([]uint64, n*n)
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			out[c*n+r] = m[r*n+c]
		}
	}
	return out
}

func matAdd(a, b []uint64, n int) []uint64 {
	out := make([]uint64, n*n)
	for i := range out {
		out[i] = a[i] + b[i]
	}
	return out
}

func matSub(a, b []uint64, n int) []uint64 {
	out := make([]uint64, n*n)
	for i := range out {
		out[i] = a[i] - b[i]
	}
	return out
}

func matMul(a, b []uint64, n int) []uint64 {
	out := make([]uint64, n*n)
	for r := 0; r < n; r++ {
		for k := 0; k < n; k++ {
			av := a[r*n+k]
			if av == 0 {
				continue
			}
			row := out[r*n : r*n+n]
			brow := b[k*n : k*n+n]
			for c := 0; c < n; c++ {
				row[c] += av * brow[c]
			}
		}
	}
	return out
}

// subkeyMatrixOperation drives the mix transform and the matrix assembly
// that together yield the next TransformedSubkeyMatrix from the current key
// material.
type subkeyMatrixOperation struct {
	state *commonState
	mix   *mixTransform
}

func newSubkeyMatrixOperation(state *commonState, mix *mixTransform) *subkeyMatrixOperation {
	return &subkeyMatrixOperation{state: state, mix: mix}
}

// materialFeed serves four-word material slices for the matrix fill. With
// key material present it cycles over the expanded subkey pool; with none it
// draws straight from the two shift registers.
type materialFeed struct {
	state *commonState
	pool  []uint32
	index int
}

func (f *materialFeed) next() [4]uint32 {
	var out [4]uint32
	if len(f.pool) > 0 {
		for i := range out {
			out[i] = f.pool[f.index%len(f.pool)]
			f.index++
		}
		return out
	}
	a := f.state.nlfsr.Next()
	b := f.state.lfsr.Next()
	out[0] = uint32(a)
	out[1] = uint32(a >> 32)
	out[2] = uint32(b)
	out[3] = uint32(b >> 32)
	return out
}

// generateSubkeys refreshes the random word matrix from mixed key material
// and applies the one-way matrix transform, producing the next
// TransformedSubkeyMatrix and a freshly shuffled index permutation.
//
// The transform works on A = RandomWordMatrix against the prior K =
// TransformedSubkeyMatrix: L = A + Kt, R = K - At, and the new K is Rt * Lt,
// everything modulo 2^64.
func (op *subkeyMatrixOperation) generateSubkeys(material []uint64) {
	st := op.state
	n := st.matrixRows

	op.mix.initialize()

	feed := &materialFeed{state: st}
	if len(material) > 0 {
		feed.pool = expandKeyWords(splitWords64(material))
	}

	a := st.randomWordMatrix
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			low := op.mix.keyWithFunction(feed.next())
			high := op.mix.streamCipherFunction(feed.next())
			a[r*n+c] = uint64(high)<<32 | uint64(low)
		}
	}

	k := st.transformedSubkeyMatrix
	lhs := matAdd(a, matTranspose(k, n), n)
	rhs := matSub(k, matTranspose(a, n), n)
	next := matMul(matTranspose(rhs, n), matTranspose(lhs, n), n)
	copy(k, next)

	zeroizeWords64(lhs)
	zeroizeWords64(rhs)
	zeroizeWords64(next)
	zeroizeWords32(feed.pool)

	st.shuffleIndices()
}
