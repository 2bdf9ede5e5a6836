package opc

import "testing"

func TestForwardBackwardTransformInverse(t *testing.T) {
	cases := [][2]uint32{
		{0x12345678, 0x9ABCDEF0},
		{0, 0},
		{0xFFFFFFFF, 0xFFFFFFFF},
		{1, 0},
		{0, 1},
		{0x80000000, 0x7FFFFFFF},
	}
	for _, tc := range cases {
		a, b := forwardTransform(tc[0], tc[1])
		l, r := backwardTransform(a, b)
		if l != tc[0] || r != tc[1] {
			t.Fatalf("backward(forward(%#x, %#x)) = (%#x, %#x)", tc[0], tc[1], l, r)
		}
	}
}

func TestForwardBackwardTransformExhaustiveLowWords(t *testing.T) {
	for left := uint32(0); left < 256; left++ {
		for right := uint32(0); right < 256; right++ {
			a, b := forwardTransform(left<<13, right<<7)
			l, r := backwardTransform(a, b)
			if l != left<<13 || r != right<<7 {
				t.Fatalf("round-trip failed for (%#x, %#x)", left<<13, right<<7)
			}
		}
	}
}

func TestCtIsZeroU64(t *testing.T) {
	if ctIsZeroU64(0) != 1 {
		t.Fatal("ctIsZeroU64(0) != 1")
	}
	for _, v := range []uint64{1, 2, 0x8000000000000000, 0xFFFFFFFFFFFFFFFF, 0x4000000000000000} {
		if ctIsZeroU64(v) != 0 {
			t.Fatalf("ctIsZeroU64(%#x) != 0", v)
		}
	}
}

func TestGenerateRoundSubkeysDeterministic(t *testing.T) {
	build := func() (*subkeyMatrixOperation, *roundSubkeyGeneration) {
		state := testCommonState(t)
		mix := newMixTransform(state)
		return newSubkeyMatrixOperation(state, mix), newRoundSubkeyGeneration(state)
	}

	opA, genA := build()
	opB, genB := build()

	material := []uint64{1, 2, 3, 4}
	opA.generateSubkeys(material)
	opB.generateSubkeys(material)

	genA.generateRoundSubkeys()
	genB.generateRoundSubkeys()

	for i := range genA.vector {
		if genA.vector[i] != genB.vector[i] {
			t.Fatalf("round-subkey vectors diverged at %d", i)
		}
	}
}

func TestGenerateRoundSubkeysAdvances(t *testing.T) {
	state := testCommonState(t)
	op := newSubkeyMatrixOperation(state, newMixTransform(state))
	gen := newRoundSubkeyGeneration(state)

	op.generateSubkeys([]uint64{1, 2, 3, 4})
	gen.generateRoundSubkeys()
	first := append([]uint64(nil), gen.vector...)

	gen.generateRoundSubkeys()
	same := true
	for i := range first {
		if gen.vector[i] != first[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("consecutive generations produced an identical subkey vector")
	}
	if gen.transformationCounter != 2 {
		t.Fatalf("counter = %d, want 2", gen.transformationCounter)
	}
}

func TestShuffleIndicesStaysPermutation(t *testing.T) {
	state := testCommonState(t)
	for round := 0; round < 16; round++ {
		state.shuffleIndices()
		var seen [8]bool
		for _, v := range state.matrixOffsetWithRandomIndices {
			if v >= 8 || seen[v] {
				t.Fatalf("index set is no longer a permutation after shuffle %d", round)
			}
			seen[v] = true
		}
	}
}

func TestCrazyTransformDeterministicReadOnly(t *testing.T) {
	state := testCommonState(t)
	op := newSubkeyMatrixOperation(state, newMixTransform(state))
	gen := newRoundSubkeyGeneration(state)

	op.generateSubkeys([]uint64{9, 8, 7, 6})
	gen.generateRoundSubkeys()

	snapshot := append([]uint64(nil), gen.matrix...)

	first := gen.crazyTransform(0xDEADBEEF, 0x0123456789ABCDEF)
	second := gen.crazyTransform(0xDEADBEEF, 0x0123456789ABCDEF)
	if first != second {
		t.Fatal("crazy transform is not a pure function of word, key and state")
	}

	for i := range snapshot {
		if gen.matrix[i] != snapshot[i] {
			t.Fatal("crazy transform mutated the round-subkey matrix")
		}
	}
}
