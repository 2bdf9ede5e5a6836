package opc

import "testing"

func testCommonState(t *testing.T) *commonState {
	t.Helper()
	state, err := newCommonState(Config{
		DataBlockQuadWords: 2,
		KeyBlockQuadWords:  4,
		InitialVector:      make([]byte, 16),
		LFSRSeed:           1,
		NLFSRSeed:          1,
		SDPSeed:            0xB7E151628AED2A6A,
	})
	if err != nil {
		t.Fatalf("newCommonState: %v", err)
	}
	return state
}

func TestSwapBitsInvolution(t *testing.T) {
	cases := []struct {
		word       uint32
		pos, pos2  uint32
	}{
		{0x00000001, 0, 31},
		{0x80000000, 0, 31},
		{0x12345678, 3, 17},
		{0xFFFFFFFF, 5, 9},
	}
	for _, tc := range cases {
		once := swapBits(tc.word, tc.pos, tc.pos2)
		twice := swapBits(once, tc.pos, tc.pos2)
		if twice != tc.word {
			t.Fatalf("swapBits(%#x, %d, %d) is not an involution", tc.word, tc.pos, tc.pos2)
		}
	}
}

func TestWordBitRestructPreservesPopcount(t *testing.T) {
	popcount := func(x uint32) int {
		n := 0
		for ; x != 0; x &= x - 1 {
			n++
		}
		return n
	}
	for _, word := range []uint32{0, 1, 0xFFFFFFFF, 0x12345678, 0xA5A5A5A5} {
		if popcount(wordBitRestruct(word)) != popcount(word) {
			t.Fatalf("restructure changed the bit count of %#x", word)
		}
	}
}

func TestExpandKeyWordsShape(t *testing.T) {
	out := expandKeyWords([]uint32{0x01000000, 0xDEADBEEF, 0})
	if len(out) != 36 {
		t.Fatalf("expected 12 subkeys per input word, got %d for 3 inputs", len(out))
	}

	again := expandKeyWords([]uint32{0x01000000, 0xDEADBEEF, 0})
	for i := range out {
		if out[i] != again[i] {
			t.Fatalf("expansion is not deterministic at word %d", i)
		}
	}
}

func TestExpandKeyWordsConsistency(t *testing.T) {
	// The derived six subkeys are pairwise XORs of the first six.
	out := expandKeyWords([]uint32{0xCAFEBABE})
	pairs := [][3]int{{0, 2, 6}, {1, 3, 7}, {2, 4, 8}, {3, 5, 9}, {4, 0, 10}, {5, 1, 11}}
	for _, p := range pairs {
		if out[p[0]]^out[p[1]] != out[p[2]] {
			t.Fatalf("subkey %d should be subkey %d ^ subkey %d", p[2], p[0], p[1])
		}
	}
}

func TestMixTransformInitializeDeterministic(t *testing.T) {
	a := newMixTransform(testCommonState(t))
	b := newMixTransform(testCommonState(t))

	a.initialize()
	b.initialize()
	if a.regs != b.regs {
		t.Fatal("identical seeding should give identical mixer registers")
	}

	material := [4]uint32{1, 2, 3, 4}
	for i := 0; i < 64; i++ {
		if a.keyWithFunction(material) != b.keyWithFunction(material) {
			t.Fatalf("keyWithFunction diverged at round %d", i)
		}
		if a.streamCipherFunction(material) != b.streamCipherFunction(material) {
			t.Fatalf("streamCipherFunction diverged at round %d", i)
		}
	}
}

func TestMixTransformStateAdvances(t *testing.T) {
	m := newMixTransform(testCommonState(t))
	m.initialize()

	material := [4]uint32{0, 0, 0, 0}
	first := m.keyWithFunction(material)
	second := m.keyWithFunction(material)
	if first == second {
		t.Fatal("mixer state did not advance between calls")
	}
}
