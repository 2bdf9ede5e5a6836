package opc

// Config fixes the shape and seeding of one cipher instance. All invariants
// are enforced once by Validate; New refuses to build from a config that
// does not pass.
type Config struct {
	// DataBlockQuadWords is the block width in 64-bit words. Must be a
	// multiple of 2 and at least 2 (the 128-bit OPC-main block).
	DataBlockQuadWords uint64

	// KeyBlockQuadWords is the key-schedule granule in 64-bit words. Must be
	// a multiple of 4, at least 4, strictly greater than and divisible by
	// DataBlockQuadWords.
	KeyBlockQuadWords uint64

	// InitialVector associates word data with the key schedule. Its length
	// must be a multiple of DataBlockQuadWords*8 bytes (zero length is
	// allowed).
	InitialVector []byte

	LFSRSeed  uint64 // must not be 0
	NLFSRSeed uint64 // must not be 0
	SDPSeed   uint64 // must be at least 10_000_000_000
}

// sdpSeedFloor is the smallest bit-sequence seed that keeps the simulated
// double pendulum away from its degenerate rest configurations.
const sdpSeedFloor = 0x2540BE400

// Validate checks every construction invariant and reports the first
// violation as a ConfigInvalid error.
func (c *Config) Validate() error {
	if c.DataBlockQuadWords%2 != 0 || c.DataBlockQuadWords < 2 {
		return newError(KindConfigInvalid, "DataBlockQuadWords must be a multiple of 2 quad-words and not less than 2 quad-words (128 bit)")
	}
	if c.KeyBlockQuadWords%4 != 0 || c.KeyBlockQuadWords < 4 {
		return newError(KindConfigInvalid, "KeyBlockQuadWords must be a multiple of 4 quad-words and not less than 4 quad-words (256 bit)")
	}
	if c.KeyBlockQuadWords <= c.DataBlockQuadWords || c.KeyBlockQuadWords%c.DataBlockQuadWords != 0 {
		return newError(KindConfigInvalid, "KeyBlockQuadWords must be a strict multiple of DataBlockQuadWords")
	}
	if uint64(len(c.InitialVector))%(c.DataBlockQuadWords*8) != 0 {
		return newError(KindConfigInvalid, "InitialVector length is not a multiple of DataBlockQuadWords*8 bytes")
	}
	if c.LFSRSeed == 0 || c.NLFSRSeed == 0 {
		return newError(KindConfigInvalid, "LFSR and NLFSR seeds must not be zero")
	}
	if c.SDPSeed < sdpSeedFloor {
		return newError(KindConfigInvalid, "SDP seed is too small to drive the chaotic pendulum")
	}
	return nil
}

// commonState owns everything one cipher instance mutates: the three
// generators, the word initial vector, the key-material buffer, the two
// square subkey matrices and the shuffled index permutation over their axes.
// Matrices are stored flat, row-major, with stride matrixRows.
type commonState struct {
	lfsr  *LFSR
	nlfsr *NLFSR
	sdp   *SDP

	wordInitialVector []uint32
	wordKeyBuffer     []uint64

	matrixRows    int
	matrixColumns int

	randomWordMatrix        []uint64
	transformedSubkeyMatrix []uint64

	matrixOffsetWithRandomIndices []uint32

	dataBlockQuadWords int
	keyBlockQuadWords  int
}

func newCommonState(cfg Config) (*commonState, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	n := int(cfg.KeyBlockQuadWords) * 2

	s := &commonState{
		lfsr:  NewLFSR(cfg.LFSRSeed),
		nlfsr: NewNLFSR(cfg.NLFSRSeed),
		sdp:   NewSDP(cfg.SDPSeed),

		wordInitialVector: packWords32(cfg.InitialVector),
		wordKeyBuffer:     make([]uint64, cfg.KeyBlockQuadWords),

		matrixRows:    n,
		matrixColumns: n,

		randomWordMatrix:        make([]uint64, n*n),
		transformedSubkeyMatrix: make([]uint64, n*n),

		matrixOffsetWithRandomIndices: make([]uint32, n),

		dataBlockQuadWords: int(cfg.DataBlockQuadWords),
		keyBlockQuadWords:  int(cfg.KeyBlockQuadWords),
	}

	for i := range s.matrixOffsetWithRandomIndices {
		s.matrixOffsetWithRandomIndices[i] = uint32(i)
	}

	return s, nil
}

// shuffleIndices runs Fisher-Yates over the index permutation with the NLFSR
// as the random source, keeping it a permutation of 0..N-1 at all times.
func (s *commonState) shuffleIndices() {
	indices := s.matrixOffsetWithRandomIndices
	for i := len(indices) - 1; i > 0; i-- {
		j := int(s.nlfsr.Next() % uint64(i+1))
		indices[i], indices[j] = indices[j], indices[i]
	}
}

// destroy wipes every sensitive buffer this state owns.
func (s *commonState) destroy() {
	zeroizeWords32(s.matrixOffsetWithRandomIndices)
	zeroizeWords32(s.wordInitialVector)
	zeroizeWords64(s.wordKeyBuffer)
	zeroizeWords64(s.randomWordMatrix)
	zeroizeWords64(s.transformedSubkeyMatrix)
	s.lfsr.destroy()
	s.nlfsr.destroy()
	s.sdp.destroy()
}
