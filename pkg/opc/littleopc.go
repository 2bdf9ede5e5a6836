package opc

import (
	"encoding/binary"
	"math/bits"
)

// LittleOPC is the reduced sibling cipher: 64-bit blocks, a 64-bit key,
// eight rounds of the same Lai-Massey template with the same dual-SBox byte
// substitution, and a 128-entry round-subkey table expanded once from the
// key by the mix transform. Unlike the main cipher the instance does not
// mutate itself; block calls are pure, which is what makes the counter-mode
// wrapper usable.
type LittleOPC struct {
	subkeys [littleSubkeyCount]uint64
}

const (
	littleRounds      = 8
	littleSubkeyCount = 128
	// littleKeysPerRound makes the eight rounds cover the subkey table
	// exactly once per block.
	littleKeysPerRound = littleSubkeyCount / littleRounds
)

// NewLittleOPC expands the 64-bit key into the round-subkey table.
func NewLittleOPC(key uint64) *LittleOPC {
	l := &LittleOPC{}
	l.expandKey(key)
	return l
}

// expandKey reuses the main cipher's mix transform: the two mixer registers
// are seeded from the key, the key's word halves run through the 12-way
// subkey expansion, and the expanded pool feeds the two mixing rounds that
// emit the table entries.
func (l *LittleOPC) expandKey(key uint64) {
	mix := &mixTransform{}
	mix.regs[0] = uint32(key>>32) ^ 0xB7E15162
	mix.regs[1] = uint32(key) ^ 0x8AED2A6A

	pool := expandKeyWords([]uint32{uint32(key), uint32(key >> 32)})

	index := 0
	next := func() [4]uint32 {
		var out [4]uint32
		for i := range out {
			out[i] = pool[index%len(pool)] + uint32(index)
			index++
		}
		return out
	}

	for i := range l.subkeys {
		low := mix.keyWithFunction(next())
		high := mix.streamCipherFunction(next())
		l.subkeys[i] = uint64(high)<<32 | uint64(low)
	}

	zeroizeWords32(pool)
	mix.destroy()
}

// crazyTransform is the reduced one-way mixer: the same word stir as the
// main cipher, indexing the flat 128-entry table instead of the shuffled
// subkey matrix.
func (l *LittleOPC) crazyTransform(associatedWord uint32, keyMaterial uint64) uint32 {
	leftKey := uint32(keyMaterial >> 32)
	rightKey := uint32(keyMaterial)

	pseudoRandom := ((keyMaterial ^ uint64(associatedWord)) << 32) |
		((^keyMaterial ^ uint64(associatedWord)) >> 32)

	s := uint(keyMaterial & 63)
	c := uint32((pseudoRandom << s) >> 32)
	d := uint32(pseudoRandom >> s)

	c = (associatedWord | leftKey) & c
	d = (associatedWord & rightKey) | d

	a := c
	b := d

	rot := int(pseudoRandom % 32)
	a = bits.RotateLeft32(a+leftKey, rot)
	b = bits.RotateLeft32(b+rightKey, -rot)

	c = (b & ^leftKey) ^ (d | associatedWord)
	d = (a & ^rightKey) ^ (c | associatedWord)

	a ^= c
	b ^= d

	row := a % littleSubkeyCount
	column := b % littleSubkeyCount

	shiftAmount := a + b
	shiftAmount2 := a + b*2
	rotateAmount := column - row
	rotateAmount2 := 2*row - column

	roundSubkey := l.subkeys[(row+column)%littleSubkeyCount]

	subkeyBit := (roundSubkey >> (shiftAmount % 64)) & 1
	subkeyBit2 := (roundSubkey >> (shiftAmount2 % 64)) & 1

	leftRotatedMask := bits.RotateLeft64(subkeyBit, int(rotateAmount%64))
	rightRotatedMask := bits.RotateLeft64(subkeyBit2, -int(rotateAmount2%64))

	bitMask := leftRotatedMask ^ rightRotatedMask
	bitMask |= ctIsZeroU64(bitMask) << ((uint64(row) + uint64(column)) * 2 % 64)

	roundSubkey &^= bitMask

	a ^= uint32(roundSubkey >> 32)
	b ^= uint32(roundSubkey)

	return associatedWord ^ a ^ b
}

func (l *LittleOPC) laiMassey(wordData, wordKeyMaterial uint64, direction cipherDirection) uint64 {
	if direction == directionEncrypt {
		left := uint32(wordData >> 32)
		right := uint32(wordData)

		transformKey := l.crazyTransform(left^right, wordKeyMaterial)

		left ^= transformKey
		right ^= transformKey

		left, right = forwardTransform(left, right)

		return uint64(left)<<32 | uint64(right)
	}

	left := uint32(wordData >> 32)
	right := uint32(wordData)

	left, right = backwardTransform(left, right)

	transformKey := l.crazyTransform(left^right, wordKeyMaterial)

	right ^= transformKey
	left ^= transformKey

	return uint64(left)<<32 | uint64(right)
}

func (l *LittleOPC) substituteBytes(word uint64, direction cipherDirection) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], word)

	if direction == directionEncrypt {
		buf[0] = fsb1Table[buf[0]]
		buf[1] = fsb0Table[buf[1]]
		buf[2] = bsb1Table[buf[2]]
		buf[3] = bsb0Table[buf[3]]
		buf[4] = fsb0Table[buf[4]]
		buf[5] = bsb1Table[buf[5]]
		buf[6] = fsb0Table[buf[6]]
		buf[7] = bsb1Table[buf[7]]
	} else {
		buf[0] = bsb1Table[buf[0]]
		buf[1] = bsb0Table[buf[1]]
		buf[2] = fsb1Table[buf[2]]
		buf[3] = fsb0Table[buf[3]]
		buf[4] = bsb0Table[buf[4]]
		buf[5] = fsb1Table[buf[5]]
		buf[6] = bsb0Table[buf[6]]
		buf[7] = fsb1Table[buf[7]]
	}

	out := binary.LittleEndian.Uint64(buf[:])
	zeroizeBytes(buf[:])
	return out
}

// EncryptBlock runs the eight-round Lai-Massey loop over one 64-bit block,
// walking the full subkey table exactly once.
func (l *LittleOPC) EncryptBlock(block uint64) uint64 {
	keyIndex := 0
	for round := 0; round < littleRounds; round++ {
		for step := 0; step < littleKeysPerRound; step++ {
			block = l.laiMassey(block, l.subkeys[keyIndex], directionEncrypt)
			keyIndex++
		}
		block = l.substituteBytes(block, directionEncrypt)
	}
	return block
}

// DecryptBlock inverts EncryptBlock.
func (l *LittleOPC) DecryptBlock(block uint64) uint64 {
	keyIndex := littleSubkeyCount
	for round := 0; round < littleRounds; round++ {
		block = l.substituteBytes(block, directionDecrypt)
		for step := 0; step < littleKeysPerRound; step++ {
			block = l.laiMassey(block, l.subkeys[keyIndex-1], directionDecrypt)
			keyIndex--
		}
	}
	return block
}

// StreamXOR applies the deterministic counter-mode keystream starting at
// nonce to src, writing into dst (which may alias src). Encryption and
// decryption are the same operation.
func (l *LittleOPC) StreamXOR(nonce uint64, dst, src []byte) {
	counter := nonce
	offset := 0
	var ksBytes [8]byte

	for offset < len(src) {
		keystream := l.EncryptBlock(counter)
		counter++
		binary.LittleEndian.PutUint64(ksBytes[:], keystream)

		n := len(src) - offset
		if n > 8 {
			n = 8
		}
		for i := 0; i < n; i++ {
			dst[offset+i] = src[offset+i] ^ ksBytes[i]
		}
		offset += n
	}

	zeroizeBytes(ksBytes[:])
}

// Destroy wipes the subkey table.
func (l *LittleOPC) Destroy() {
	zeroizeWords64(l.subkeys[:])
}
