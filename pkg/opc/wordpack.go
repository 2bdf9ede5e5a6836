package opc

import "encoding/binary"

// Byte <-> word packing. Every byte boundary in this package is little-endian;
// on big-endian hosts encoding/binary performs the required swap for us.

func packWords64(data []byte) []uint64 {
	words := make([]uint64, len(data)/8)
	for i := range words {
		words[i] = binary.LittleEndian.Uint64(data[i*8:])
	}
	return words
}

func unpackWords64(words []uint64, data []byte) {
	for i, w := range words {
		binary.LittleEndian.PutUint64(data[i*8:], w)
	}
}

func packWords32(data []byte) []uint32 {
	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return words
}

// splitWords64 exposes a 64-bit word sequence as its little-endian 32-bit view.
func splitWords64(words []uint64) []uint32 {
	out := make([]uint32, 0, len(words)*2)
	for _, w := range words {
		out = append(out, uint32(w), uint32(w>>32))
	}
	return out
}
