package opc

import "runtime"

// zeroizeBytes overwrites buf with zeros via a store the compiler cannot prove
// dead and elide. runtime.KeepAlive pins buf past the loop so the dead-store
// elimination pass has no excuse to drop it, mirroring the volatile-pointer
// wipe trick the reference implementation relies on.
func zeroizeBytes(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
	runtime.KeepAlive(buf)
}

// zeroizeWords64 overwrites a uint64 slice in place.
func zeroizeWords64(buf []uint64) {
	for i := range buf {
		buf[i] = 0
	}
	runtime.KeepAlive(buf)
}

// zeroizeWords32 overwrites a uint32 slice in place.
func zeroizeWords32(buf []uint32) {
	for i := range buf {
		buf[i] = 0
	}
	runtime.KeepAlive(buf)
}

// destroy clears the register state so a discarded generator leaves no key
// material behind.
func (l *LFSR) destroy() {
	l.a, l.b = 0, 0
	runtime.KeepAlive(l)
}

func (n *NLFSR) destroy() {
	zeroizeWords64(n.state[:])
}

func (s *SDP) destroy() {
	*s = SDP{}
	runtime.KeepAlive(s)
}

// verifyZero is the diagnostic-mode sampled self-check: it reports whether
// every sampled position reads back as zero. A failure surfaces as
// KindStateCorruption at the caller's discretion.
func verifyZero(buf []uint64, sampleEvery int) bool {
	if sampleEvery <= 0 {
		sampleEvery = 1
	}
	for i := 0; i < len(buf); i += sampleEvery {
		if buf[i] != 0 {
			return false
		}
	}
	return true
}
