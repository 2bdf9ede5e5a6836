package opc

import (
	"bytes"
	"testing"
)

func TestLittleOPCSingleRound(t *testing.T) {
	l := NewLittleOPC(0x0123456789ABCDEF)

	plaintext := uint64(0x1122334455667788)
	ciphertext := l.EncryptBlock(plaintext)
	if ciphertext == plaintext {
		t.Fatal("ciphertext equals plaintext")
	}
	if got := l.DecryptBlock(ciphertext); got != plaintext {
		t.Fatalf("decrypt = %#x, want %#x", got, plaintext)
	}
}

func TestLittleOPCMultipleRounds(t *testing.T) {
	l := NewLittleOPC(0xFEDCBA9876543210)

	for i := 0; i < 1024; i++ {
		plaintext := uint64(i) * 0x9E3779B97F4A7C15
		if got := l.DecryptBlock(l.EncryptBlock(plaintext)); got != plaintext {
			t.Fatalf("round trip failed for block %d", i)
		}
	}
}

func TestLittleOPCKeySeparation(t *testing.T) {
	a := NewLittleOPC(1)
	b := NewLittleOPC(2)
	if a.EncryptBlock(0) == b.EncryptBlock(0) {
		t.Fatal("different keys produced identical ciphertext for the zero block")
	}
}

func TestLittleOPCBlockIsPure(t *testing.T) {
	l := NewLittleOPC(42)
	first := l.EncryptBlock(0xAA55AA55AA55AA55)
	second := l.EncryptBlock(0xAA55AA55AA55AA55)
	if first != second {
		t.Fatal("block encryption mutated instance state")
	}
}

func TestLittleOPCCounterModeRoundTrip(t *testing.T) {
	l := NewLittleOPC(0xDEADBEEFCAFEBABE)

	message := []byte("counter mode keystream over a message that is not block aligned")
	ciphertext := make([]byte, len(message))
	l.StreamXOR(100, ciphertext, message)

	if bytes.Equal(ciphertext, message) {
		t.Fatal("keystream left the message unchanged")
	}

	recovered := make([]byte, len(ciphertext))
	l.StreamXOR(100, recovered, ciphertext)
	if !bytes.Equal(recovered, message) {
		t.Fatal("counter-mode round trip failed")
	}
}

func TestLittleOPCCounterModeNonceSeparation(t *testing.T) {
	l := NewLittleOPC(7)

	message := make([]byte, 64)
	a := make([]byte, len(message))
	b := make([]byte, len(message))
	l.StreamXOR(0, a, message)
	l.StreamXOR(1, b, message)

	if bytes.Equal(a, b) {
		t.Fatal("distinct nonces produced an identical keystream")
	}
}

func TestLittleOPCStreamXORInPlace(t *testing.T) {
	l := NewLittleOPC(99)

	message := []byte("in-place buffers must work")
	buf := append([]byte(nil), message...)
	l.StreamXOR(5, buf, buf)
	l.StreamXOR(5, buf, buf)
	if !bytes.Equal(buf, message) {
		t.Fatal("in-place double application did not restore the message")
	}
}

func TestLittleOPCDestroy(t *testing.T) {
	l := NewLittleOPC(1)
	l.Destroy()
	if !verifyZero(l.subkeys[:], 1) {
		t.Fatal("subkey table survived Destroy")
	}
}
