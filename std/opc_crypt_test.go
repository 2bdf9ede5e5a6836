package std

import (
	"bytes"
	"testing"
)

func TestLittleOPCBlockCryptRoundTrip(t *testing.T) {
	sender, err := NewLittleOPCBlockCrypt([]byte("pre-shared secret"))
	if err != nil {
		t.Fatalf("NewLittleOPCBlockCrypt: %v", err)
	}
	receiver, err := NewLittleOPCBlockCrypt([]byte("pre-shared secret"))
	if err != nil {
		t.Fatalf("NewLittleOPCBlockCrypt: %v", err)
	}

	packet := []byte("an arbitrary-length transport packet, not block aligned")
	encrypted := make([]byte, len(packet))
	sender.Encrypt(encrypted, packet)
	if bytes.Equal(encrypted, packet) {
		t.Fatal("packet was not transformed")
	}

	decrypted := make([]byte, len(encrypted))
	receiver.Decrypt(decrypted, encrypted)
	if !bytes.Equal(decrypted, packet) {
		t.Fatal("independent endpoints with the same key did not agree")
	}
}

func TestOPCBlockCryptRoundTrip(t *testing.T) {
	sender, err := NewOPCBlockCrypt([]byte("another secret"))
	if err != nil {
		t.Fatalf("NewOPCBlockCrypt: %v", err)
	}
	receiver, err := NewOPCBlockCrypt([]byte("another secret"))
	if err != nil {
		t.Fatalf("NewOPCBlockCrypt: %v", err)
	}

	packet := make([]byte, 1024)
	for i := range packet {
		packet[i] = byte(i)
	}
	encrypted := make([]byte, len(packet))
	sender.Encrypt(encrypted, packet)
	decrypted := make([]byte, len(encrypted))
	receiver.Decrypt(decrypted, encrypted)
	if !bytes.Equal(decrypted, packet) {
		t.Fatal("round trip failed")
	}
}

func TestOPCKeySeparation(t *testing.T) {
	a, err := NewOPCBlockCrypt([]byte("key a"))
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewOPCBlockCrypt([]byte("key b"))
	if err != nil {
		t.Fatal(err)
	}

	packet := make([]byte, 64)
	outA := make([]byte, len(packet))
	outB := make([]byte, len(packet))
	a.Encrypt(outA, packet)
	b.Encrypt(outB, packet)
	if bytes.Equal(outA, outB) {
		t.Fatal("different pass phrases produced identical keystreams")
	}
}

func TestSelectBlockCryptKnowsOPC(t *testing.T) {
	for _, name := range []string{"opc", "little-opc"} {
		block, effective := SelectBlockCrypt(name, []byte("0123456789abcdef0123456789abcdef"))
		if effective != name {
			t.Fatalf("%s fell back to %s", name, effective)
		}
		if block == nil {
			t.Fatalf("%s returned a nil BlockCrypt", name)
		}
	}
}
