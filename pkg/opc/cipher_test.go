package opc

import (
	"bytes"
	"testing"
)

func referenceConfig() Config {
	return Config{
		DataBlockQuadWords: 2,
		KeyBlockQuadWords:  4,
		InitialVector:      make([]byte, 16),
		LFSRSeed:           1,
		NLFSRSeed:          1,
		SDPSeed:            0xB7E151628AED2A6A,
	}
}

func referenceKeys() []byte {
	keys := make([]byte, 32)
	keys[0] = 0x01
	return keys
}

func newTestCipher(t *testing.T) *Cipher {
	t.Helper()
	c, err := New(referenceConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"odd data block", func(c *Config) { c.DataBlockQuadWords = 3 }},
		{"zero data block", func(c *Config) { c.DataBlockQuadWords = 0 }},
		{"key block not multiple of 4", func(c *Config) { c.KeyBlockQuadWords = 6 }},
		{"key block equals data block", func(c *Config) { c.DataBlockQuadWords = 4 }},
		{"key block not multiple of data block", func(c *Config) { c.DataBlockQuadWords = 6; c.KeyBlockQuadWords = 8 }},
		{"misaligned iv", func(c *Config) { c.InitialVector = make([]byte, 15) }},
		{"zero lfsr seed", func(c *Config) { c.LFSRSeed = 0 }},
		{"zero nlfsr seed", func(c *Config) { c.NLFSRSeed = 0 }},
		{"small sdp seed", func(c *Config) { c.SDPSeed = 9_999_999_999 }},
	}

	for _, tc := range cases {
		cfg := referenceConfig()
		tc.mutate(&cfg)
		if _, err := New(cfg); !IsKind(err, KindConfigInvalid) {
			t.Errorf("%s: expected ConfigInvalid, got %v", tc.name, err)
		}
	}

	cfg := referenceConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("reference config should validate: %v", err)
	}
}

// Minimum-size round trip: encryption is deterministic, changes the data,
// and a fresh instance with the same config inverts it.
func TestRoundTripMinimumSize(t *testing.T) {
	plaintext := make([]byte, 16)
	keys := referenceKeys()

	c1 := newTestCipher(t)
	ct, err := c1.EncryptWithoutPadding(plaintext, keys)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if bytes.Equal(ct, plaintext) {
		t.Fatal("ciphertext equals plaintext")
	}

	c1b := newTestCipher(t)
	ct2, err := c1b.EncryptWithoutPadding(plaintext, keys)
	if err != nil {
		t.Fatalf("encrypt again: %v", err)
	}
	if !bytes.Equal(ct, ct2) {
		t.Fatal("encryption with identical fresh instances is not deterministic")
	}

	c2 := newTestCipher(t)
	pt, err := c2.DecryptWithoutPadding(ct, keys)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if !bytes.Equal(pt, plaintext) {
		t.Fatal("fresh-instance decryption did not restore the plaintext")
	}
}

func TestRoundTripUnpaddedRandomBlock(t *testing.T) {
	plaintext := []byte{
		0x54, 0x68, 0x65, 0x20, 0x71, 0x75, 0x69, 0x63,
		0x6B, 0x20, 0x62, 0x72, 0x6F, 0x77, 0x6E, 0x21,
	}
	keys := referenceKeys()

	ct, err := newTestCipher(t).EncryptWithoutPadding(plaintext, keys)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if len(ct) != 16 {
		t.Fatalf("ciphertext length = %d, want 16", len(ct))
	}

	pt, err := newTestCipher(t).DecryptWithoutPadding(ct, keys)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if !bytes.Equal(pt, plaintext) {
		t.Fatal("round trip failed")
	}
}

func TestRoundTripPaddedNonAligned(t *testing.T) {
	plaintext := make([]byte, 17)
	for i := range plaintext {
		plaintext[i] = byte(i + 1)
	}
	keys := referenceKeys()

	ct, err := newTestCipher(t).EncryptWithPadding(plaintext, keys)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if len(ct) != 32 {
		t.Fatalf("ciphertext length = %d, want 32 (one payload block plus pad block)", len(ct))
	}

	pt, err := newTestCipher(t).DecryptWithPadding(ct, keys)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if !bytes.Equal(pt, plaintext) {
		t.Fatal("padded round trip failed")
	}
}

func TestPaddingLayout(t *testing.T) {
	c := newTestCipher(t)
	padded := c.padData(make([]byte, 17))
	if len(padded) != 32 {
		t.Fatalf("padded length = %d, want 32", len(padded))
	}
	if padded[31] != 15 {
		t.Fatalf("pad length byte = %d, want 15", padded[31])
	}

	// Block-aligned input still gains a full pad block.
	padded = c.padData(make([]byte, 16))
	if len(padded) != 32 || padded[31] != 16 {
		t.Fatalf("aligned input: length %d, pad byte %d; want 32 and 16", len(padded), padded[31])
	}
}

// Cross-regime transition: both key blocks are consumed, then the driver
// enters the master-exhausted regime for the remaining blocks.
func TestRoundTripCrossRegime(t *testing.T) {
	plaintext := make([]byte, 32*3)
	for i := range plaintext {
		plaintext[i] = byte(i * 7)
	}
	keys := make([]byte, 32*2)
	for i := range keys {
		keys[i] = byte(i)
	}

	ct, err := newTestCipher(t).EncryptWithoutPadding(plaintext, keys)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	pt, err := newTestCipher(t).DecryptWithoutPadding(ct, keys)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if !bytes.Equal(pt, plaintext) {
		t.Fatal("cross-regime round trip failed")
	}
}

// Non-symmetry within one instance: the state mutation left behind by the
// encrypt call makes the same instance unable to invert its own output.
func TestNoSymmetryWithinOneInstance(t *testing.T) {
	plaintext := make([]byte, 16)
	keys := referenceKeys()

	c := newTestCipher(t)
	ct, err := c.EncryptWithoutPadding(plaintext, keys)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	pt, err := c.DecryptWithoutPadding(ct, keys)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if bytes.Equal(pt, plaintext) {
		t.Fatal("same-instance decrypt inverted the encrypt; the self-mutating schedule is broken")
	}
}

func TestResetRestoresInitialState(t *testing.T) {
	plaintext := make([]byte, 16)
	keys := referenceKeys()

	c := newTestCipher(t)
	ct, err := c.EncryptWithoutPadding(plaintext, keys)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	if err := c.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	pt, err := c.DecryptWithoutPadding(ct, keys)
	if err != nil {
		t.Fatalf("decrypt after reset: %v", err)
	}
	if !bytes.Equal(pt, plaintext) {
		t.Fatal("reset instance did not behave like a fresh one")
	}
}

func TestHandleStyleEncryptDecrypt(t *testing.T) {
	keys := referenceKeys()

	// Misaligned input selects the padded mode and resets the handle, so the
	// mirrored Decrypt call on the same handle succeeds.
	plaintext := []byte("seventeen bytes!!")
	c := newTestCipher(t)
	ct, err := c.Encrypt(keys, plaintext)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	pt, err := c.Decrypt(keys, ct, true)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if !bytes.Equal(pt, plaintext) {
		t.Fatal("handle-style round trip failed")
	}
}

func TestSizeMismatchErrors(t *testing.T) {
	c := newTestCipher(t)
	keys := referenceKeys()

	if _, err := c.EncryptWithoutPadding(make([]byte, 15), keys); !IsKind(err, KindSizeMismatch) {
		t.Errorf("misaligned plaintext: got %v", err)
	}
	if _, err := c.EncryptWithoutPadding(make([]byte, 16), make([]byte, 31)); !IsKind(err, KindSizeMismatch) {
		t.Errorf("misaligned keys: got %v", err)
	}
	if _, err := c.EncryptWithoutPadding(make([]byte, 16), nil); !IsKind(err, KindSizeMismatch) {
		t.Errorf("empty keys: got %v", err)
	}
	if _, err := c.DecryptWithPadding(make([]byte, 8), keys); !IsKind(err, KindSizeMismatch) {
		t.Errorf("misaligned ciphertext: got %v", err)
	}
}

func TestUnpadRejectsImpossibleLengths(t *testing.T) {
	c := newTestCipher(t)

	data := make([]byte, 32)
	data[31] = 0
	if _, err := c.unpadData(data); !IsKind(err, KindPaddingInvalid) {
		t.Error("pad length 0 accepted")
	}
	data[31] = 17
	if _, err := c.unpadData(data); !IsKind(err, KindPaddingInvalid) {
		t.Error("pad length beyond block size accepted")
	}
	data[31] = 16
	if _, err := c.unpadData(data); err != nil {
		t.Errorf("full-block pad rejected: %v", err)
	}
}

// A one-bit plaintext change should flip a large share of the affected
// lane's ciphertext bytes.
func TestByteDifferenceSensitivity(t *testing.T) {
	keys := referenceKeys()
	plaintext := make([]byte, 16)

	ct1, err := newTestCipher(t).EncryptWithoutPadding(plaintext, keys)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	flipped := append([]byte(nil), plaintext...)
	flipped[0] ^= 0x01
	ct2, err := newTestCipher(t).EncryptWithoutPadding(flipped, keys)
	if err != nil {
		t.Fatalf("encrypt flipped: %v", err)
	}

	diff := 0
	for i := range ct1 {
		if ct1[i] != ct2[i] {
			diff++
		}
	}
	if diff < 6 {
		t.Fatalf("only %d of %d ciphertext bytes changed", diff, len(ct1))
	}
}

func TestDestroyWipesState(t *testing.T) {
	c := newTestCipher(t)
	if _, err := c.EncryptWithoutPadding(make([]byte, 16), referenceKeys()); err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	state := c.state
	rsg := c.rsg
	c.Destroy()

	if !verifyZero(state.wordKeyBuffer, 1) {
		t.Error("key buffer survived Destroy")
	}
	if !verifyZero(state.transformedSubkeyMatrix, 1) {
		t.Error("transformed subkey matrix survived Destroy")
	}
	if !verifyZero(rsg.matrix, 1) || !verifyZero(rsg.vector, 1) {
		t.Error("round-subkey state survived Destroy")
	}
}
