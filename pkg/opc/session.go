package opc

import (
	"crypto/rand"
	"crypto/sha512"
	"encoding/binary"
	"math/bits"

	"golang.org/x/crypto/scrypt"
)

// Cipher is one OPC instance. Every EncryptWith*/DecryptWith* call
// irreversibly advances the internal key schedule: the same instance cannot
// invert that output as it stands. To decrypt, build a fresh instance from
// the same Config (or call Reset) and feed it the same master keys. Encrypt
// and Decrypt call Reset themselves before returning.
type Cipher struct {
	cfg Config

	state    *commonState
	mix      *mixTransform
	subkeyOp *subkeyMatrixOperation
	rsg      *roundSubkeyGeneration
	rf       *roundFunction

	// roundSubkeysCounter tracks how many times the subkey state advanced
	// within the current call. Zeroed when the call returns.
	roundSubkeysCounter uint64
}

// New validates cfg and builds a cipher instance. The initial vector is
// copied, so the caller may reuse or wipe its buffer.
func New(cfg Config) (*Cipher, error) {
	cfg.InitialVector = append([]byte(nil), cfg.InitialVector...)

	state, err := newCommonState(cfg)
	if err != nil {
		return nil, err
	}

	c := &Cipher{cfg: cfg, state: state}
	c.mix = newMixTransform(state)
	c.subkeyOp = newSubkeyMatrixOperation(state, c.mix)
	c.rsg = newRoundSubkeyGeneration(state)
	c.rf = newRoundFunction(state, c.rsg)
	return c, nil
}

// Reset wipes all mutated state and rebuilds the instance from the saved
// config, restoring the exact post-construction state.
func (c *Cipher) Reset() error {
	c.wipe()

	state, err := newCommonState(c.cfg)
	if err != nil {
		return err
	}
	c.state = state
	c.mix = newMixTransform(state)
	c.subkeyOp = newSubkeyMatrixOperation(state, c.mix)
	c.rsg = newRoundSubkeyGeneration(state)
	c.rf = newRoundFunction(state, c.rsg)
	c.roundSubkeysCounter = 0
	return nil
}

// Destroy wipes every sensitive buffer. The instance is unusable afterwards.
func (c *Cipher) Destroy() {
	c.wipe()
	c.state = nil
	c.mix = nil
	c.subkeyOp = nil
	c.rsg = nil
	c.rf = nil
}

func (c *Cipher) wipe() {
	if c.state != nil {
		c.state.destroy()
	}
	if c.mix != nil {
		c.mix.destroy()
	}
	if c.rsg != nil {
		c.rsg.destroy()
	}
	c.roundSubkeysCounter = 0
}

// BlockSizeBytes reports the data block width in bytes.
func (c *Cipher) BlockSizeBytes() int {
	return c.state.dataBlockQuadWords * 8
}

// KeyBlockSizeBytes reports the key-schedule granule in bytes.
func (c *Cipher) KeyBlockSizeBytes() int {
	return c.state.keyBlockQuadWords * 8
}

func (c *Cipher) checkKeys(keys []byte) error {
	if len(keys) == 0 || len(keys)%c.KeyBlockSizeBytes() != 0 {
		return newError(KindSizeMismatch, "key length is not a positive multiple of KeyBlockQuadWords*8 bytes")
	}
	return nil
}

// EncryptWithPadding pads the plaintext ISO 10126 style (random fill bytes,
// final byte carries the pad length) and encrypts it block by block.
func (c *Cipher) EncryptWithPadding(plaintext, keys []byte) ([]byte, error) {
	if err := c.checkKeys(keys); err != nil {
		return nil, err
	}
	padded := c.padData(plaintext)
	out, err := c.processBytes(padded, keys, directionEncrypt)
	zeroizeBytes(padded)
	return out, err
}

// DecryptWithPadding decrypts and strips the randomized padding, failing
// with PaddingInvalid when the recovered pad length is impossible.
func (c *Cipher) DecryptWithPadding(ciphertext, keys []byte) ([]byte, error) {
	if err := c.checkKeys(keys); err != nil {
		return nil, err
	}
	if len(ciphertext) == 0 || len(ciphertext)%c.BlockSizeBytes() != 0 {
		return nil, newError(KindSizeMismatch, "ciphertext length is not a positive multiple of the block size")
	}
	plain, err := c.processBytes(ciphertext, keys, directionDecrypt)
	if err != nil {
		return nil, err
	}
	return c.unpadData(plain)
}

// EncryptWithoutPadding rejects inputs that are not block aligned.
func (c *Cipher) EncryptWithoutPadding(plaintext, keys []byte) ([]byte, error) {
	if err := c.checkKeys(keys); err != nil {
		return nil, err
	}
	if len(plaintext) == 0 || len(plaintext)%c.BlockSizeBytes() != 0 {
		return nil, newError(KindSizeMismatch, "plaintext length is not a positive multiple of the block size")
	}
	return c.processBytes(plaintext, keys, directionEncrypt)
}

// DecryptWithoutPadding mirrors EncryptWithoutPadding.
func (c *Cipher) DecryptWithoutPadding(ciphertext, keys []byte) ([]byte, error) {
	if err := c.checkKeys(keys); err != nil {
		return nil, err
	}
	if len(ciphertext) == 0 || len(ciphertext)%c.BlockSizeBytes() != 0 {
		return nil, newError(KindSizeMismatch, "ciphertext length is not a positive multiple of the block size")
	}
	return c.processBytes(ciphertext, keys, directionDecrypt)
}

// Encrypt mirrors the external handle boundary: block-aligned input goes
// through the raw mode, anything else is padded, and the instance is reset
// afterwards so the symmetric Decrypt on the same handle succeeds.
func (c *Cipher) Encrypt(keys, input []byte) ([]byte, error) {
	var out []byte
	var err error
	if len(input)%c.BlockSizeBytes() == 0 {
		out, err = c.EncryptWithoutPadding(input, keys)
	} else {
		out, err = c.EncryptWithPadding(input, keys)
	}
	if err != nil {
		return nil, err
	}
	if err := c.Reset(); err != nil {
		return nil, err
	}
	return out, nil
}

// Decrypt is the mirror of Encrypt. A ciphertext produced by the padded mode
// is longer than its plaintext and never block-misaligned, so the choice
// keys off whether the caller's original input was aligned: raw-mode output
// is returned as-is, padded-mode output is unpadded.
func (c *Cipher) Decrypt(keys, input []byte, padded bool) ([]byte, error) {
	var out []byte
	var err error
	if padded {
		out, err = c.DecryptWithPadding(input, keys)
	} else {
		out, err = c.DecryptWithoutPadding(input, keys)
	}
	if err != nil {
		return nil, err
	}
	if err := c.Reset(); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Cipher) processBytes(data, keys []byte, direction cipherDirection) ([]byte, error) {
	dataWords := packWords64(data)
	keyWords := packWords64(keys)

	err := c.splitDataBlocks(dataWords, keyWords, direction)

	zeroizeWords64(keyWords)
	if err != nil {
		zeroizeWords64(dataWords)
		return nil, err
	}

	out := make([]byte, len(dataWords)*8)
	unpackWords64(dataWords, out)
	zeroizeWords64(dataWords)
	return out, nil
}

// splitDataBlocks walks the data one block at a time, advancing the subkey
// regime before each block: master-key-driven while key words remain, then
// the self-diffusing and KDF-reseeded regimes on the fixed counter schedule.
func (c *Cipher) splitDataBlocks(data, keys []uint64, direction cipherDirection) error {
	dataBlock := c.state.dataBlockQuadWords
	keyBlock := c.state.keyBlockQuadWords

	if len(data)%dataBlock != 0 {
		return newError(KindSizeMismatch, "data size is not a multiple of DataBlockQuadWords")
	}
	if len(keys)%keyBlock != 0 || len(keys) == 0 {
		return newError(KindSizeMismatch, "key size is not a positive multiple of KeyBlockQuadWords")
	}

	keyBuffer := c.state.wordKeyBuffer
	copy(keyBuffer, keys[:keyBlock])
	keyOffset := keyBlock

	randomKeyVector := make([]uint64, keyBlock*2)
	conditionFlag := true
	singleBlockSkipped := false
	twister := newMT19937_64(mtDefaultSeed)

	for blockOffset := 0; blockOffset < len(data); blockOffset += dataBlock {
		if keyOffset < len(keys) {
			// Master-key regime: fold the next key block into the buffer.
			// Equal words would cancel under XOR, hence the complement-sum
			// escape.
			slice := keys[keyOffset : keyOffset+keyBlock]
			for i, left := range slice {
				right := keyBuffer[i]
				if left == right {
					keyBuffer[i] = ^(left + right)
				} else {
					keyBuffer[i] = left ^ right
				}
			}
			keyOffset += keyBlock

			c.subkeyOp.generateSubkeys(keyBuffer)
			c.roundSubkeysCounter++
		} else {
			if conditionFlag || c.roundSubkeysCounter%(2048*4) == 0 {
				c.selfDiffuseKeyBuffer()
				c.subkeyOp.generateSubkeys(keyBuffer)
				conditionFlag = false
				c.roundSubkeysCounter++
				// This block is deliberately left untouched by the round
				// function; the trailing single-block pass below is the only
				// rescue for it.
				if len(data) == dataBlock {
					singleBlockSkipped = true
				}
				continue
			}

			if c.roundSubkeysCounter%2048 == 0 {
				var saltWords [16]uint64
				for i := range saltWords {
					saltWords[i] = twister.next()
				}

				if c.roundSubkeysCounter%(2048*3) == 0 {
					if err := reseedFromKDF(randomKeyVector, saltWords[:]); err != nil {
						return err
					}
					c.subkeyOp.generateSubkeys(randomKeyVector)
				} else if c.roundSubkeysCounter%(2048*2) == 0 {
					if err := reseedFromKDF(randomKeyVector, saltWords[:]); err != nil {
						return err
					}
					c.subkeyOp.generateSubkeys(randomKeyVector)
					twister.seed(foldWordsToSeed(randomKeyVector))
				}
				zeroizeWords64(saltWords[:])

				c.subkeyOp.generateSubkeys(nil)
			}

			c.roundSubkeysCounter++
		}

		c.rf.process(data[blockOffset:blockOffset+dataBlock], direction)
	}

	// A single-block message whose only block fell on the first
	// exhausted-regime step was skipped above; this trailing pass is what
	// actually transforms it.
	if singleBlockSkipped {
		c.rf.process(data, direction)
	}

	c.roundSubkeysCounter = 0
	zeroizeWords64(randomKeyVector)
	twister.destroy()
	return nil
}

// selfDiffuseKeyBuffer is the self-diffusing regime's key-buffer stir: 16
// iterations of a bit-level diffusion over each word followed by one pass of
// the forward byte substitution over the buffer's byte image.
func (c *Cipher) selfDiffuseKeyBuffer() {
	keyBuffer := c.state.wordKeyBuffer
	keyBytes := make([]byte, len(keyBuffer)*8)

	for keyRound := 0; keyRound < 16; keyRound++ {
		for i := range keyBuffer {
			a := keyBuffer[i] >> 32
			b := keyBuffer[i] & 0xFFFFFFFF

			a ^= b
			a = ^a
			b ^= a
			b = bits.RotateLeft64(b, 19)
			a ^= b
			a = bits.RotateLeft64(a, 13)
			b ^= a
			b = ^b
			a ^= b
			a = bits.RotateLeft64(a, 27)
			b ^= a
			b = bits.RotateLeft64(b, 23)

			keyBuffer[i] = (a << 32) | b
		}
	}

	unpackWords64(keyBuffer, keyBytes)
	c.rf.byteSubstitution(keyBytes, directionEncrypt)
	copy(keyBuffer, packWords64(keyBytes))

	zeroizeBytes(keyBytes)
}

// reseedFromKDF replaces the random key vector with the memory-hard
// derivation of its current value under the given salt.
func reseedFromKDF(randomKeyVector, saltWords []uint64) error {
	salt := make([]byte, len(saltWords)*8)
	unpackWords64(saltWords, salt)

	password := make([]byte, len(randomKeyVector)*8)
	unpackWords64(randomKeyVector, password)

	derived, err := scrypt.Key(password, salt, 1024, 8, 16, len(randomKeyVector)*8)
	zeroizeBytes(password)
	zeroizeBytes(salt)
	if err != nil {
		return newError(KindStateCorruption, "key derivation failed: "+err.Error())
	}

	copy(randomKeyVector, packWords64(derived))
	zeroizeBytes(derived)
	return nil
}

// foldWordsToSeed compresses a word vector into one 64-bit twister seed.
func foldWordsToSeed(words []uint64) uint64 {
	raw := make([]byte, len(words)*8)
	unpackWords64(words, raw)
	sum := sha512.Sum512(raw)
	zeroizeBytes(raw)
	return binary.LittleEndian.Uint64(sum[:8])
}

// padData appends ISO 10126 style padding: padCount-1 random fill bytes and
// a final byte holding padCount, where padCount is in [1, blockSize].
func (c *Cipher) padData(data []byte) []byte {
	blockBytes := c.BlockSizeBytes()
	remainder := len(data) % blockBytes
	padCount := blockBytes - remainder

	var hostSeed [8]byte
	_, _ = rand.Read(hostSeed[:])
	twister := newMT19937_64(binary.LittleEndian.Uint64(hostSeed[:]))

	out := append(append([]byte(nil), data...), make([]byte, padCount)...)
	for i := len(data); i < len(out); i++ {
		out[i] = byte(twister.next())
	}
	out[len(out)-1] = byte(padCount)

	twister.destroy()
	return out
}

func (c *Cipher) unpadData(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, newError(KindPaddingInvalid, "empty plaintext cannot carry padding")
	}
	padCount := int(data[len(data)-1])
	if padCount == 0 || padCount > c.BlockSizeBytes() || padCount > len(data) {
		return nil, newError(KindPaddingInvalid, "pad length byte is out of range")
	}
	return data[:len(data)-padCount], nil
}
