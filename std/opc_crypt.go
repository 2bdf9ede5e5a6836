package std

import (
	"crypto/sha512"
	"encoding/binary"

	kcp "github.com/xtaci/kcp-go/v5"

	"github.com/twilight-dream-of-magic/opc/pkg/opc"
)

// littleOPCCrypt adapts the Little-OPC counter-mode keystream to the
// kcp.BlockCrypt packet interface. The per-stream nonce is derived from the
// pre-shared key so both endpoints agree without extra wire bytes; packets
// are independent, so loss and reordering are tolerated.
type littleOPCCrypt struct {
	cipher *opc.LittleOPC
	nonce  uint64
}

// NewLittleOPCBlockCrypt keys the Little-OPC keystream from the pass phrase.
func NewLittleOPCBlockCrypt(pass []byte) (kcp.BlockCrypt, error) {
	sum := sha512.Sum512(pass)
	key := binary.LittleEndian.Uint64(sum[0:8])
	nonce := binary.LittleEndian.Uint64(sum[8:16])
	return &littleOPCCrypt{cipher: opc.NewLittleOPC(key), nonce: nonce}, nil
}

func (c *littleOPCCrypt) Encrypt(dst, src []byte) { c.cipher.StreamXOR(c.nonce, dst, src) }
func (c *littleOPCCrypt) Decrypt(dst, src []byte) { c.cipher.StreamXOR(c.nonce, dst, src) }

// NewOPCBlockCrypt routes the pass phrase through one full OPC-main
// encryption and keys the packet keystream from the result, so the
// transport path exercises the main cipher's key schedule as well.
func NewOPCBlockCrypt(pass []byte) (kcp.BlockCrypt, error) {
	cfg := opc.Config{
		DataBlockQuadWords: 2,
		KeyBlockQuadWords:  4,
		InitialVector:      make([]byte, 16),
		LFSRSeed:           1,
		NLFSRSeed:          1,
		SDPSeed:            0xB7E151628AED2A6A,
	}
	cipher, err := opc.New(cfg)
	if err != nil {
		return nil, err
	}

	sum := sha512.Sum512(pass)
	block, err := cipher.EncryptWithoutPadding(sum[32:48], sum[:32])
	cipher.Destroy()
	if err != nil {
		return nil, err
	}

	key := binary.LittleEndian.Uint64(block[0:8])
	nonce := binary.LittleEndian.Uint64(block[8:16])
	return &littleOPCCrypt{cipher: opc.NewLittleOPC(key), nonce: nonce}, nil
}
