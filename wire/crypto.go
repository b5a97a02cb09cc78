package wire

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
)

// ErrShortFrame signals a decrypted frame too short to contain a nonce and
// CRC tail.
var ErrShortFrame = errors.New("wire: frame too short to decrypt")

// NewBlockCipher selects AES-128/192/256 by key length, matching the
// panel's single encryption-mode indicator covering all three sizes.
func NewBlockCipher(key []byte) (cipher.Block, error) {
	switch len(key) {
	case 16, 24, 32:
		return aes.NewCipher(key)
	default:
		return nil, fmt.Errorf("wire: invalid AES key size %d", len(key))
	}
}

// IV builds the 16-byte AES-CTR counter block from the per-frame nonce and
// the panel's 6-byte serial: nonce(8) || serial(6) || 0x0000.
func IV(nonce [8]byte, serial [6]byte) [16]byte {
	var iv [16]byte
	copy(iv[:8], nonce[:])
	copy(iv[8:14], serial[:])
	return iv
}

// CTR XORs data with the AES-CTR keystream seeded at iv. The counter
// increments as a single big-endian 128-bit integer across the whole
// 16-byte block, wrapping modulo 2^128 — exactly stdlib's crypto/cipher
// CTR semantics, so we delegate to it directly.
func CTR(block cipher.Block, iv [16]byte, data []byte) []byte {
	out := make([]byte, len(data))
	stream := cipher.NewCTR(block, iv[:])
	stream.XORKeyStream(out, data)
	return out
}

// EncryptMessage builds the ciphertext layer of an outgoing frame: a random
// 8-byte nonce followed by AES-CTR(payload || CRC16(payload)).
func EncryptMessage(key []byte, serial [6]byte, payload []byte) ([]byte, error) {
	block, err := NewBlockCipher(key)
	if err != nil {
		return nil, err
	}

	var nonce [8]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, err
	}

	plain := AppendCRC(payload)
	cipherText := CTR(block, IV(nonce, serial), plain)

	out := make([]byte, 0, 8+len(cipherText))
	out = append(out, nonce[:]...)
	out = append(out, cipherText...)
	return out, nil
}

// DecryptMessage reverses EncryptMessage. The input is the ciphertext layer
// (nonce || AES-CTR(payload||crc)), already extracted from its SLIP frame.
// A malformed or CRC-failing frame returns an error; callers must treat
// this as "not a response I can route", never as fatal.
func DecryptMessage(key []byte, serial [6]byte, framed []byte) ([]byte, error) {
	if len(framed) < 11 {
		return nil, ErrShortFrame
	}
	block, err := NewBlockCipher(key)
	if err != nil {
		return nil, err
	}

	var nonce [8]byte
	copy(nonce[:], framed[:8])
	cipherText := framed[8:]

	plain := CTR(block, IV(nonce, serial), cipherText)
	if !VerifyCRC(plain) {
		return nil, ErrCheckFailed
	}
	return plain[:len(plain)-2], nil
}

// ErrCheckFailed signals CRC verification failure on a decrypted message.
var ErrCheckFailed = errors.New("wire: CRC check failed")
