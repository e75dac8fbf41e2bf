// Package crypto seals sensitive employee fields (bank accounts) at rest
// with AES-256-GCM. A Box without a key passes values through unchanged so
// development setups work without DATA_ENCRYPTION_KEY.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
)

var ErrCiphertextTooShort = errors.New("ciphertext too short")

type Box struct {
	aead cipher.AEAD
}

// New accepts a 32-byte key as hex, standard/raw base64 or raw bytes.
func New(key string) (*Box, error) {
	if key == "" {
		return &Box{}, nil
	}
	decoded := decodeKey(key)
	if len(decoded) != 32 {
		return nil, fmt.Errorf("DATA_ENCRYPTION_KEY must be 32 bytes after decoding, got %d", len(decoded))
	}
	block, err := aes.NewCipher(decoded)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Box{aead: aead}, nil
}

func (b *Box) Configured() bool {
	return b != nil && b.aead != nil
}

// Seal returns nonce||ciphertext. Empty input seals to nil.
func (b *Box) Seal(plain []byte) ([]byte, error) {
	if len(plain) == 0 {
		return nil, nil
	}
	if !b.Configured() {
		return plain, nil
	}
	nonce := make([]byte, b.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return b.aead.Seal(nonce, nonce, plain, nil), nil
}

func (b *Box) Open(sealed []byte) ([]byte, error) {
	if len(sealed) == 0 {
		return nil, nil
	}
	if !b.Configured() {
		return sealed, nil
	}
	size := b.aead.NonceSize()
	if len(sealed) < size {
		return nil, ErrCiphertextTooShort
	}
	return b.aead.Open(nil, sealed[:size], sealed[size:], nil)
}

// SealField splits a value into the (plain, sealed) column pair stored by
// the employee table: with a key only the sealed column is populated.
func (b *Box) SealField(value string) (string, []byte, error) {
	if !b.Configured() || value == "" {
		return value, nil, nil
	}
	sealed, err := b.Seal([]byte(value))
	if err != nil {
		return "", nil, err
	}
	return "", sealed, nil
}

// OpenField is the inverse of SealField. A row written before the key was
// configured still carries its plain value.
func (b *Box) OpenField(plain string, sealed []byte) (string, error) {
	if len(sealed) == 0 {
		return plain, nil
	}
	opened, err := b.Open(sealed)
	if err != nil {
		return "", err
	}
	return string(opened), nil
}

func decodeKey(raw string) []byte {
	if len(raw) == 64 {
		if decoded, err := hex.DecodeString(raw); err == nil {
			return decoded
		}
	}
	if len(raw) == 32 {
		return []byte(raw)
	}
	if decoded, err := base64.StdEncoding.DecodeString(raw); err == nil {
		return decoded
	}
	if decoded, err := base64.RawStdEncoding.DecodeString(raw); err == nil {
		return decoded
	}
	return []byte(raw)
}
