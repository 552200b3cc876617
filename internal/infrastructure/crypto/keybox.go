// Package crypto seals provider API keys with AES-256-GCM.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/zetruc/pulse/internal/core/ports"
)

const (
	keySize = 32
	ivSize  = 12
	tagSize = 16
)

var ErrInvalidKey = errors.New("encryption key must be 32 bytes, base64 encoded")

// KeyBox encrypts with a single master key. Ciphertext, IV and tag are stored
// separately, each base64 encoded.
type KeyBox struct {
	aead cipher.AEAD
}

// NewKeyBox builds a KeyBox from the base64 master key.
func NewKeyBox(keyBase64 string) (*KeyBox, error) {
	key, err := base64.StdEncoding.DecodeString(strings.TrimSpace(keyBase64))
	if err != nil || len(key) != keySize {
		return nil, ErrInvalidKey
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("aes: %w", err)
	}
	aead, err := cipher.NewGCMWithNonceSize(block, ivSize)
	if err != nil {
		return nil, fmt.Errorf("gcm: %w", err)
	}
	return &KeyBox{aead: aead}, nil
}

var _ ports.KeyBox = (*KeyBox)(nil)

func (b *KeyBox) Seal(plain string) (ports.SealedKey, error) {
	iv := make([]byte, ivSize)
	if _, err := rand.Read(iv); err != nil {
		return ports.SealedKey{}, fmt.Errorf("iv: %w", err)
	}
	// Seal appends the tag to the ciphertext.
	out := b.aead.Seal(nil, iv, []byte(plain), nil)
	split := len(out) - tagSize

	enc := base64.StdEncoding
	return ports.SealedKey{
		Ciphertext: enc.EncodeToString(out[:split]),
		IV:         enc.EncodeToString(iv),
		Tag:        enc.EncodeToString(out[split:]),
	}, nil
}

func (b *KeyBox) Open(s ports.SealedKey) (string, error) {
	enc := base64.StdEncoding
	ct, err := enc.DecodeString(s.Ciphertext)
	if err != nil {
		return "", fmt.Errorf("ciphertext: %w", err)
	}
	iv, err := enc.DecodeString(s.IV)
	if err != nil || len(iv) != ivSize {
		return "", errors.New("invalid iv")
	}
	tag, err := enc.DecodeString(s.Tag)
	if err != nil || len(tag) != tagSize {
		return "", errors.New("invalid tag")
	}

	plain, err := b.aead.Open(nil, iv, append(ct, tag...), nil)
	if err != nil {
		return "", fmt.Errorf("decrypt: %w", err)
	}
	return string(plain), nil
}
