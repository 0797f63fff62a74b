package sealer

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

var ErrMalformed = errors.New("sealed value is malformed")

// Sealer encrypts short text fields with AES-256-GCM. Output is
// base64url(nonce || ciphertext).
type Sealer struct {
	aead cipher.AEAD
}

// New builds a Sealer from a base64 encoded 32 byte key.
func New(encodedKey string) (*Sealer, error) {
	key, err := base64.StdEncoding.DecodeString(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("decode encryption key: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("encryption key must be 32 bytes, got %d", len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &Sealer{aead: aead}, nil
}

func (s *Sealer) Seal(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ct := s.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.RawURLEncoding.EncodeToString(ct), nil
}

func (s *Sealer) Open(token string) (string, error) {
	if token == "" {
		return "", nil
	}

	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", ErrMalformed
	}

	nonceSize := s.aead.NonceSize()
	if len(data) < nonceSize {
		return "", ErrMalformed
	}

	pt, err := s.aead.Open(nil, data[:nonceSize], data[nonceSize:], nil)
	if err != nil {
		return "", fmt.Errorf("open sealed value: %w", err)
	}

	return string(pt), nil
}
