// Package secret seals API keys before they are written to the store, using
// AES-256-GCM with a key derived from a passphrase by Argon2id.
package secret

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/argon2"
)

// sealedPrefix marks values produced by Seal. Values without it are treated as plaintext,
// so rows written before a key was configured stay readable.
const sealedPrefix = "enc:v1:"

var ErrKeyNotConfigured = errors.New("encryption key is not configured")

// Cipher seals and opens secrets. A nil *Cipher passes values through unchanged.
type Cipher struct {
	aead cipher.AEAD
}

// New derives a 32-byte key from passphrase. An empty passphrase disables sealing and
// returns a nil Cipher.
func New(passphrase string) (*Cipher, error) {
	if passphrase == "" {
		return nil, nil
	}
	// Fixed salt: this is one system-wide key, not a per-user password hash.
	salt := []byte("gato-admin-secret-v1")
	key := argon2.IDKey([]byte(passphrase), salt, 1, 64*1024, 4, 32)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return &Cipher{aead: aead}, nil
}

// Enabled reports whether values are actually sealed.
func (c *Cipher) Enabled() bool {
	return c != nil
}

// Seal encrypts plaintext. Empty input stays empty.
func (c *Cipher) Seal(plaintext string) (string, error) {
	if c == nil || plaintext == "" {
		return plaintext, nil
	}

	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return sealedPrefix + base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Open decrypts a value produced by Seal. Unsealed values are returned as-is.
func (c *Cipher) Open(value string) (string, error) {
	if !IsSealed(value) {
		return value, nil
	}
	if c == nil {
		return "", ErrKeyNotConfigured
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(value, sealedPrefix))
	if err != nil {
		return "", fmt.Errorf("failed to decode sealed value: %w", err)
	}

	nonceSize := c.aead.NonceSize()
	if len(raw) < nonceSize {
		return "", fmt.Errorf("sealed value too short")
	}

	nonce, ciphertext := raw[:nonceSize], raw[nonceSize:]
	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt: %w", err)
	}
	return string(plaintext), nil
}

// IsSealed reports whether value was produced by Seal.
func IsSealed(value string) bool {
	return strings.HasPrefix(value, sealedPrefix)
}
