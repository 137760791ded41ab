package encrypter

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

// Encrypter encrypts and decrypts short strings (tokens at rest).
type Encrypter interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

type aesGCM struct {
	aead cipher.AEAD
}

var _ Encrypter = (*aesGCM)(nil)

// ErrCiphertextTooShort is returned for malformed or truncated input.
var ErrCiphertextTooShort = errors.New("ciphertext too short")

// New builds an AES-256-GCM encrypter. The secret may be any length;
// it is stretched to a 32-byte key with SHA-256.
func New(secret string) (Encrypter, error) {
	if secret == "" {
		return nil, errors.New("encryption secret is required")
	}

	key := sha256.Sum256([]byte(secret))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("failed to init cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to init GCM: %w", err)
	}

	return &aesGCM{aead: aead}, nil
}

func (e *aesGCM) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, e.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := e.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (e *aesGCM) Decrypt(ciphertext string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("invalid ciphertext encoding: %w", err)
	}

	ns := e.aead.NonceSize()
	if len(raw) < ns {
		return "", ErrCiphertextTooShort
	}

	plain, err := e.aead.Open(nil, raw[:ns], raw[ns:], nil)
	if err != nil {
		return "", fmt.Errorf("decryption failed: %w", err)
	}
	return string(plain), nil
}
