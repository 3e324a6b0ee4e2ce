package middleware

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/stepform/pkg/domain"
	"github.com/aretw0/stepform/pkg/ports"
)

// EncryptedPrefix marks a value sealed by the encryption middleware.
const EncryptedPrefix = "enc:v1:"

// EncryptionConfig holds the keys for encryption and decryption.
type EncryptionConfig struct {
	// ActiveKey is the key used for encrypting new data.
	// Must be 32 bytes for AES-256.
	ActiveKey []byte

	// FallbackKeys is a list of old keys to try when decryption fails.
	// This enables zero-downtime key rotation.
	FallbackKeys [][]byte
}

func (c EncryptionConfig) validate() error {
	if len(c.ActiveKey) != 32 {
		return errors.New("active key must be 32 bytes (AES-256)")
	}
	return nil
}

type encryptionMiddleware struct {
	next   ports.Submitter
	config EncryptionConfig
}

// NewEncryptionMiddleware creates a middleware that seals the values of secret
// fields with AES-GCM before they reach the sink.
func NewEncryptionMiddleware(config EncryptionConfig) (Middleware, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	return func(next ports.Submitter) ports.Submitter {
		return &encryptionMiddleware{next: next, config: config}
	}, nil
}

func (m *encryptionMiddleware) Submit(ctx context.Context, sub *domain.Submission) error {
	sealed := cloneSubmission(sub)
	for _, e := range sub.Summary {
		if !e.Secret || e.Value == "" {
			continue
		}
		ciphertext, err := encrypt([]byte(e.Value), m.config.ActiveKey)
		if err != nil {
			return fmt.Errorf("failed to encrypt field %s: %w", e.Field, err)
		}
		rewrite(sealed, e.Field, EncryptedPrefix+base64.StdEncoding.EncodeToString(ciphertext))
	}
	return m.next.Submit(ctx, sealed)
}

// Decrypt returns a copy of sub with every sealed value opened.
func Decrypt(sub *domain.Submission, config EncryptionConfig) (*domain.Submission, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	opened := cloneSubmission(sub)
	for field, v := range sub.Draft {
		encoded, ok := strings.CutPrefix(v, EncryptedPrefix)
		if !ok {
			continue
		}
		ciphertext, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("failed to decode ciphertext of %s: %w", field, err)
		}
		plain, err := decryptWithRotation(ciphertext, config.ActiveKey, config.FallbackKeys)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt field %s: %w", field, err)
		}
		rewrite(opened, field, string(plain))
	}
	return opened, nil
}

// Helpers

func encrypt(plaintext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func decryptWithRotation(ciphertext []byte, activeKey []byte, fallbackKeys [][]byte) ([]byte, error) {
	if plain, err := decrypt(ciphertext, activeKey); err == nil {
		return plain, nil
	}
	for _, key := range fallbackKeys {
		if plain, err := decrypt(ciphertext, key); err == nil {
			return plain, nil
		}
	}
	return nil, errors.New("decryption failed with all available keys")
}

func decrypt(ciphertext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce := ciphertext[:gcm.NonceSize()]
	return gcm.Open(nil, nonce, ciphertext[gcm.NonceSize():], nil)
}
