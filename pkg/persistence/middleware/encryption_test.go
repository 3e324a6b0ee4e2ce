package middleware_test

import (
	"context"
	"crypto/rand"
	"io"
	"strings"
	"testing"

	"github.com/aretw0/stepform/pkg/adapters/memory"
	"github.com/aretw0/stepform/pkg/domain"
	"github.com/aretw0/stepform/pkg/persistence/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateKey(t *testing.T) []byte {
	k := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, k); err != nil {
		t.Fatal(err)
	}
	return k
}

func newSubmission() *domain.Submission {
	return &domain.Submission{
		ID:     "sub-1",
		FormID: "signup",
		Draft:  domain.Draft{"username": "ada1815", "password": "engine42", "email": "ada@example.com"},
		Summary: []domain.SummaryEntry{
			{Field: "email", Label: "Email", Value: "ada@example.com"},
			{Field: "username", Label: "Username", Value: "ada1815"},
			{Field: "password", Label: "Password", Value: "engine42", Secret: true},
		},
	}
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	outbox := memory.NewOutbox()
	cfg := middleware.EncryptionConfig{ActiveKey: generateKey(t)}
	mw, err := middleware.NewEncryptionMiddleware(cfg)
	require.NoError(t, err)

	original := newSubmission()
	require.NoError(t, mw(outbox).Submit(context.Background(), original))

	stored, err := outbox.Get(context.Background(), "sub-1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stored.Draft["password"], middleware.EncryptedPrefix))
	assert.Equal(t, stored.Draft["password"], stored.Summary[2].Value)
	assert.Equal(t, "ada1815", stored.Draft["username"], "non-secret fields stay readable")
	assert.Equal(t, "engine42", original.Draft["password"], "the caller's submission is untouched")

	opened, err := middleware.Decrypt(stored, cfg)
	require.NoError(t, err)
	assert.Equal(t, "engine42", opened.Draft["password"])
	assert.Equal(t, "engine42", opened.Summary[2].Value)
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	outbox := memory.NewOutbox()
	oldKey, newKey := generateKey(t), generateKey(t)

	mw, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: oldKey})
	require.NoError(t, err)
	require.NoError(t, mw(outbox).Submit(context.Background(), newSubmission()))
	stored, err := outbox.Get(context.Background(), "sub-1")
	require.NoError(t, err)

	_, err = middleware.Decrypt(stored, middleware.EncryptionConfig{ActiveKey: newKey})
	assert.Error(t, err, "the new key alone cannot open old values")

	opened, err := middleware.Decrypt(stored, middleware.EncryptionConfig{ActiveKey: newKey, FallbackKeys: [][]byte{oldKey}})
	require.NoError(t, err)
	assert.Equal(t, "engine42", opened.Draft["password"])
}

func TestEncryptionMiddleware_InvalidKey(t *testing.T) {
	_, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short")})
	assert.Error(t, err)
}

func TestDecrypt_PlainSubmission(t *testing.T) {
	opened, err := middleware.Decrypt(newSubmission(), middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	require.NoError(t, err)
	assert.Equal(t, "engine42", opened.Draft["password"])
}
