package storage

import (
	"context"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// argon2id parameters for deriving the sealing key from the passphrase
const (
	argonTime    = 1
	argonMemory  = 64 * 1024 // KiB
	argonThreads = 4
	saltLength   = 16
)

// SecureFile is the credential-grade Storage backend: values are sealed with
// XChaCha20-Poly1305 under a key derived from a passphrase via argon2id
// before being handed to an inner File backend. Each value carries its own
// salt and nonce, so identical plaintexts never produce identical blobs.
//
// It stands in for the platform secure store (keychain/keystore) that holds
// session credentials on mobile.
type SecureFile struct {
	inner      *File
	passphrase []byte
}

var _ Storage = (*SecureFile)(nil)

func NewSecureFile(dir, passphrase string) (*SecureFile, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("storage.NewSecureFile: passphrase is required")
	}
	inner, err := NewFile(dir)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSecureFile: %w", err)
	}
	return &SecureFile{inner: inner, passphrase: []byte(passphrase)}, nil
}

func (s *SecureFile) GetItem(ctx context.Context, key string) (string, error) {
	sealed, err := s.inner.GetItem(ctx, key)
	if err != nil {
		return "", err
	}

	blob, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("unseal %q: %w", key, err)
	}
	if len(blob) < saltLength+chacha20poly1305.NonceSizeX {
		return "", fmt.Errorf("unseal %q: blob too short", key)
	}

	salt := blob[:saltLength]
	nonce := blob[saltLength : saltLength+chacha20poly1305.NonceSizeX]
	ciphertext := blob[saltLength+chacha20poly1305.NonceSizeX:]

	aead, err := s.aead(salt)
	if err != nil {
		return "", fmt.Errorf("unseal %q: %w", key, err)
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("unseal %q: %w", key, err)
	}
	return string(plaintext), nil
}

func (s *SecureFile) SetItem(ctx context.Context, key, value string) error {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return fmt.Errorf("seal %q: %w", key, err)
	}

	aead, err := s.aead(salt)
	if err != nil {
		return fmt.Errorf("seal %q: %w", key, err)
	}

	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("seal %q: %w", key, err)
	}

	blob := append(salt, nonce...)
	blob = aead.Seal(blob, nonce, []byte(value), nil)
	return s.inner.SetItem(ctx, key, base64.StdEncoding.EncodeToString(blob))
}

func (s *SecureFile) RemoveItem(ctx context.Context, key string) error {
	return s.inner.RemoveItem(ctx, key)
}

func (s *SecureFile) aead(salt []byte) (cipher.AEAD, error) {
	key := argon2.IDKey(s.passphrase, salt, argonTime, argonMemory, argonThreads, chacha20poly1305.KeySize)
	return chacha20poly1305.NewX(key)
}
