package credential

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"io"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/kittynxr/maowbot/internal/apperr"
)

// Encryptor provides authenticated symmetric encryption for credential token
// fields. Ciphertext is returned/accepted as base64(nonce || ciphertext+tag).
type Encryptor interface {
	Encrypt(plaintext []byte) (string, error)
	Decrypt(ciphertext string) ([]byte, error)
}

// AEADEncryptor implements Encryptor with ChaCha20-Poly1305 and a 256-bit
// key held only in process memory (never persisted alongside ciphertexts).
type AEADEncryptor struct {
	aead cipher.AEAD
}

// NewAEADEncryptor validates key and constructs an AEADEncryptor. Keys
// shorter or longer than chacha20poly1305.KeySize (32 bytes) are rejected.
func NewAEADEncryptor(key []byte) (*AEADEncryptor, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, apperr.New(apperr.KindKeyDerivation, "encryption key must be exactly 32 bytes")
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindKeyDerivation, "constructing AEAD cipher", err)
	}
	return &AEADEncryptor{aead: aead}, nil
}

// Encrypt draws a fresh random nonce, seals plaintext, and returns
// base64(nonce || ciphertext+tag).
func (e *AEADEncryptor) Encrypt(plaintext []byte) (string, error) {
	nonce := make([]byte, e.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", apperr.Wrap(apperr.KindEncryption, "generating nonce", err)
	}
	sealed := e.aead.Seal(nil, nonce, plaintext, nil)
	out := make([]byte, 0, len(nonce)+len(sealed))
	out = append(out, nonce...)
	out = append(out, sealed...)
	return base64.StdEncoding.EncodeToString(out), nil
}

// Decrypt reverses Encrypt. It fails with a KindDecryption *apperr.Error if
// the nonce is missing/short or authentication fails (tampered ciphertext).
func (e *AEADEncryptor) Decrypt(ciphertext string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDecryption, "invalid base64 ciphertext", err)
	}
	nonceSize := e.aead.NonceSize()
	if len(raw) < nonceSize {
		return nil, apperr.New(apperr.KindDecryption, "ciphertext shorter than nonce")
	}
	nonce, sealed := raw[:nonceSize], raw[nonceSize:]
	plaintext, err := e.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDecryption, "authentication failed", err)
	}
	return plaintext, nil
}

var _ Encryptor = (*AEADEncryptor)(nil)
