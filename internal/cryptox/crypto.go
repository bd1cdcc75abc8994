// Package cryptox implements the symmetric codec used for journal content:
// AES-256-GCM encryption with a random per-message nonce, and a SHA-256
// content digest computed over plaintext before encryption.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/anovikov/journalvault/internal/common"
)

// KeySize is the AES-256 key length in bytes.
const KeySize = 32

// Encrypt encrypts plaintext with AES-GCM under the given key.
//
// The key must be a valid AES key length (16, 24, or 32 bytes). A new random
// 12-byte nonce is generated for each call and returned separately; the same
// nonce must be supplied to Decrypt.
//
// Empty plaintext maps to (nil, nil, nil): absent content is stored as NULL,
// never as the encryption of an empty string.
func Encrypt(plaintext string, key []byte) (ciphertext, nonce []byte, err error) {
	if plaintext == "" {
		return nil, nil, nil
	}

	nonce = make([]byte, 12)
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, err
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, nil, err
	}

	ciphertext = aesgcm.Seal(nil, nonce, []byte(plaintext), nil)

	return ciphertext, nonce, nil
}

// Decrypt reverses Encrypt. The key and nonce must be the ones used during
// encryption. Nil ciphertext decrypts to the empty string.
//
// Malformed ciphertext, a truncated nonce, or a wrong key all surface as
// common.ErrDecryptionFailed so callers can apply the degraded-read policy
// with a single errors.Is check.
func Decrypt(ciphertext, nonce, key []byte) (string, error) {
	if len(ciphertext) == 0 {
		return "", nil
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrDecryptionFailed, err)
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrDecryptionFailed, err)
	}
	if len(nonce) != aesgcm.NonceSize() {
		return "", fmt.Errorf("%w: bad nonce size %d", common.ErrDecryptionFailed, len(nonce))
	}

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrDecryptionFailed, err)
	}

	return string(plaintext), nil
}

// ContentHash returns the hex-encoded SHA-256 digest of the canonical
// plaintext. It is stored alongside the ciphertext so integrity can be
// checked without key material. Empty content has no hash.
func ContentHash(plaintext string) string {
	if plaintext == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}
