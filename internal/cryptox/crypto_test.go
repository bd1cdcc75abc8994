package cryptox

import (
	"errors"
	"testing"

	"github.com/anovikov/journalvault/internal/common"
)

func testKey(b byte) []byte {
	key := make([]byte, KeySize)
	for i := range key {
		key[i] = b
	}
	return key
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	key := testKey(0x42)
	plaintext := "Today was a hard day, but the math test went better than expected."

	ciphertext, nonce, err := Encrypt(plaintext, key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ciphertext) == 0 || len(nonce) != 12 {
		t.Fatalf("unexpected ciphertext/nonce: %d/%d bytes", len(ciphertext), len(nonce))
	}

	got, err := Decrypt(ciphertext, nonce, key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != plaintext {
		t.Errorf("round trip mismatch: got %q", got)
	}
}

func TestEncrypt_EmptyPlaintextMapsToNil(t *testing.T) {
	ciphertext, nonce, err := Encrypt("", testKey(0x01))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ciphertext != nil || nonce != nil {
		t.Errorf("expected nil ciphertext and nonce for empty plaintext")
	}
}

func TestDecrypt_WrongKeyFails(t *testing.T) {
	ciphertext, nonce, err := Encrypt("secret thoughts", testKey(0x42))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = Decrypt(ciphertext, nonce, testKey(0x43))
	if !errors.Is(err, common.ErrDecryptionFailed) {
		t.Errorf("expected ErrDecryptionFailed, got %v", err)
	}
}

func TestDecrypt_CorruptedCiphertextFails(t *testing.T) {
	key := testKey(0x42)
	ciphertext, nonce, err := Encrypt("secret thoughts", key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ciphertext[0] ^= 0xff

	_, err = Decrypt(ciphertext, nonce, key)
	if !errors.Is(err, common.ErrDecryptionFailed) {
		t.Errorf("expected ErrDecryptionFailed, got %v", err)
	}
}

func TestDecrypt_NilCiphertext(t *testing.T) {
	got, err := Decrypt(nil, nil, testKey(0x42))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestContentHash_Deterministic(t *testing.T) {
	h1 := ContentHash("Hello world")
	h2 := ContentHash("Hello world")
	if h1 != h2 {
		t.Errorf("expected same hash for same input")
	}
	if len(h1) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(h1))
	}
	if ContentHash("hello world") == h1 {
		t.Errorf("expected different hash for different input")
	}
}

func TestContentHash_Empty(t *testing.T) {
	if ContentHash("") != "" {
		t.Errorf("expected empty hash for empty content")
	}
}
