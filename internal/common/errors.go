// Package common defines shared sentinel errors used across JournalVault
// layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Access-control errors.
	ErrorAccessDenied = errors.New("access denied")

	// Crypto errors. ErrDecryptionFailed is caught inside the read path and
	// converted into a degraded response; it never reaches API callers raw.
	ErrDecryptionFailed = errors.New("decryption failed")
	ErrKeyNotFound      = errors.New("encryption key not found")
	ErrKeyPersistence   = errors.New("encryption key persistence failed")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
)
