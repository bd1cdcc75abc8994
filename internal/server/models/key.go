package models

import "time"

// EncryptionKey is one issued key record. Raw key bytes are never stored:
// usable material is derived from the process secret and KeyID, so the row
// only documents provenance.
type EncryptionKey struct {
	KeyID       string
	Algorithm   string
	CreatedBy   string
	ActivatedAt time.Time
}
