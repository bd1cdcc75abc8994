package models

import "time"

// Privacy levels derived from the three sharing flags. The level is never
// stored independently of the flags; DerivePrivacyLevel in the policy
// package is the single source of truth.
const (
	PrivacyPrivate          = "private"
	PrivacyTeacherShareable = "teacher_shareable"
	PrivacyParentShareable  = "parent_shareable"
	PrivacyPublic           = "public"
)

// JournalEntry is the persisted shape of one journal record. Content fields
// hold AES-GCM ciphertext with their nonces stored alongside; ContentHash is
// a SHA-256 digest of the plaintext computed before encryption.
type JournalEntry struct {
	ID                     string
	StudentID              string
	Title                  string
	EncryptedContent       []byte
	NonceContent           []byte
	EncryptedPlainText     []byte
	NoncePlainText         []byte
	ContentHash            string
	WordCount              int
	ReadingTimeMinutes     int
	PrivacyLevel           string
	IsPrivate              bool
	IsShareableWithTeacher bool
	IsShareableWithParent  bool
	EncryptionKeyID        string
	EncryptionMethod       string
	EncryptionVersion      int
	CreatedAt              time.Time
	UpdatedAt              time.Time
	LastEditedAt           time.Time
	PublishedAt            *time.Time
	DeletedAt              *time.Time
}
