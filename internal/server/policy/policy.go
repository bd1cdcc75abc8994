// Package policy holds the privacy-level derivation rules and the pluggable
// access policy deciding which non-owners may read an entry.
package policy

import "github.com/anovikov/journalvault/internal/server/models"

// DerivePrivacyLevel maps the three sharing flags to a privacy level.
// Priority order: private always wins, then both flags, then each single
// flag, and no flags fall back to private.
func DerivePrivacyLevel(isPrivate, teacherShareable, parentShareable bool) string {
	switch {
	case isPrivate:
		return models.PrivacyPrivate
	case teacherShareable && parentShareable:
		return models.PrivacyPublic
	case teacherShareable:
		return models.PrivacyTeacherShareable
	case parentShareable:
		return models.PrivacyParentShareable
	default:
		return models.PrivacyPrivate
	}
}

// AccessPolicy decides whether a user may read an entry. It is an interface
// so deployments can plug in a relationship-aware policy (teacher-of-student,
// parent-of-student) without touching the journal service.
type AccessPolicy interface {
	CanRead(entry *models.JournalEntry, requestingUserID string) bool
}

// OwnerOrSharedPolicy is the minimal policy: the owner always has access,
// any other authenticated user only when the entry is not private.
type OwnerOrSharedPolicy struct{}

func (OwnerOrSharedPolicy) CanRead(entry *models.JournalEntry, requestingUserID string) bool {
	if entry.StudentID == requestingUserID {
		return true
	}
	return !entry.IsPrivate
}
