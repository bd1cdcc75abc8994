package models

import "time"

// Audit actions.
const (
	AuditActionRead   = "read"
	AuditActionEdit   = "edit"
	AuditActionDelete = "delete"
)

// Audit results.
const (
	AuditResultSuccess = "success"
	AuditResultDenied  = "denied"
	AuditResultFailure = "failure"
)

// AuditLogEntry is one append-only access-log row. Rows are never updated or
// deleted; write failures are swallowed so auditing can never block the
// primary operation.
type AuditLogEntry struct {
	ID                   string
	UserID               string
	UserRole             string
	ResourceType         string
	ResourceID           string
	Action               string
	Result               string
	Source               string
	IPAddress            string
	UserAgent            string
	DecryptionSuccessful bool
	CreatedAt            time.Time
}
