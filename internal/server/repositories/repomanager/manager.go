package repomanager

import (
	"context"
	"database/sql"

	"github.com/anovikov/journalvault/internal/dbx"
	"github.com/anovikov/journalvault/internal/server/repositories/attachments"
	"github.com/anovikov/journalvault/internal/server/repositories/audit"
	"github.com/anovikov/journalvault/internal/server/repositories/emotions"
	"github.com/anovikov/journalvault/internal/server/repositories/entries"
	"github.com/anovikov/journalvault/internal/server/repositories/keys"
	"github.com/anovikov/journalvault/internal/server/repositories/tags"
)

// RepositoryManager vends table repositories bound to a DBTX, so the same
// repository code runs against a pooled connection or an open transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Entries(db dbx.DBTX) entries.Repository
	Keys(db dbx.DBTX) keys.Repository
	Emotions(db dbx.DBTX) emotions.Repository
	Tags(db dbx.DBTX) tags.Repository
	Attachments(db dbx.DBTX) attachments.Repository
	Audit(db dbx.DBTX) audit.Repository
}
