package audit

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/anovikov/journalvault/internal/dbx"
	"github.com/anovikov/journalvault/internal/logging"
	"github.com/anovikov/journalvault/internal/server/models"
	"github.com/anovikov/journalvault/internal/server/repositories/attachments"
	auditrepo "github.com/anovikov/journalvault/internal/server/repositories/audit"
	"github.com/anovikov/journalvault/internal/server/repositories/emotions"
	"github.com/anovikov/journalvault/internal/server/repositories/entries"
	"github.com/anovikov/journalvault/internal/server/repositories/keys"
	"github.com/anovikov/journalvault/internal/server/repositories/tags"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingAuditRepo struct {
	mu        sync.Mutex
	rows      []*models.AuditLogEntry
	insertErr error
}

func (r *recordingAuditRepo) Insert(ctx context.Context, row *models.AuditLogEntry) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, row)
	return nil
}

type auditOnlyRM struct {
	repo *recordingAuditRepo
}

func (m *auditOnlyRM) RunMigrations(ctx context.Context, db *sql.DB) error { return nil }
func (m *auditOnlyRM) Entries(db dbx.DBTX) entries.Repository             { return nil }
func (m *auditOnlyRM) Keys(db dbx.DBTX) keys.Repository                   { return nil }
func (m *auditOnlyRM) Emotions(db dbx.DBTX) emotions.Repository           { return nil }
func (m *auditOnlyRM) Tags(db dbx.DBTX) tags.Repository                   { return nil }
func (m *auditOnlyRM) Attachments(db dbx.DBTX) attachments.Repository     { return nil }
func (m *auditOnlyRM) Audit(db dbx.DBTX) auditrepo.Repository             { return m.repo }

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRecord(t *testing.T) {
	repo := &recordingAuditRepo{}
	l := NewLogger(nil, &auditOnlyRM{repo: repo}, discardLogger())

	l.Record(Event{
		EntryID:              "e1",
		UserID:               "u1",
		UserRole:             "teacher",
		Action:               models.AuditActionRead,
		Result:               models.AuditResultDenied,
		Source:               "http",
		IPAddress:            "10.0.0.1",
		UserAgent:            "curl",
		DecryptionSuccessful: false,
	})
	l.Wait()

	require.Len(t, repo.rows, 1)
	row := repo.rows[0]
	assert.NotEmpty(t, row.ID)
	assert.Equal(t, "e1", row.ResourceID)
	assert.Equal(t, ResourceTypeJournalEntry, row.ResourceType)
	assert.Equal(t, "u1", row.UserID)
	assert.Equal(t, "teacher", row.UserRole)
	assert.Equal(t, models.AuditActionRead, row.Action)
	assert.Equal(t, models.AuditResultDenied, row.Result)
	assert.Equal(t, "http", row.Source)
	assert.False(t, row.DecryptionSuccessful)
	assert.False(t, row.CreatedAt.IsZero())
}

func TestRecord_FailureIsSwallowed(t *testing.T) {
	repo := &recordingAuditRepo{insertErr: errors.New("db down")}
	l := NewLogger(nil, &auditOnlyRM{repo: repo}, discardLogger())

	// must not panic or block
	l.Record(Event{EntryID: "e1", UserID: "u1", Action: models.AuditActionEdit, Result: models.AuditResultSuccess})
	l.Wait()

	assert.Empty(t, repo.rows)
}

func TestWait_DrainsAllInFlightWrites(t *testing.T) {
	repo := &recordingAuditRepo{}
	l := NewLogger(nil, &auditOnlyRM{repo: repo}, discardLogger())

	for i := 0; i < 20; i++ {
		l.Record(Event{EntryID: "e1", UserID: "u1", Action: models.AuditActionRead, Result: models.AuditResultSuccess})
	}
	l.Wait()

	repo.mu.Lock()
	defer repo.mu.Unlock()
	assert.Len(t, repo.rows, 20)
}
