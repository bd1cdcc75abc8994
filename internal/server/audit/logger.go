// Package audit records access events to the append-only audit log.
// Recording is best-effort: failures are logged operationally and never
// propagate, so auditing can never block a read or write.
package audit

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/anovikov/journalvault/internal/logging"
	"github.com/anovikov/journalvault/internal/server/models"
	"github.com/anovikov/journalvault/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// ResourceTypeJournalEntry is the resource_type recorded for entry accesses.
const ResourceTypeJournalEntry = "journal_entry"

// writeTimeout bounds each audit insert so a stuck connection cannot pin the
// goroutine forever.
const writeTimeout = 5 * time.Second

// Event describes one access decision to record.
type Event struct {
	EntryID              string
	UserID               string
	UserRole             string
	Action               string
	Result               string
	Source               string
	IPAddress            string
	UserAgent            string
	DecryptionSuccessful bool
}

type Logger struct {
	db     *sql.DB
	rm     repomanager.RepositoryManager
	logger logging.Logger
	wg     sync.WaitGroup
}

func NewLogger(db *sql.DB, rm repomanager.RepositoryManager, logger logging.Logger) *Logger {
	return &Logger{db: db, rm: rm, logger: logger.With("module", "audit")}
}

// Record appends an audit row asynchronously. The write runs outside the
// caller's transaction and is detached from its context: it may outlive the
// primary operation's visible completion.
func (l *Logger) Record(ev Event) {
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()

		row := &models.AuditLogEntry{
			ID:                   uuid.NewString(),
			UserID:               ev.UserID,
			UserRole:             ev.UserRole,
			ResourceType:         ResourceTypeJournalEntry,
			ResourceID:           ev.EntryID,
			Action:               ev.Action,
			Result:               ev.Result,
			Source:               ev.Source,
			IPAddress:            ev.IPAddress,
			UserAgent:            ev.UserAgent,
			DecryptionSuccessful: ev.DecryptionSuccessful,
			CreatedAt:            time.Now().UTC(),
		}

		if err := l.rm.Audit(l.db).Insert(ctx, row); err != nil {
			l.logger.Error(ctx, "audit write failed",
				"entry_id", ev.EntryID, "user_id", ev.UserID, "action", ev.Action, "error", err)
		}
	}()
}

// Wait blocks until all in-flight audit writes finish. Used on shutdown and
// in tests.
func (l *Logger) Wait() {
	l.wg.Wait()
}
