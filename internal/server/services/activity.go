package services

import (
	"context"

	"github.com/anovikov/journalvault/internal/logging"
)

// ActivityTracker is the external collaborator notified after an entry
// commits. Its failures never affect the committed transaction.
type ActivityTracker interface {
	EntryCreated(ctx context.Context, studentID, entryID string, wordCount int, isPrivate bool) error
}

// LoggingActivityTracker is the default tracker: it just emits a structured
// log line. Deployments replace it with a client for the activity pipeline.
type LoggingActivityTracker struct {
	logger logging.Logger
}

func NewLoggingActivityTracker(logger logging.Logger) *LoggingActivityTracker {
	return &LoggingActivityTracker{logger: logger.With("module", "activity")}
}

func (t *LoggingActivityTracker) EntryCreated(ctx context.Context, studentID, entryID string, wordCount int, isPrivate bool) error {
	t.logger.Info(ctx, "journal entry created",
		"student_id", studentID, "entry_id", entryID, "word_count", wordCount, "is_private", isPrivate)
	return nil
}
