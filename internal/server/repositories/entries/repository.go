package entries

import (
	"context"
	"time"

	"github.com/anovikov/journalvault/internal/server/models"
)

// Filter narrows list queries. Pagination fields apply to List only; Count
// evaluates the same predicates without them.
type Filter struct {
	StartDate      *time.Time
	EndDate        *time.Time
	IncludePrivate bool
	Tags           []string
	Emotions       []string
	SearchQuery    string
	SortBy         string
	SortOrder      string
	Limit          int
	Offset         int
}

type Repository interface {
	Create(ctx context.Context, entry *models.JournalEntry) error
	// GetByID returns common.ErrorNotFound for absent or soft-deleted rows.
	GetByID(ctx context.Context, id string) (*models.JournalEntry, error)
	Update(ctx context.Context, entry *models.JournalEntry) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
	// ListByStudent returns metadata only: ciphertext columns are not
	// selected, list rendering never decrypts.
	ListByStudent(ctx context.Context, studentID string, f Filter) ([]*models.JournalEntry, error)
	CountByStudent(ctx context.Context, studentID string, f Filter) (int, error)
}
