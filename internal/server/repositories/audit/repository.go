package audit

import (
	"context"

	"github.com/anovikov/journalvault/internal/server/models"
)

type Repository interface {
	// Insert appends one access-log row. There are no update or delete
	// operations: the log is append-only.
	Insert(ctx context.Context, row *models.AuditLogEntry) error
}
