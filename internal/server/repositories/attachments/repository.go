package attachments

import (
	"context"

	"github.com/anovikov/journalvault/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, a *models.Attachment) error
	GetByEntryID(ctx context.Context, entryID string) ([]*models.Attachment, error)
	MarkUploaded(ctx context.Context, id string) error
	DeleteByEntryID(ctx context.Context, entryID string) error
}
