package emotions

import (
	"context"

	"github.com/anovikov/journalvault/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, state *models.EmotionalState) error
	// GetByEntryID returns common.ErrorNotFound when the entry has no
	// emotional state attached.
	GetByEntryID(ctx context.Context, entryID string) (*models.EmotionalState, error)
	// DeleteByEntryID removes the current state; replacing a state is always
	// delete-then-insert, never a partial patch.
	DeleteByEntryID(ctx context.Context, entryID string) error
}
