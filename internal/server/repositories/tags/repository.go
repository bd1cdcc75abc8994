package tags

import (
	"context"

	"github.com/anovikov/journalvault/internal/server/models"
)

type Repository interface {
	// Upsert finds or creates a tag by lowercased name and increments its
	// usage count, returning the canonical row.
	Upsert(ctx context.Context, name string) (*models.Tag, error)
	Associate(ctx context.Context, entryID, tagID string) error
	GetByEntryID(ctx context.Context, entryID string) ([]*models.Tag, error)
	// DissociateAll removes the entry's tag associations; tag rows and their
	// usage counts stay untouched.
	DissociateAll(ctx context.Context, entryID string) error
}
