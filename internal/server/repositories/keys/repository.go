package keys

import (
	"context"

	"github.com/anovikov/journalvault/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, key *models.EncryptionKey) error
	GetByID(ctx context.Context, keyID string) (*models.EncryptionKey, error)
}
