// Package keys provides the PostgreSQL-backed repository for issued
// encryption-key records.
package keys

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/anovikov/journalvault/internal/common"
	"github.com/anovikov/journalvault/internal/dbx"
	"github.com/anovikov/journalvault/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, key *models.EncryptionKey) error {
	query := `
		INSERT INTO encryption_keys (key_id, algorithm, created_by, activated_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.ExecContext(ctx, query, key.KeyID, key.Algorithm, key.CreatedBy, key.ActivatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, keyID string) (*models.EncryptionKey, error) {
	query := `
		SELECT key_id, algorithm, created_by, activated_at FROM encryption_keys
		WHERE key_id = $1
	`
	key := &models.EncryptionKey{}
	err := r.db.QueryRowContext(ctx, query, keyID).Scan(&key.KeyID, &key.Algorithm, &key.CreatedBy, &key.ActivatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return key, nil
}
