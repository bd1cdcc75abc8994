// Package attachments provides the PostgreSQL-backed repository for
// attachment metadata. Blob bytes live in object storage, not here.
package attachments

import (
	"context"
	"fmt"

	"github.com/anovikov/journalvault/internal/dbx"
	"github.com/anovikov/journalvault/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, a *models.Attachment) error {
	query := `
		INSERT INTO attachments (id, entry_id, file_name, mime_type, size_bytes, storage_key, upload_status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.EntryID, a.FileName, a.MimeType, a.SizeBytes, a.StorageKey, a.UploadStatus, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByEntryID(ctx context.Context, entryID string) ([]*models.Attachment, error) {
	query := `
		SELECT id, entry_id, file_name, mime_type, size_bytes, storage_key, upload_status, created_at
		FROM attachments
		WHERE entry_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Attachment
	for rows.Next() {
		a := &models.Attachment{}
		if err := rows.Scan(&a.ID, &a.EntryID, &a.FileName, &a.MimeType, &a.SizeBytes, &a.StorageKey, &a.UploadStatus, &a.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) MarkUploaded(ctx context.Context, id string) error {
	query := `UPDATE attachments SET upload_status = 'uploaded' WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteByEntryID(ctx context.Context, entryID string) error {
	query := `DELETE FROM attachments WHERE entry_id = $1`
	if _, err := r.db.ExecContext(ctx, query, entryID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
