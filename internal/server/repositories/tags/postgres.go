// Package tags provides the PostgreSQL-backed repository for the global tag
// table and the entry-tag join.
package tags

import (
	"context"
	"fmt"
	"strings"

	"github.com/anovikov/journalvault/internal/dbx"
	"github.com/anovikov/journalvault/internal/server/models"
	"github.com/google/uuid"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(ctx context.Context, name string) (*models.Tag, error) {
	query := `
		INSERT INTO tags (id, name, usage_count)
		VALUES ($1, $2, 1)
		ON CONFLICT (name)
		DO UPDATE SET usage_count = tags.usage_count + 1
		RETURNING id, name, usage_count
	`
	tag := &models.Tag{}
	err := r.db.QueryRowContext(ctx, query, uuid.NewString(), strings.ToLower(strings.TrimSpace(name))).
		Scan(&tag.ID, &tag.Name, &tag.UsageCount)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return tag, nil
}

func (r *PostgresRepository) Associate(ctx context.Context, entryID, tagID string) error {
	query := `
		INSERT INTO entry_tags (entry_id, tag_id)
		VALUES ($1, $2)
		ON CONFLICT (entry_id, tag_id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, entryID, tagID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByEntryID(ctx context.Context, entryID string) ([]*models.Tag, error) {
	query := `
		SELECT t.id, t.name, t.usage_count
		FROM tags t
		JOIN entry_tags et ON et.tag_id = t.id
		WHERE et.entry_id = $1
		ORDER BY t.name
	`
	rows, err := r.db.QueryContext(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Tag
	for rows.Next() {
		tag := &models.Tag{}
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.UsageCount); err != nil {
			return nil, err
		}
		result = append(result, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) DissociateAll(ctx context.Context, entryID string) error {
	query := `DELETE FROM entry_tags WHERE entry_id = $1`
	if _, err := r.db.ExecContext(ctx, query, entryID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
