// Package emotions provides the PostgreSQL-backed repository for per-entry
// emotional-state rows. Secondary emotions are stored as a JSONB document.
package emotions

import (
	"context"
	"database/sql"
	"encoding/json"
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

func (r *PostgresRepository) Create(ctx context.Context, s *models.EmotionalState) error {
	secondary, err := json.Marshal(s.Secondary)
	if err != nil {
		return fmt.Errorf("secondary emotions marshal error: %w", err)
	}

	query := `
		INSERT INTO emotional_states (
			id, entry_id, primary_emotion, intensity, confidence,
			secondary_emotions, context, mood_before, mood_after, detected_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = r.db.ExecContext(ctx, query,
		s.ID, s.EntryID, s.Primary, s.Intensity, s.Confidence,
		secondary, s.Context, s.MoodBefore, s.MoodAfter, s.DetectedBy, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByEntryID(ctx context.Context, entryID string) (*models.EmotionalState, error) {
	query := `
		SELECT id, entry_id, primary_emotion, intensity, confidence,
			secondary_emotions, context, mood_before, mood_after, detected_by, created_at
		FROM emotional_states
		WHERE entry_id = $1
	`
	s := &models.EmotionalState{}
	var secondary []byte
	err := r.db.QueryRowContext(ctx, query, entryID).Scan(
		&s.ID, &s.EntryID, &s.Primary, &s.Intensity, &s.Confidence,
		&secondary, &s.Context, &s.MoodBefore, &s.MoodAfter, &s.DetectedBy, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if len(secondary) > 0 {
		if err := json.Unmarshal(secondary, &s.Secondary); err != nil {
			return nil, fmt.Errorf("secondary emotions unmarshal error: %w", err)
		}
	}
	return s, nil
}

func (r *PostgresRepository) DeleteByEntryID(ctx context.Context, entryID string) error {
	query := `DELETE FROM emotional_states WHERE entry_id = $1`
	if _, err := r.db.ExecContext(ctx, query, entryID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
