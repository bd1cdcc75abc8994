// Package entries provides the PostgreSQL-backed repository for journal
// entry rows, including soft-delete and the filtered list/count pair used by
// the student timeline.
package entries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anovikov/journalvault/internal/common"
	"github.com/anovikov/journalvault/internal/dbx"
	"github.com/anovikov/journalvault/internal/server/models"
)

// PostgresRepository implements entry storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, e *models.JournalEntry) error {
	query := `
		INSERT INTO journal_entries (
			id, student_id, title,
			encrypted_content, nonce_content, encrypted_plain_text, nonce_plain_text,
			content_hash, word_count, reading_time_minutes,
			privacy_level, is_private, is_shareable_with_teacher, is_shareable_with_parent,
			encryption_key_id, encryption_method, encryption_version,
			created_at, updated_at, last_edited_at, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
	`
	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.StudentID, e.Title,
		e.EncryptedContent, e.NonceContent, e.EncryptedPlainText, e.NoncePlainText,
		e.ContentHash, e.WordCount, e.ReadingTimeMinutes,
		e.PrivacyLevel, e.IsPrivate, e.IsShareableWithTeacher, e.IsShareableWithParent,
		e.EncryptionKeyID, e.EncryptionMethod, e.EncryptionVersion,
		e.CreatedAt, e.UpdatedAt, e.LastEditedAt, e.PublishedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.JournalEntry, error) {
	query := `
		SELECT id, student_id, title,
			encrypted_content, nonce_content, encrypted_plain_text, nonce_plain_text,
			content_hash, word_count, reading_time_minutes,
			privacy_level, is_private, is_shareable_with_teacher, is_shareable_with_parent,
			encryption_key_id, encryption_method, encryption_version,
			created_at, updated_at, last_edited_at, published_at
		FROM journal_entries
		WHERE id = $1 AND deleted_at IS NULL
	`
	e := &models.JournalEntry{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&e.ID, &e.StudentID, &e.Title,
		&e.EncryptedContent, &e.NonceContent, &e.EncryptedPlainText, &e.NoncePlainText,
		&e.ContentHash, &e.WordCount, &e.ReadingTimeMinutes,
		&e.PrivacyLevel, &e.IsPrivate, &e.IsShareableWithTeacher, &e.IsShareableWithParent,
		&e.EncryptionKeyID, &e.EncryptionMethod, &e.EncryptionVersion,
		&e.CreatedAt, &e.UpdatedAt, &e.LastEditedAt, &e.PublishedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

func (r *PostgresRepository) Update(ctx context.Context, e *models.JournalEntry) error {
	query := `
		UPDATE journal_entries SET
			title = $2,
			encrypted_content = $3, nonce_content = $4,
			encrypted_plain_text = $5, nonce_plain_text = $6,
			content_hash = $7, word_count = $8, reading_time_minutes = $9,
			privacy_level = $10, is_private = $11,
			is_shareable_with_teacher = $12, is_shareable_with_parent = $13,
			updated_at = $14, last_edited_at = $15
		WHERE id = $1 AND deleted_at IS NULL
	`
	res, err := r.db.ExecContext(ctx, query,
		e.ID, e.Title,
		e.EncryptedContent, e.NonceContent,
		e.EncryptedPlainText, e.NoncePlainText,
		e.ContentHash, e.WordCount, e.ReadingTimeMinutes,
		e.PrivacyLevel, e.IsPrivate,
		e.IsShareableWithTeacher, e.IsShareableWithParent,
		e.UpdatedAt, e.LastEditedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	query := `
		UPDATE journal_entries SET deleted_at = $2
		WHERE id = $1 AND deleted_at IS NULL
	`
	res, err := r.db.ExecContext(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// sortColumns whitelists the caller-chosen sort column; anything else falls
// back to created_at.
var sortColumns = map[string]string{
	"created_at":   "created_at",
	"updated_at":   "updated_at",
	"title":        "title",
	"word_count":   "word_count",
	"published_at": "published_at",
}

// buildPredicates renders the WHERE clause shared by list and count queries.
func buildPredicates(studentID string, f Filter) (string, []any) {
	where := []string{"student_id = $1", "deleted_at IS NULL"}
	args := []any{studentID}

	next := func() string { return fmt.Sprintf("$%d", len(args)+1) }

	if !f.IncludePrivate {
		where = append(where, "is_private = FALSE")
	}
	if f.StartDate != nil {
		where = append(where, "created_at >= "+next())
		args = append(args, *f.StartDate)
	}
	if f.EndDate != nil {
		where = append(where, "created_at <= "+next())
		args = append(args, *f.EndDate)
	}
	if len(f.Tags) > 0 {
		where = append(where, `EXISTS (
			SELECT 1 FROM entry_tags et JOIN tags tg ON tg.id = et.tag_id
			WHERE et.entry_id = journal_entries.id AND tg.name = ANY(`+next()+`))`)
		args = append(args, f.Tags)
	}
	if len(f.Emotions) > 0 {
		where = append(where, `EXISTS (
			SELECT 1 FROM emotional_states es
			WHERE es.entry_id = journal_entries.id AND es.primary_emotion = ANY(`+next()+`))`)
		args = append(args, f.Emotions)
	}
	if f.SearchQuery != "" {
		where = append(where, "title ILIKE "+next())
		args = append(args, "%"+f.SearchQuery+"%")
	}

	return strings.Join(where, " AND "), args
}

func (r *PostgresRepository) ListByStudent(ctx context.Context, studentID string, f Filter) ([]*models.JournalEntry, error) {
	predicates, args := buildPredicates(studentID, f)

	column, ok := sortColumns[f.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if strings.EqualFold(f.SortOrder, "asc") {
		direction = "ASC"
	}

	query := fmt.Sprintf(`
		SELECT id, student_id, title, content_hash, word_count, reading_time_minutes,
			privacy_level, is_private, is_shareable_with_teacher, is_shareable_with_parent,
			created_at, updated_at, last_edited_at, published_at
		FROM journal_entries
		WHERE %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d`,
		predicates, column, direction, len(args)+1, len(args)+2)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.JournalEntry
	for rows.Next() {
		e := &models.JournalEntry{}
		if err := rows.Scan(
			&e.ID, &e.StudentID, &e.Title, &e.ContentHash, &e.WordCount, &e.ReadingTimeMinutes,
			&e.PrivacyLevel, &e.IsPrivate, &e.IsShareableWithTeacher, &e.IsShareableWithParent,
			&e.CreatedAt, &e.UpdatedAt, &e.LastEditedAt, &e.PublishedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) CountByStudent(ctx context.Context, studentID string, f Filter) (int, error) {
	predicates, args := buildPredicates(studentID, f)

	var total int
	query := "SELECT COUNT(*) FROM journal_entries WHERE " + predicates
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return total, nil
}
