// Package audit provides the PostgreSQL-backed repository for the
// append-only access audit log.
package audit

import (
	"context"
	"encoding/json"
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

func (r *PostgresRepository) Insert(ctx context.Context, row *models.AuditLogEntry) error {
	additional, err := json.Marshal(map[string]any{
		"source":               row.Source,
		"decryptionSuccessful": row.DecryptionSuccessful,
	})
	if err != nil {
		return fmt.Errorf("additional data marshal error: %w", err)
	}

	query := `
		INSERT INTO access_audit_log (
			id, user_id, user_role, resource_type, resource_id,
			action, result, ip_address, user_agent, additional_data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = r.db.ExecContext(ctx, query,
		row.ID, row.UserID, row.UserRole, row.ResourceType, row.ResourceID,
		row.Action, row.Result, row.IPAddress, row.UserAgent, additional, row.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
