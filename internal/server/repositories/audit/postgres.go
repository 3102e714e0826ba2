package audit

import (
	"context"
	"fmt"

	"github.com/citycare/citycare/internal/common"
	"github.com/citycare/citycare/internal/dbx"
	"github.com/citycare/citycare/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Insert(ctx context.Context, e *models.AuditLog) error {
	query := `
		INSERT INTO audit_logs (action, actor, target_id, target_title, details, category)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		string(e.Action), e.Actor, e.TargetID, e.TargetTitle, e.Details, string(e.Category),
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context, limit int) ([]*models.AuditLog, error) {
	query := `
		SELECT id, created_at, action, actor, target_id, target_title, details, category
		FROM audit_logs
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.AuditLog{}
	for rows.Next() {
		e := &models.AuditLog{}
		var action, category string
		if err := rows.Scan(&e.ID, &e.CreatedAt, &action, &e.Actor, &e.TargetID, &e.TargetTitle, &e.Details, &category); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		e.Action = common.AuditAction(action)
		e.Category = common.AuditCategory(category)
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Trim(ctx context.Context, keep int) (int64, error) {
	query := `
		DELETE FROM audit_logs
		WHERE id NOT IN (
			SELECT id FROM audit_logs ORDER BY created_at DESC LIMIT $1
		)
	`
	res, err := r.db.ExecContext(ctx, query, keep)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
