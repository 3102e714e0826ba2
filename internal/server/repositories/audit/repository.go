// Package audit persists the administrative audit trail.
package audit

import (
	"context"

	"github.com/citycare/citycare/internal/server/models"
)

type Repository interface {
	Insert(ctx context.Context, entry *models.AuditLog) error
	// List returns up to limit entries, newest first.
	List(ctx context.Context, limit int) ([]*models.AuditLog, error)
	// Trim keeps the newest keep entries and returns how many were dropped.
	Trim(ctx context.Context, keep int) (int64, error)
}
