package services

import (
	"context"
	"database/sql"

	"github.com/citycare/citycare/internal/common"
	"github.com/citycare/citycare/internal/logging"
	"github.com/citycare/citycare/internal/server/models"
	"github.com/citycare/citycare/internal/server/repositories/repomanager"
)

// DefaultAuditPageSize is used when ListAuditLogs is called without a limit.
const DefaultAuditPageSize = 100

// AuditService writes and reads the audit trail. Writes are best effort: a
// failed insert is logged and never fails the audited operation.
type AuditService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewAuditService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *AuditService {
	return &AuditService{db: db, repomanager: m, logger: logger.With("module", "audit")}
}

// Record stores entry and trims the trail to common.AuditLogRetention rows.
func (s *AuditService) Record(ctx context.Context, entry *models.AuditLog) {
	repo := s.repomanager.Audit(s.db)
	if err := repo.Insert(ctx, entry); err != nil {
		s.logger.Error(ctx, "audit insert failed", "action", entry.Action, "error", err)
		return
	}
	if _, err := repo.Trim(ctx, common.AuditLogRetention); err != nil {
		s.logger.Warn(ctx, "audit trim failed", "error", err)
	}
}

// List returns the newest entries. limit is clamped to (0, AuditLogRetention].
func (s *AuditService) List(ctx context.Context, limit int) ([]*models.AuditLog, error) {
	switch {
	case limit <= 0:
		limit = DefaultAuditPageSize
	case limit > common.AuditLogRetention:
		limit = common.AuditLogRetention
	}
	logs, err := s.repomanager.Audit(s.db).List(ctx, limit)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return logs, nil
}
