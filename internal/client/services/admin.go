package services

import (
	"context"
	"fmt"

	"github.com/citycare/citycare/internal/client/client"
	"github.com/citycare/citycare/internal/client/models"
	"github.com/citycare/citycare/internal/common"
)

// AdminService exposes the administrator-only calls. The server enforces the
// role; the CLI only hides the commands from regular users.
type AdminService interface {
	Users(ctx context.Context) ([]models.User, error)
	SetRole(ctx context.Context, userID string, role common.Role) error
	AuditLog(ctx context.Context, limit int) ([]models.AuditLog, error)
}

type adminService struct {
	client client.Client
}

func NewAdminService(c client.Client) AdminService {
	return &adminService{client: c}
}

func (s *adminService) Users(ctx context.Context) ([]models.User, error) {
	return s.client.ListUsers(ctx)
}

func (s *adminService) SetRole(ctx context.Context, userID string, role common.Role) error {
	if !role.Valid() {
		return fmt.Errorf("%w: unknown role %q", common.ErrorValidation, role)
	}
	return s.client.SetUserRole(ctx, userID, role)
}

// AuditLog returns the newest entries first, at most limit of them
// (common.AuditLogRetention when limit is not positive).
func (s *adminService) AuditLog(ctx context.Context, limit int) ([]models.AuditLog, error) {
	if limit <= 0 || limit > common.AuditLogRetention {
		limit = common.AuditLogRetention
	}
	return s.client.ListAuditLogs(ctx, limit)
}
