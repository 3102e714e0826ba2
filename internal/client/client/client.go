package client

import (
	"context"

	"github.com/citycare/citycare/internal/client/models"
	"github.com/citycare/citycare/internal/common"
)

// Client is the transport-agnostic contract for talking to the report
// server. Every error it returns is a *RemoteError.
type Client interface {
	Close() error
	Ping(ctx context.Context) error

	Register(ctx context.Context, email, password, displayName string) (string, error)
	Login(ctx context.Context, email, password string) (*models.Session, error)
	Logout(ctx context.Context) error
	// Resume installs tokens of a session restored from local storage.
	Resume(session *models.Session)
	// Tokens returns the current token pair, which changes on refresh.
	Tokens() (access, refresh string)

	Create(ctx context.Context, draft models.ReportDraft) (*models.ServerReport, error)
	List(ctx context.Context, filter models.ReportFilter) ([]models.ServerReport, error)
	Update(ctx context.Context, id string, update models.ReportUpdate) (*models.ServerReport, error)
	Delete(ctx context.Context, id string) error
	Upvote(ctx context.Context, id string) (int64, error)
	Upvoted(ctx context.Context) ([]string, error)

	ListUsers(ctx context.Context) ([]models.User, error)
	SetUserRole(ctx context.Context, userID string, role common.Role) error
	ListAuditLogs(ctx context.Context, limit int) ([]models.AuditLog, error)
}
