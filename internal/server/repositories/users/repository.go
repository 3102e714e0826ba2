// Package users declares the server-side repository contract for accounts
// and its PostgreSQL implementation.
package users

import (
	"context"

	"github.com/citycare/citycare/internal/common"
	"github.com/citycare/citycare/internal/server/models"
)

// Repository persists user accounts.
type Repository interface {
	// Create inserts user and fills its ID and CreatedAt. A taken email
	// yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByEmail returns common.ErrorNotFound when no account matches.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)

	// List returns every account, oldest first.
	List(ctx context.Context) ([]*models.User, error)

	SetRole(ctx context.Context, id string, role common.Role) error
}
