package refreshtokens

import (
	"context"
	"time"

	"github.com/citycare/citycare/internal/server/models"
)

// Repository stores refresh tokens. Tokens are single use: the caller
// deletes a token as it redeems it.
type Repository interface {
	Create(ctx context.Context, userID, token string, expiresAt time.Time) error
	// Find returns common.ErrorNotFound for unknown tokens.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)
	// Delete is a no-op for unknown tokens.
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
