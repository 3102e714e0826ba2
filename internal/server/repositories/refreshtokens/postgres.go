// Package refreshtokens persists the refresh tokens handed out at login.
// Only a SHA-256 digest of each token reaches the database.
package refreshtokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/citycare/citycare/internal/common"
	"github.com/citycare/citycare/internal/cryptox"
	"github.com/citycare/citycare/internal/dbx"
	"github.com/citycare/citycare/internal/server/models"
)

const (
	insertToken = `INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES ($1, $2, $3)`
	selectToken = `SELECT id, user_id, expires_at, created_at FROM refresh_tokens WHERE token_hash = $1`
	deleteToken = `DELETE FROM refresh_tokens WHERE token_hash = $1`
	purgeTokens = `DELETE FROM refresh_tokens WHERE expires_at < $1`
)

// PostgresRepository runs against a *sql.DB or, inside dbx.WithTx, a *sql.Tx.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, userID, token string, expiresAt time.Time) error {
	if _, err := r.db.ExecContext(ctx, insertToken, userID, cryptox.TokenDigest(token), expiresAt); err != nil {
		return fmt.Errorf("store refresh token: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	rt := models.RefreshToken{Token: token}
	err := r.db.QueryRowContext(ctx, selectToken, cryptox.TokenDigest(token)).
		Scan(&rt.ID, &rt.UserID, &rt.Expires, &rt.CreatedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, common.ErrorNotFound
	case err != nil:
		return nil, fmt.Errorf("find refresh token: %w", err)
	}
	return &rt, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, token string) error {
	if _, err := r.db.ExecContext(ctx, deleteToken, cryptox.TokenDigest(token)); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, purgeTokens, now)
	if err != nil {
		return 0, fmt.Errorf("purge refresh tokens: %w", err)
	}
	return res.RowsAffected()
}
