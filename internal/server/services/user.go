// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login, roles, and issuing and
// rotating JWT access tokens plus server-stored refresh tokens.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/citycare/citycare/internal/common"
	"github.com/citycare/citycare/internal/cryptox"
	"github.com/citycare/citycare/internal/dbx"
	"github.com/citycare/citycare/internal/logging"
	"github.com/citycare/citycare/internal/server/auth"
	"github.com/citycare/citycare/internal/server/config"
	"github.com/citycare/citycare/internal/server/models"
	"github.com/citycare/citycare/internal/server/repositories/repomanager"
)

// MinPasswordLength is the shortest password Register accepts.
const MinPasswordLength = 6

var now = time.Now

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// UserService provides authentication-related operations:
//   - Register: create users, promoting configured admin emails
//   - Login: verify credentials and mint tokens
//   - RefreshToken: rotate refresh tokens and mint new access tokens
//   - SetRole: change a user's role
type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	audit                        *AuditService
	logger                       logging.Logger
	cfg                          *config.Config
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, audit *AuditService, cfg *config.Config, logger logging.Logger) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		audit:                        audit,
		logger:                       logger.With("module", "users"),
		cfg:                          cfg,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// Register creates an account. Emails listed in the AdminEmails setting
// get the admin role.
func (s *UserService) Register(ctx context.Context, email, password, displayName string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: invalid email %q", common.ErrorValidation, email)
	}
	if len(password) < MinPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", common.ErrorValidation, MinPasswordLength)
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName, _, _ = strings.Cut(email, "@")
	}

	role := common.RoleUser
	if s.cfg.IsAdminEmail(email) {
		role = common.RoleAdmin
	}

	pw := []byte(password)
	defer common.WipeByteArray(pw)
	salt := cryptox.NewSalt()
	user := &models.User{
		Email:        email,
		DisplayName:  displayName,
		Salt:         salt,
		PasswordHash: cryptox.HashPassword(pw, salt),
		Role:         role,
	}

	u, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.audit.Record(ctx, &models.AuditLog{
		Action:   common.AuditSignup,
		Actor:    u.Email,
		TargetID: u.ID,
		Details:  "role " + string(u.Role),
		Category: common.AuditSystem,
	})
	return u, nil
}

// Login verifies the password and returns the user with a new TokenPair.
// Unknown emails and wrong passwords both yield common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, *TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// keep timing comparable to the known-user path
			cryptox.HashPassword([]byte(password), cryptox.NewSalt())
			return nil, nil, common.ErrorUnauthorized
		}
		return nil, nil, common.ErrorInternal
	}

	pw := []byte(password)
	defer common.WipeByteArray(pw)
	if !cryptox.VerifyPassword(user.PasswordHash, user.Salt, pw) {
		s.audit.Record(ctx, &models.AuditLog{
			Action:   common.AuditLogin,
			Actor:    user.Email,
			TargetID: user.ID,
			Details:  "failed password",
			Category: common.AuditSecurityAlert,
		})
		return nil, nil, common.ErrorUnauthorized
	}

	pair, err := s.generateTokenPair(ctx, user, s.db)
	if err != nil {
		return nil, nil, err
	}
	s.audit.Record(ctx, &models.AuditLog{
		Action:   common.AuditLogin,
		Actor:    user.Email,
		TargetID: user.ID,
		Category: common.AuditSystem,
	})
	return user, pair, nil
}

// RefreshToken validates a refresh token, rotates it transactionally, and
// returns a fresh TokenPair. Expired tokens yield ErrRefreshTokenExpired.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	repo := s.repomanager.RefreshTokens(s.db)

	token, err := repo.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if token.Expired(now()) {
		if err := repo.Delete(ctx, refreshToken); err != nil {
			s.logger.Warn(ctx, "expired refresh token not deleted", "error", err)
		}
		return nil, common.ErrRefreshTokenExpired
	}

	return dbx.InTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) (*TokenPair, error) {
		if err := s.repomanager.RefreshTokens(tx).Delete(ctx, refreshToken); err != nil {
			return nil, fmt.Errorf("error deleting refresh token: %w", err)
		}
		user, err := s.repomanager.Users(tx).GetByID(ctx, token.UserID)
		if err != nil {
			return nil, fmt.Errorf("error loading token owner: %w", err)
		}
		return s.generateTokenPair(ctx, user, tx)
	})
}

// Logout revokes refreshToken. Unknown tokens are ignored.
func (s *UserService) Logout(ctx context.Context, refreshToken string) error {
	if err := s.repomanager.RefreshTokens(s.db).Delete(ctx, refreshToken); err != nil {
		return common.ErrorInternal
	}
	return nil
}

// PurgeExpiredTokens deletes refresh tokens that are past their expiry.
func (s *UserService) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	return s.repomanager.RefreshTokens(s.db).DeleteExpired(ctx, now())
}

func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, id)
}

func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	users, err := s.repomanager.Users(s.db).List(ctx)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return users, nil
}

// SetRole changes userID's role on behalf of actorID and records it.
func (s *UserService) SetRole(ctx context.Context, actorID, userID string, role common.Role) error {
	if !role.Valid() {
		return fmt.Errorf("%w: unknown role %q", common.ErrorValidation, role)
	}
	repo := s.repomanager.Users(s.db)
	target, err := repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := repo.SetRole(ctx, userID, role); err != nil {
		return err
	}
	actor := actorID
	if a, err := repo.GetByID(ctx, actorID); err == nil {
		actor = a.Email
	}
	s.audit.Record(ctx, &models.AuditLog{
		Action:      common.AuditRoleChange,
		Actor:       actor,
		TargetID:    target.ID,
		TargetTitle: target.Email,
		Details:     fmt.Sprintf("%s -> %s", target.Role, role),
		Category:    common.AuditAdminAction,
	})
	return nil
}

// --- helpers below ---

func (s *UserService) generateTokenPair(ctx context.Context, user *models.User, tx dbx.DBTX) (*TokenPair, error) {
	access, err := auth.GenerateToken(user.ID, user.Role, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrorInternal
	}
	if err := s.repomanager.RefreshTokens(tx).Create(ctx, user.ID, refresh, now().Add(s.refreshTokenValidityDuration)); err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
