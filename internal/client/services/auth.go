// Package services contains application services for the CityCare client.
// This file defines the authentication service: register, login, logout and
// restoring the session persisted in the local store.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/citycare/citycare/internal/client/client"
	"github.com/citycare/citycare/internal/client/models"
	"github.com/citycare/citycare/internal/client/repositories/kv"
)

const sessionKey = "session"

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: authenticate against the server and persist the session.
//   - Restore: resume the persisted session without a network call, so the
//     CLI can start (and queue reports) while the server is unreachable.
//   - Logout: revoke the refresh token (best effort) and forget the session.
//   - TokensRefreshed: persist a token pair rotated by the transport.
type AuthService interface {
	Register(ctx context.Context, email, password, displayName string) error
	Login(ctx context.Context, email, password string) (*models.User, error)
	Logout(ctx context.Context) error
	Restore(ctx context.Context) (*models.User, error)
	CurrentUser() *models.User
	TokensRefreshed(ctx context.Context, access, refresh string)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type authService struct {
	client client.Client
	kv     kv.Repository

	mu      sync.RWMutex
	session *models.Session
}

// NewAuthService constructs an AuthService bound to the given API client and
// local key/value store.
func NewAuthService(client client.Client, kv kv.Repository) AuthService {
	return &authService{client: client, kv: kv}
}

func (a *authService) Register(ctx context.Context, email, password, displayName string) error {
	if _, err := a.client.Register(ctx, email, password, displayName); err != nil {
		return fmt.Errorf("register error: %w", err)
	}
	return nil
}

func (a *authService) Login(ctx context.Context, email, password string) (*models.User, error) {
	session, err := a.client.Login(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("login error: %w", err)
	}

	if err := a.save(ctx, session); err != nil {
		return nil, fmt.Errorf("session saving error: %w", err)
	}

	user := session.User
	return &user, nil
}

// Restore loads the persisted session into the client. It returns
// client.ErrLocalDataNotAvailable when nobody is signed in.
func (a *authService) Restore(ctx context.Context) (*models.User, error) {
	raw, err := a.kv.Get(ctx, sessionKey)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, client.ErrLocalDataNotAvailable
	}

	var session models.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("%w: %v", client.ErrLocalDataNotAvailable, err)
	}

	a.client.Resume(&session)
	a.mu.Lock()
	a.session = &session
	a.mu.Unlock()

	user := session.User
	return &user, nil
}

func (a *authService) Logout(ctx context.Context) error {
	// the refresh token may already be gone server-side; the local session
	// is dropped regardless
	remoteErr := a.client.Logout(ctx)

	a.mu.Lock()
	a.session = nil
	a.mu.Unlock()
	a.client.Resume(nil)

	if err := a.kv.Remove(ctx, sessionKey); err != nil {
		return err
	}
	return remoteErr
}

func (a *authService) CurrentUser() *models.User {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.session == nil {
		return nil
	}
	user := a.session.User
	return &user
}

func (a *authService) TokensRefreshed(ctx context.Context, access, refresh string) {
	a.mu.RLock()
	current := a.session
	a.mu.RUnlock()
	if current == nil {
		return
	}

	updated := *current
	updated.AccessToken = access
	updated.RefreshToken = refresh
	_ = a.save(ctx, &updated)
}

func (a *authService) save(ctx context.Context, session *models.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return err
	}
	if err := a.kv.Set(ctx, sessionKey, raw); err != nil {
		return err
	}

	a.mu.Lock()
	a.session = session
	a.mu.Unlock()
	return nil
}

// Ping proxies a liveness check to the underlying client.
func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

// Close releases resources held by the underlying client.
func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}
