package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/citycare/citycare/internal/client/client"
	"github.com/citycare/citycare/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for email, display name and password and creates the
// account. It does not sign in.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	name, err := getSimpleText(a.reader, "Enter display name", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.authService.Register(ctx, email, string(password), name); err != nil {
		return a.fail(ctx, "register", err)
	}

	printlnFn("Account created. Use 'login' to sign in.")
	return nil
}

// Login prompts for credentials, signs in and reloads the reports so the
// user's upvotes are known. Signing in needs the server; while offline the
// previously restored session keeps working.
func (a *App) Login(ctx context.Context) error {
	if a.conn.Offline() {
		printlnFn("Login needs a connection. Switch to online mode first.")
		return client.ErrUnavailable
	}

	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.authService.Login(ctx, email, string(password))
	if err != nil {
		return a.fail(ctx, "login", err)
	}
	a.user = user

	printlnFn(fmt.Sprintf("Welcome, %s!", displayName(user.DisplayName, user.Email)))
	if err := a.reportService.Refresh(ctx); err != nil {
		a.logger.Warn(ctx, "refresh after login failed", "error", err)
	}
	return nil
}

// Logout forgets the local session. A failed server-side revoke is only
// logged.
func (a *App) Logout(ctx context.Context) error {
	err := a.authService.Logout(ctx)
	a.user = nil
	if err != nil && !errors.Is(err, client.ErrUnavailable) {
		a.logger.Warn(ctx, "logout failed", "error", err)
	}
	printlnFn("Signed out.")
	return nil
}

func displayName(name, email string) string {
	if name != "" {
		return name
	}
	return email
}
