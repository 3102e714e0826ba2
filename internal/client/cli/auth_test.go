package cli

import (
	"context"
	"testing"

	"github.com/citycare/citycare/internal/client/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_Success(t *testing.T) {
	ta := newTestApp(t, nil)
	stubInputs(t, []byte("secret"), "alice@example.org", "Alice")

	require.NoError(t, ta.Register(context.Background()))
	assert.Equal(t, [3]string{"alice@example.org", "secret", "Alice"}, ta.auth.regArgs)
	assert.Contains(t, ta.output(), "Account created")
}

func TestRegister_ErrorReported(t *testing.T) {
	ta := newTestApp(t, nil)
	ta.auth.regErr = &client.RemoteError{Op: "register", Err: client.ErrUnavailable}
	stubInputs(t, []byte("secret"), "alice@example.org", "")

	require.ErrorIs(t, ta.Register(context.Background()), client.ErrUnavailable)
	assert.Contains(t, ta.output(), "server unavailable")
}

func TestLogin_SetsUserAndRefreshes(t *testing.T) {
	ta := newTestApp(t, nil)
	ta.auth.loginUser = citizen()
	stubInputs(t, []byte("pw"), "ann@city.test")

	require.NoError(t, ta.Login(context.Background()))
	assert.Equal(t, [2]string{"ann@city.test", "pw"}, ta.auth.loginArgs)
	assert.True(t, ta.isLoggedIn())
	assert.False(t, ta.isAdmin())
	assert.Equal(t, 1, ta.reports.refreshes)
	assert.Contains(t, ta.output(), "Welcome, ann@city.test!")
}

func TestLogin_Failure(t *testing.T) {
	ta := newTestApp(t, nil)
	ta.auth.loginErr = &client.RemoteError{Op: "login", Err: client.ErrUnauthorized}
	stubInputs(t, []byte("bad"), "ann@city.test")

	require.ErrorIs(t, ta.Login(context.Background()), client.ErrUnauthorized)
	assert.False(t, ta.isLoggedIn())
	assert.Zero(t, ta.reports.refreshes)
}

func TestLogin_RefusedWhileOffline(t *testing.T) {
	ta := newTestApp(t, nil)
	ta.conn.offline = true

	require.ErrorIs(t, ta.Login(context.Background()), client.ErrUnavailable)
	assert.Empty(t, ta.auth.loginArgs[0])
}

func TestLogout(t *testing.T) {
	ta := newTestApp(t, citizen())
	ta.auth.logoutErr = &client.RemoteError{Op: "logout", Err: client.ErrUnavailable}

	require.NoError(t, ta.Logout(context.Background()))
	assert.True(t, ta.auth.loggedOut)
	assert.False(t, ta.isLoggedIn())
}
