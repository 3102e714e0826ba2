package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/citycare/citycare/internal/server/repositories/audit"
	"github.com/citycare/citycare/internal/server/repositories/refreshtokens"
	"github.com/citycare/citycare/internal/server/repositories/reports"
	"github.com/citycare/citycare/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestFactories_ReturnPostgresRepos(t *testing.T) {
	db, _ := newDB(t)
	m := NewPostgresRepositoryManager()

	assert.IsType(t, &users.PostgresRepository{}, m.Users(db))
	assert.IsType(t, &refreshtokens.PostgresRepository{}, m.RefreshTokens(db))
	assert.IsType(t, &reports.PostgresRepository{}, m.Reports(db))
	assert.IsType(t, &audit.PostgresRepository{}, m.Audit(db))
}

func stubGoose(t *testing.T, fn func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error) {
	t.Helper()
	orig := gooseUpContext
	gooseUpContext = fn
	t.Cleanup(func() { gooseUpContext = orig })
}

func TestRunMigrations_Success(t *testing.T) {
	db, _ := newDB(t)
	var gotDir string
	stubGoose(t, func(_ context.Context, _ *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		gotDir = dir
		return nil
	})

	require.NoError(t, NewPostgresRepositoryManager().RunMigrations(context.Background(), db))
	assert.Equal(t, ".", gotDir)
}

func TestRunMigrations_Error(t *testing.T) {
	db, _ := newDB(t)
	stubGoose(t, func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error {
		return errors.New("boom")
	})

	err := NewPostgresRepositoryManager().RunMigrations(context.Background(), db)
	assert.EqualError(t, err, "boom")
}

func TestOpenPostgres(t *testing.T) {
	db, mock := newDB(t)
	orig := sqlOpen
	t.Cleanup(func() { sqlOpen = orig })

	var driver, dsn string
	sqlOpen = func(d, s string) (*sql.DB, error) {
		driver, dsn = d, s
		return db, nil
	}
	mock.ExpectPing()

	got, err := OpenPostgres(context.Background(), "postgres://x")
	require.NoError(t, err)
	assert.Same(t, db, got)
	assert.Equal(t, "pgx", driver)
	assert.Equal(t, "postgres://x", dsn)
}

func TestOpenPostgres_PingFails(t *testing.T) {
	db, mock := newDB(t)
	orig := sqlOpen
	t.Cleanup(func() { sqlOpen = orig })
	sqlOpen = func(string, string) (*sql.DB, error) { return db, nil }
	mock.ExpectPing().WillReturnError(errors.New("refused"))

	_, err := OpenPostgres(context.Background(), "postgres://x")
	assert.EqualError(t, err, "refused")
}
