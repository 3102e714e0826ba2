package client

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countTables(t *testing.T, db *sql.DB, names ...string) int {
	t.Helper()
	n := 0
	for _, name := range names {
		var c int
		require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&c))
		n += c
	}
	return n
}

func TestInitDatabase(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "citycare.db")

	db, err := InitDatabase(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	assert.Equal(t, 2, countTables(t, db, "goose_db_version", "kv"))
	assert.Equal(t, 1, db.Stats().MaxOpenConnections)

	_, err = db.ExecContext(ctx, `INSERT INTO kv (key, value) VALUES (?, ?)`, "offline_mode", []byte("true"))
	require.NoError(t, err)

	var (
		value   []byte
		updated sql.NullTime
	)
	require.NoError(t, db.QueryRowContext(ctx, `SELECT value, updated_at FROM kv WHERE key = ?`, "offline_mode").Scan(&value, &updated))
	assert.Equal(t, "true", string(value))
	assert.True(t, updated.Valid)
}

func TestInitDatabase_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "citycare.db")

	db, err := InitDatabase(ctx, path)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO kv (key, value) VALUES ('queue', x'5b5d')`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = InitDatabase(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var n int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM kv`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestRunMigrations_Twice(t *testing.T) {
	ctx := context.Background()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "citycare.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, RunMigrations(ctx, db))
	require.NoError(t, RunMigrations(ctx, db))
	assert.Equal(t, 1, countTables(t, db, "kv"))
}

func TestInitDatabase_BadPath(t *testing.T) {
	_, err := InitDatabase(context.Background(), filepath.Join(t.TempDir(), "missing", "dir", "citycare.db"))
	assert.Error(t, err)
}
