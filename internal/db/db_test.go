package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSqliteDir(t *testing.T) {
	assert.Equal(t, "data", sqliteDir("data/app.db?_pragma=foreign_keys(1)"))
	assert.Equal(t, "/var/lib/app", sqliteDir("file:/var/lib/app/app.db"))
	assert.Equal(t, "", sqliteDir(":memory:"))
}

func TestInitAndMigrations(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "nested", "test.db")

	conn, err := Init(ctx, "sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(conn) })

	require.NoError(t, RunMigrations(ctx, conn.DB, "sqlite"))

	version, err := Version(ctx, conn.DB, "sqlite")
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	var photo string
	_, err = conn.ExecContext(ctx, `INSERT INTO users (id, username, email, password_hash) VALUES ('u1', 'ana', 'ana@example.com', 'x')`)
	require.NoError(t, err)
	require.NoError(t, conn.GetContext(ctx, &photo, `SELECT profile_photo FROM users WHERE id = 'u1'`))
	assert.Equal(t, "default-avatar.png", photo)

	require.NoError(t, MigrateDown(ctx, conn.DB, "sqlite"))
	_, err = conn.ExecContext(ctx, `SELECT 1 FROM users`)
	assert.Error(t, err)
}

func TestRunMigrations_UnknownDriver(t *testing.T) {
	require.Error(t, RunMigrations(context.Background(), nil, "mysql"))
}
