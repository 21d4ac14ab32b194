package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/profiledesk/internal/config"
)

func run(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	load := func() *config.Config { return cfg }

	root := MigrateCmd(load)
	root.Use = "admin"
	root.AddCommand(DirsCmd(load))

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestMigrate_UpStatusDown(t *testing.T) {
	cfg := &config.Config{
		DBDriver:     "sqlite",
		DBConnection: filepath.Join(t.TempDir(), "admin.db"),
	}

	out, err := run(t, cfg, "up")
	require.NoError(t, err)
	assert.Contains(t, out, "schema version: 1")

	out, err = run(t, cfg, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "schema version: 1")

	out, err = run(t, cfg, "down")
	require.NoError(t, err)
	assert.Contains(t, out, "schema version: 0")
}

func TestMigrate_MongoRejected(t *testing.T) {
	_, err := run(t, &config.Config{DBDriver: "mongodb"}, "status")
	assert.ErrorIs(t, err, errNoMigrations)
}

func TestDirs(t *testing.T) {
	root := filepath.Join(t.TempDir(), "uploads")

	out, err := run(t, &config.Config{StorageDriver: "local", UploadsPath: root}, "dirs")
	require.NoError(t, err)
	assert.Contains(t, out, "upload directories ready")
	assert.DirExists(t, filepath.Join(root, "profiles"))
	assert.DirExists(t, filepath.Join(root, "certificates"))

	_, err = run(t, &config.Config{StorageDriver: "s3"}, "dirs")
	assert.Error(t, err)
}
