package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("DefaultsApplied", func(t *testing.T) {
		path := writeConfig(t, `
database:
  path: test.db
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "shareit", cfg.App.Name)
		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, 10, cfg.Server.ShutdownSec)
		assert.Equal(t, float64(50), cfg.RateLimit.RPS)
		assert.Equal(t, "exports", cfg.Exports.Path)
	})

	t.Run("EnvExpansion", func(t *testing.T) {
		t.Setenv("TEST_DB_PATH", "/tmp/expanded.db")
		path := writeConfig(t, `
database:
  path: ${TEST_DB_PATH}
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "/tmp/expanded.db", cfg.Database.Path)
	})

	t.Run("MissingDatabasePath", func(t *testing.T) {
		path := writeConfig(t, `
server:
  port: 9000
`)
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("InvalidPort", func(t *testing.T) {
		path := writeConfig(t, `
database:
  path: test.db
server:
  port: 99999
`)
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("BadYAML", func(t *testing.T) {
		path := writeConfig(t, "::not yaml::")
		_, err := Load(path)
		assert.Error(t, err)
	})
}
