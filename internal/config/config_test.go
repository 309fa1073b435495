package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8090", cfg.Server.Addr)
	assert.Equal(t, 12*time.Hour, cfg.Server.TokenTTL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "fieldready.db", cfg.Edge.SQLitePath)
}

func TestLoadLayersFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
server:
  addr: ":9999"
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv("FIELDREADY_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
	// untouched sections keep their defaults
	assert.Equal(t, "exports", cfg.Export.Dir)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  addr: \":9999\"\n"), 0o600))
	t.Setenv("FIELDREADY_CONFIG", path)
	t.Setenv("FIELDREADY_SERVER__ADDR", ":7070")
	t.Setenv("FIELDREADY_DATABASE__URL", "postgres://localhost/fieldready")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, "postgres://localhost/fieldready", cfg.Database.URL)
}

func TestValidateRejectsBadLevel(t *testing.T) {
	cfg := Defaults()
	cfg.Log.Level = "loud"
	assert.Error(t, cfg.Validate())
}

func TestRequireServerNeedsSecretAndDB(t *testing.T) {
	cfg := Defaults()
	assert.Error(t, cfg.RequireServer())

	cfg.Server.JWTSecret = "s3cr3t"
	cfg.Database.URL = "postgres://localhost/fieldready"
	assert.NoError(t, cfg.RequireServer())
}
