package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DanNano/FFQueryAnalyzer/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

// clearDBEnv blanks every name the loader reads credentials from.
func clearDBEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"APP_POSTGRES_USER", "APP_POSTGRES_PASSWORD", "APP_POSTGRES_DB", "APP_POSTGRES_DB_NAME", "APP_POSTGRES_DSN",
		"POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB",
		"DB_USER", "DB_PASSWORD", "DB_NAME", "DATABASE_URL", "DB_CONNECT_STRING",
		"PORT", "APP_SERVER_PORT",
	} {
		t.Setenv(k, "")
	}
}

func TestConfigLoad_FromYAMLAndEnv(t *testing.T) {
	clearDBEnv(t)
	yaml := `
app:
  name: ffquery-analyzer
  env: test

server:
  port: 18080
  shutdown_timeout: 3s

logger:
  level: info
  format: json

postgres:
  host: 127.0.0.1
  port: 5432
  sslmode: disable
  session_mode: direct
  max_conns: 5

defaults:
  year: 2019
`
	path := writeTempConfig(t, yaml)

	t.Setenv("APP_POSTGRES_USER", "testuser")
	t.Setenv("APP_POSTGRES_PASSWORD", "testpass")
	t.Setenv("APP_POSTGRES_DB", "testdb")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 18080, cfg.Server.Port)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "testuser", cfg.Postgres.User)
	assert.Equal(t, "testpass", cfg.Postgres.Password)
	assert.Equal(t, "testdb", cfg.Postgres.DBName)
	assert.Equal(t, "127.0.0.1", cfg.Postgres.Host)
	assert.Equal(t, "direct", cfg.Postgres.SessionMode)
	assert.EqualValues(t, 5, cfg.Postgres.MaxConns)
	assert.Equal(t, 2019, cfg.Defaults.Year)
	assert.Equal(t, "info", cfg.Logger.Level)
}

func TestConfigLoad_LegacyEnvWithoutFile(t *testing.T) {
	clearDBEnv(t)
	t.Setenv("DB_USER", "scout")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "nfl")
	t.Setenv("PORT", "7000")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "scout", cfg.Postgres.User)
	assert.Equal(t, "secret", cfg.Postgres.Password)
	assert.Equal(t, "nfl", cfg.Postgres.DBName)
}

func TestConfigLoad_Defaults(t *testing.T) {
	clearDBEnv(t)
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/nfl?sslmode=disable")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, "postgres://u:p@db:5432/nfl?sslmode=disable", cfg.Postgres.DSN)
	assert.Equal(t, "pool", cfg.Postgres.SessionMode)
	assert.Zero(t, cfg.Postgres.QueryTimeout)
	assert.Equal(t, "00-0032765", cfg.Defaults.PlayerID)
	assert.Equal(t, 2022, cfg.Defaults.Year)
	assert.Equal(t, 3, cfg.Defaults.MinSeasons)
	assert.False(t, cfg.API.AcceptLegacyIDParam)
	assert.InDelta(t, 0.04, cfg.Scoring.PassingYard, 1e-9)
	assert.InDelta(t, -2, cfg.Scoring.Interception, 1e-9)
}

func TestConfigLoad_MissingCredentialsFails(t *testing.T) {
	clearDBEnv(t)
	path := writeTempConfig(t, `
postgres:
  host: localhost
  port: 5432
`)
	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestConfigLoad_InvalidSessionModeFails(t *testing.T) {
	clearDBEnv(t)
	t.Setenv("DATABASE_URL", "postgres://u:p@db/nfl")
	path := writeTempConfig(t, `
postgres:
  session_mode: shared
`)
	_, err := config.Load(path)
	assert.Error(t, err)
}
