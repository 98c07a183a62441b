package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFileDefaults(t *testing.T) {
	t.Setenv("JWT_KEY", "s3cret")
	t.Setenv("DATABASE_URL", "postgres://localhost/debug")

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.Auth.Secret)
	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 3*time.Second, cfg.Auth.LookupTimeout)
	assert.Equal(t, 54*time.Second, cfg.WS.PingPeriod)
	assert.Equal(t, 64, cfg.WS.SendBuffer)
	assert.True(t, cfg.WS.KickSlow)
	assert.Empty(t, cfg.Redis.Addr)
}

func TestLoadFileAndOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 7000
  client_url: https://debug.example.com
auth:
  secret: from-file
database:
  driver: memory
  seed: config/seed.dev.yaml
ws:
  send_buffer: 8
log:
  format: json
`)
	t.Setenv("PORT", "9000")
	t.Setenv("DEBUGCOLLAB_REDIS_ADDR", "localhost:6379")
	t.Setenv("DEBUGCOLLAB_LOG_LEVEL", "warn")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "https://debug.example.com", cfg.Server.ClientURL)
	assert.Equal(t, "from-file", cfg.Auth.Secret)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, "config/seed.dev.yaml", cfg.Database.Seed)
	assert.Equal(t, 8, cfg.WS.SendBuffer)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestValidate(t *testing.T) {
	t.Setenv("JWT_KEY", "")
	t.Setenv("DEBUGCOLLAB_AUTH_SECRET", "")
	path := writeConfig(t, `
database:
  driver: sqlite
ws:
  ping_period: 90s
`)
	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth.secret")
	assert.Contains(t, err.Error(), "sqlite")
	assert.Contains(t, err.Error(), "ping_period")
}
