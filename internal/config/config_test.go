package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "mysql", cfg.Database.Type)
	assert.Equal(t, "dev-user", cfg.Auth.BypassUserID)
	assert.True(t, cfg.Auth.DevMode)
	assert.Equal(t, time.Hour, cfg.Auth.MagicLinkTTL())
	assert.Equal(t, "memory", cfg.TokenStore.Type)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 10, cfg.RateLimit.RequestsPerMinute)
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
database:
  type: postgres
  postgres:
    host: pg.internal
    port: 5432
auth:
  dev_mode: false
  magic_link_ttl_minutes: 15
token_store:
  type: redis
  redis:
    addr: redis.internal:6379
rate_limit:
  requests_per_minute: 30
cors:
  allowed_origins:
    - https://app.example.com
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Type)
	assert.Equal(t, "pg.internal", cfg.Database.Postgres.Host)
	assert.False(t, cfg.Auth.DevMode)
	assert.Equal(t, 15*time.Minute, cfg.Auth.MagicLinkTTL())
	assert.Equal(t, "redis", cfg.TokenStore.Type)
	assert.Equal(t, "redis.internal:6379", cfg.TokenStore.Redis.Addr)
	assert.Equal(t, 30, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.CORS.AllowedOrigins)

	// untouched sections keep their defaults
	assert.Equal(t, "dev-user", cfg.Auth.BypassUserID)
}

func TestLoadConfigMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{invalid"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
