package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "davveroo", cfg.DBName)
	assert.Equal(t, 10, cfg.DBPoolSize)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTExpiry)
	assert.Empty(t, cfg.AdminStaticToken)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_POOL_SIZE", "25")
	t.Setenv("JWT_EXPIRY", "48h")
	t.Setenv("ADMIN_STATIC_TOKEN", "supersecret")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 25, cfg.DBPoolSize)
	assert.Equal(t, 48*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, "supersecret", cfg.AdminStaticToken)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestDSNIncludesPoolSize(t *testing.T) {
	t.Setenv("DB_PASSWORD", "pw")
	cfg := Load()
	dsn := cfg.DSN()
	assert.Contains(t, dsn, "dbname=davveroo")
	assert.Contains(t, dsn, "pool_max_conns=10")
	assert.Contains(t, dsn, "password=pw")
}
