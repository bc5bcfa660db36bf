package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pdv-api/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("STOCK_CACHE_TTL_SECONDS", "60")
	t.Setenv("MIGRATIONS_AUTO", "true")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_HOST", "")
	t.Setenv("REDIS_ADDR", "")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
	assert.Equal(t, time.Minute, cfg.Redis.StockCacheTTL)
	assert.False(t, cfg.Redis.Enabled())
	assert.True(t, cfg.Migrations.Auto)
	assert.Equal(t, int32(25), cfg.DB.MaxConns)
	assert.Equal(t, 5*time.Second, cfg.DB.LockTimeout)
	assert.False(t, cfg.DB.Configured(), "sin DB_HOST ni DATABASE_URL")
}

func TestLoad_ProduccionSinSecretoFalla(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "pdv", Password: "p@ss", DBName: "pdv", SSLMode: "disable"}
	assert.Equal(t, "postgres://pdv:p%40ss@db:5432/pdv?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
