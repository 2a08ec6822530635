package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("SIMULATED_LATENCY", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, BackendMemory, cfg.Storage.Backend)
	assert.Equal(t, 300*time.Millisecond, cfg.Store.SimulatedLatency)
	assert.Equal(t, 100, cfg.Store.NotificationCap)
	assert.True(t, cfg.Store.SeedDemoData)
	assert.Equal(t, "random", cfg.Store.AffiliateRevenue)
	assert.InDelta(t, 0.2, cfg.Store.AffiliateProbability, 1e-9)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_BACKEND", "file")
	t.Setenv("STORE_FILE", "/tmp/hemp.json")
	t.Setenv("SIMULATED_LATENCY", "0s")
	t.Setenv("NOTIFICATION_CAP", "10")
	t.Setenv("AFFILIATE_REVENUE", "none")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("DEBUG", "true")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Equal(t, "/tmp/hemp.json", cfg.Storage.FilePath)
	assert.Equal(t, time.Duration(0), cfg.Store.SimulatedLatency)
	assert.Equal(t, 10, cfg.Store.NotificationCap)
	assert.Equal(t, "none", cfg.Store.AffiliateRevenue)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfigInvalidValuesFallBack(t *testing.T) {
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("PORT", "eighty")
	t.Setenv("SIMULATED_LATENCY", "soon")
	t.Setenv("NOTIFICATION_CAP", "-4")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 300*time.Millisecond, cfg.Store.SimulatedLatency)
	assert.Equal(t, 100, cfg.Store.NotificationCap)
}

func TestLoadConfigRequiresConnectionStrings(t *testing.T) {
	t.Setenv("STORE_BACKEND", "mongo")
	t.Setenv("MONGO_URI", "")
	_, err := LoadConfig()
	assert.Error(t, err)

	t.Setenv("STORE_BACKEND", "postgres")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_USER", "")
	_, err = LoadConfig()
	assert.Error(t, err)

	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/hemp?sslmode=disable")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@localhost/hemp?sslmode=disable", cfg.Storage.PostgresURI)

	t.Setenv("STORE_BACKEND", "cassandra")
	_, err = LoadConfig()
	assert.Error(t, err)
}
