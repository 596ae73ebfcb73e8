package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosflow/engine/engine/logging"
)

func TestLoadDefaultsValidate(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 60, cfg.HTTP.TimeoutSeconds)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	t.Setenv("ROSFLOW_CACHE__BACKEND", "redis")
	t.Setenv("ROSFLOW_CACHE__REDIS_ADDR", "localhost:6379")
	t.Setenv("ROSFLOW_LOG__LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, "localhost:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadRejectsUnknownCacheBackend(t *testing.T) {
	t.Setenv("ROSFLOW_CACHE__BACKEND", "carrier-pigeon")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsLRUWithoutSize(t *testing.T) {
	t.Setenv("ROSFLOW_CACHE__BACKEND", "lru")
	_, err := Load()
	assert.Error(t, err)
}

func TestHTTPTimeoutConversion(t *testing.T) {
	cfg := Default()
	cfg.HTTP.TimeoutSeconds = 5
	assert.Equal(t, 5_000_000_000, int(cfg.HTTPTimeout()))
}

func TestToLoggingConfigMapsLevelAndFormat(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "warn"
	cfg.Log.Format = "json"
	lc := cfg.ToLoggingConfig()
	assert.Equal(t, logging.WarnLevel, lc.Level)
	assert.True(t, lc.JSON)
}
