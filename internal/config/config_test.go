package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(viper.New(), false)
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, int64(64<<20), cfg.MaxUploadBytes())
	assert.Equal(t, 60*time.Second, cfg.Server.ProcessTimeout)
	assert.Equal(t, "guarida", cfg.Parser.DefaultProvider)
	assert.Equal(t, "memory", cfg.Store.Backend)
	assert.Equal(t, 24*time.Hour, cfg.Store.TTL)
	assert.Equal(t, 10*time.Minute, cfg.Store.CleanupInterval)
	assert.Equal(t, "protocol-extract:", cfg.Redis.Prefix)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 10, cfg.Logging.MaxSizeMB)
	assert.Equal(t, 5, cfg.Logging.MaxBackups)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9191")
	t.Setenv("PROTOCOL_EXTRACT_STORE_BACKEND", "redis")
	t.Setenv("PROTOCOL_EXTRACT_STORE_TTL", "2h")
	t.Setenv("PROTOCOL_EXTRACT_LOGGING_FORMAT", "json")

	cfg, err := load(viper.New(), false)
	require.NoError(t, err)
	assert.Equal(t, "9191", cfg.Server.Port)
	assert.Equal(t, "redis", cfg.Store.Backend)
	assert.Equal(t, 2*time.Hour, cfg.Store.TTL)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("PROTOCOL_EXTRACT_STORE_BACKEND", "postgres")
	_, err := load(viper.New(), false)
	assert.ErrorContains(t, err, "unknown store backend")
}
