package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"DB_DSN", "SERVER_PORT", "SESSION_SECRET", "SEED_FILE", "LOG_LEVEL", "GIN_MODE"} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "release", cfg.GinMode)
	assert.Empty(t, cfg.DBDSN)
	assert.True(t, cfg.EphemeralSecret)
	assert.Len(t, cfg.SessionSecret, 72)
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("DB_DSN", "host=localhost user=kalibra dbname=kalibra")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.ServerPort)
	assert.Equal(t, "s3cret", cfg.SessionSecret)
	assert.False(t, cfg.EphemeralSecret)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.NotEmpty(t, cfg.DBDSN)
}

func TestLoadRejectsUnknownLogLevel(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_LEVEL", "verbose")

	_, err := Load()
	assert.Error(t, err)
}
