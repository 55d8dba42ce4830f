package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_StoreConfig(t *testing.T) {
	t.Setenv("STORE_BASE_URL", "https://store.example.com/")
	t.Setenv("STORE_TIMEOUT", "3s")
	t.Setenv("EDITOR_MAX_IMAGES", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://store.example.com", cfg.Store.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Store.Timeout)
	assert.Equal(t, 5, cfg.Editor.MaxImages)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_BASE_URL", "")
	t.Setenv("STORE_TIMEOUT", "")
	t.Setenv("REDIS_ENABLED", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5000", cfg.Store.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Store.Timeout)
	assert.Equal(t, "/api/auth/login", cfg.Store.LoginPath)
	assert.Equal(t, 0, cfg.Editor.MaxImages)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "localhost:6379", cfg.Redis.RedisAddr())
	assert.Equal(t, "catalog:records", cfg.Events.Channel)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("STORE_TIMEOUT", "soon")
	t.Setenv("REDIS_PORT", "not-a-port")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 15*time.Second, cfg.Store.Timeout)
	assert.Equal(t, 6379, cfg.Redis.Port)
}

func TestLoad_RejectsNegativeImageLimit(t *testing.T) {
	t.Setenv("EDITOR_MAX_IMAGES", "-1")

	_, err := Load()
	assert.Error(t, err)
}
