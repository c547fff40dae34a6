package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
	}
}

var configKeys = []string{
	"APP_NAME", "APP_PORT", "PORT", "HTTP_REQUEST_TIMEOUT_SECONDS",
	"CARDS_FILE", "USERS_FILE", "CREDENTIALS_SOURCE",
	"REDIS_ENABLED", "REDIS_DB", "REDIS_CARD_CHANNEL",
	"SECRET_KEY", "AUTH_JWT_SECRET", "AUTH_ACCESS_TOKEN_TTL_MINUTES", "AUTH_PASSWORD_SCHEME",
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t, configKeys...)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.App.Port)
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.Equal(t, "cards.json", cfg.Storage.CardsFile)
	assert.Equal(t, "users.json", cfg.Storage.UsersFile)
	assert.False(t, cfg.Storage.UsesPostgres())
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "cards.events", cfg.Redis.CardChannel)
	assert.Equal(t, 60, cfg.Auth.AccessTokenTTLMinutes)
	assert.Equal(t, "plain", cfg.Auth.PasswordScheme)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t, configKeys...)
	t.Setenv("PORT", "8080")
	t.Setenv("SECRET_KEY", "top")
	t.Setenv("AUTH_JWT_SECRET", "ignored")
	t.Setenv("CREDENTIALS_SOURCE", "postgres")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Zero(t, cfg.App.RequestTimeout())
	assert.Equal(t, "top", cfg.Auth.JWTSecret)
	assert.True(t, cfg.Storage.UsesPostgres())
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 3, cfg.Redis.DB)
}

func TestLoadSecretFallback(t *testing.T) {
	clearEnv(t, configKeys...)
	t.Setenv("AUTH_JWT_SECRET", "legacy")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "legacy", cfg.Auth.JWTSecret)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	clearEnv(t, configKeys...)
	t.Setenv("CREDENTIALS_SOURCE", "ldap")
	_, err := Load()
	assert.ErrorContains(t, err, "CREDENTIALS_SOURCE")

	t.Setenv("CREDENTIALS_SOURCE", "")
	t.Setenv("REDIS_DB", "zero")
	_, err = Load()
	assert.ErrorContains(t, err, "REDIS_DB")
}
