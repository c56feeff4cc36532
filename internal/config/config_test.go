package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("AUTH_ACCESS_TOKEN_SECRET", "")
	t.Setenv("AUTH_REFRESH_TOKEN_SECRET", "")
	t.Setenv("APP_PORT", "")
	t.Setenv("SITE_URL", "https://example.com/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, "https://example.com", cfg.App.SiteURL)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)

	secret, fallback := cfg.Auth.RefreshSecret()
	assert.True(t, fallback)
	assert.Equal(t, cfg.Auth.AccessTokenSecret, secret)
	assert.Equal(t, devAccessTokenSecret, cfg.Auth.AccessTokenSecret)
}

func TestLoadRequiresAccessSecretInProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("AUTH_ACCESS_TOKEN_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AUTH_ACCESS_TOKEN_SECRET")

	t.Setenv("AUTH_ACCESS_TOKEN_SECRET", "prod-secret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "prod-secret", cfg.Auth.AccessTokenSecret)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("AUTH_ACCESS_TOKEN_SECRET", "access")
	t.Setenv("AUTH_REFRESH_TOKEN_SECRET", "refresh")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "5")
	t.Setenv("APP_ENV", "Production")
	t.Setenv("STRIPE_CURRENCY", "EUR")
	t.Setenv("REDIS_ADDR", "127.0.0.1:6379")

	cfg, err := Load()
	require.NoError(t, err)

	secret, fallback := cfg.Auth.RefreshSecret()
	assert.False(t, fallback)
	assert.Equal(t, "refresh", secret)
	assert.Equal(t, 5*time.Second, cfg.App.RequestTimeout())
	assert.True(t, cfg.App.IsProduction())
	assert.Equal(t, "eur", cfg.Payments.Currency)
	assert.True(t, cfg.Redis.Enabled())
}

func TestLoadRejectsBadRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "zero")
	_, err := Load()
	assert.Error(t, err)
}
