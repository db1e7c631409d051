package config_test

import (
	"testing"
	"time"

	"github.com/SscSPs/wallet_ledger/internal/platform/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("REFRESH_INTERVAL", "")
	t.Setenv("REMOTE_TIMEOUT", "")

	cfg, err := config.LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "file://migrations", cfg.MigrationsPath)
	assert.Equal(t, 10*time.Second, cfg.RemoteTimeout)
	assert.Equal(t, 5*time.Minute, cfg.RefreshInterval)
	assert.NotEmpty(t, cfg.JWTSecret)
	assert.NotEmpty(t, cfg.JWTIssuer)
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("IS_PRODUCTION", "true")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.test, https://b.test,")
	t.Setenv("RATE_LIMIT", "10-S")
	t.Setenv("FIREBASE_PROJECT_ID", "demo")
	t.Setenv("REMOTE_TIMEOUT", "3s")
	t.Setenv("REFRESH_INTERVAL", "0")

	cfg, err := config.LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.IsProduction)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "10-S", cfg.RateLimit)
	assert.Equal(t, "demo", cfg.FirebaseProjectID)
	assert.Equal(t, 3*time.Second, cfg.RemoteTimeout)
	assert.Zero(t, cfg.RefreshInterval)
}

func TestLoadConfig_InvalidDurationFallsBack(t *testing.T) {
	t.Setenv("REFRESH_INTERVAL", "soon")

	cfg, err := config.LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, cfg.RefreshInterval)
}
