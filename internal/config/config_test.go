package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("NODE_ENV", "")
	t.Setenv("JWT_SECRET_KEY", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("FRONTEND_URL", "")

	cfg := Load()
	assert.Equal(t, "development", cfg.Environment)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins)
	assert.Equal(t, "5001", cfg.Port)
	assert.Error(t, cfg.Validate())
}

func TestLoad_ProductionFromNodeEnv(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("NODE_ENV", "Production")
	t.Setenv("JWT_SECRET_KEY", "s3cret")

	cfg := Load()
	require.NoError(t, cfg.Validate())

	auth := cfg.Auth()
	assert.True(t, auth.IsProduction)
	assert.Equal(t, "s3cret", auth.TokenSecret)
}

func TestLoad_JWTSecretFallback(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "")
	t.Setenv("JWT_SECRET", "legacy")

	assert.Equal(t, "legacy", Load().JWTSecret)
}

func TestParseOrigins(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	cfg := Load()
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestFeatureToggles(t *testing.T) {
	cfg := &Config{StreamAPIKey: "k"}
	assert.False(t, cfg.StreamEnabled())
	cfg.StreamAPISecret = "s"
	assert.True(t, cfg.StreamEnabled())

	assert.False(t, cfg.CloudinaryEnabled())
	cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret = "n", "k", "s"
	assert.True(t, cfg.CloudinaryEnabled())
}
