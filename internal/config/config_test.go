package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("PORT", "")
	t.Setenv("LISTING_COOLDOWN", "")
	t.Setenv("TRUSTED_PROXIES", "")

	cfg := Load()

	assert.Equal(t, ModeDevelopment, cfg.Mode)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.Listing.Cooldown)
	assert.Equal(t, "passiton", cfg.Store.MongoDatabase)
	assert.Empty(t, cfg.TrustedProxies)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "Production")
	t.Setenv("JWT_SECRET", "s3cr3t")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("LISTING_COOLDOWN", "45")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 192.168.1.7")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")

	cfg := Load()

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "s3cr3t", cfg.Auth.JWTSecret)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 45*time.Second, cfg.Listing.Cooldown)
	assert.Equal(t, []string{"10.0.0.0/8", "192.168.1.7"}, cfg.TrustedProxies)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Store.DatabaseURL)
}

func TestValidateRequiresSecret(t *testing.T) {
	cfg := Config{Mode: ModeDevelopment}

	_, err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMisconfigured))
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestValidateProductionRequirements(t *testing.T) {
	cfg := Config{
		Mode: ModeProduction,
		Auth: AuthConfig{JWTSecret: "short"},
	}

	_, err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ADMIN_EMAIL")
	assert.Contains(t, err.Error(), "ADMIN_PASSWORD")
	assert.Contains(t, err.Error(), "DATABASE_URL")

	cfg.Auth.AdminEmail = "admin@example.com"
	cfg.Auth.AdminPassword = "correct horse"
	cfg.Store.DatabaseURL = "mongodb://db"

	warnings, err := cfg.Validate()
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "32 characters")
}

func TestStorageEnabled(t *testing.T) {
	assert.False(t, StorageConfig{Bucket: "b"}.Enabled())
	assert.True(t, StorageConfig{Bucket: "b", AccessKey: "k", SecretKey: "s"}.Enabled())
}
