package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "abcdefghijklmnopqrstuvwxyz123456"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/deals")
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("ALLOWED_ORIGINS", " http://a.test , ,http://b.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.Equal(t, 5, cfg.MaxUploadSizeMB)
	assert.True(t, cfg.CookieSecure)
	assert.Empty(t, cfg.StorageProvider)
}

func TestLoadRejectsBadTTL(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/deals")
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("TOKEN_TTL", "one day")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TOKEN_TTL")
}

func TestValidateAggregatesErrors(t *testing.T) {
	cfg := &Config{
		JWTSecret:           "short",
		TokenTTL:            time.Hour,
		StorageProvider:     "r2",
		MaxUploadSizeMB:     5,
		AuthRateLimitPerMin: 10,
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL is required")
	assert.Contains(t, err.Error(), "MONGODB_URI is required")
	assert.Contains(t, err.Error(), "JWT_SECRET must be at least 32 chars")
	assert.Contains(t, err.Error(), "missing R2 env vars")
}

func TestValidateUnknownStorageProvider(t *testing.T) {
	cfg := &Config{
		DatabaseURL:         "postgres://x",
		MongoURI:            "mongodb://x",
		JWTSecret:           testSecret,
		TokenTTL:            time.Hour,
		StorageProvider:     "ftp",
		MaxUploadSizeMB:     5,
		AuthRateLimitPerMin: 10,
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORAGE_PROVIDER")
}
