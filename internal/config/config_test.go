package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DB_CONNECTION_STRING", "postgres://localhost:5432/gurukul")
	t.Setenv("S3_URL", "http://localhost:54321/storage/v1/s3")
	t.Setenv("S3_ACCESS_KEY", "key")
	t.Setenv("S3_SECRET_KEY", "secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_SECRET", "super-secret")
	t.Setenv("ENV", "development")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "media-files", cfg.S3Bucket)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL())
	assert.Equal(t, int64(500*1024*1024), cfg.MaxUploadBytes())
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadRequiresJWTSource(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_SECRET", "")
	t.Setenv("JWT_SECRET_NAME", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestValidateRejectsBadNumbers(t *testing.T) {
	cfg := Config{JWTSecret: "x", JWTTTLMinutes: 0, MediaMaxUploadMB: 1, MediaMaxRetries: 1}
	assert.Error(t, cfg.Validate())

	cfg.JWTTTLMinutes = 10
	cfg.MediaMaxUploadMB = 0
	assert.Error(t, cfg.Validate())

	cfg.MediaMaxUploadMB = 10
	cfg.MediaMaxRetries = 0
	assert.Error(t, cfg.Validate())

	cfg.MediaMaxRetries = 3
	assert.NoError(t, cfg.Validate())
}
