package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "http://localhost:3000", cfg.AllowedOrigins)
	assert.Equal(t, "http://localhost:7700", cfg.MeiliSearchHost)
	assert.Equal(t, time.Hour, cfg.JWTTTLMinutes)
	assert.Equal(t, "code_review_walkthroughs", cfg.CloudinaryVideoFolder)
	assert.Equal(t, 10, cfg.AIDailyQuota)
	assert.Equal(t, 10*time.Second, cfg.RateLimitSubmission)
	assert.Equal(t, 10*time.Second, cfg.RateLimitReview)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_TTL_MINUTES", "120")
	t.Setenv("AI_DAILY_QUOTA", "3")
	t.Setenv("RATE_LIMIT_SUBMISSION", "1m")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, cfg.JWTTTLMinutes)
	assert.Equal(t, 3, cfg.AIDailyQuota)
	assert.Equal(t, time.Minute, cfg.RateLimitSubmission)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("AI_DAILY_QUOTA", "many")

	_, err := Load()

	assert.ErrorContains(t, err, "AI_DAILY_QUOTA")
}
