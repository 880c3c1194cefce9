package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins string

	RedisURL string

	MeiliSearchHost string
	MeiliMasterKey  string

	JWTSecret     string
	JWTTTLMinutes time.Duration

	CloudinaryVideoFolder string

	GeminiModel  string
	AIDailyQuota int

	RateLimitSubmission time.Duration
	RateLimitReview     time.Duration
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),

		RedisURL: os.Getenv("REDIS_URL"),

		MeiliSearchHost: getEnv("MEILISEARCH_HOST", "http://localhost:7700"),
		MeiliMasterKey:  os.Getenv("MEILI_MASTER_KEY"),

		JWTSecret: getEnv("JWT_SECRET", "change-me"),

		CloudinaryVideoFolder: getEnv("CLOUDINARY_VIDEO_FOLDER", "code_review_walkthroughs"),

		GeminiModel: os.Getenv("GEMINI_MODEL"),
	}

	ttl := getEnv("JWT_TTL_MINUTES", "60")
	minutes, err := time.ParseDuration(ttl + "m")
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL_MINUTES: %w", err)
	}
	cfg.JWTTTLMinutes = minutes

	cfg.AIDailyQuota, err = strconv.Atoi(getEnv("AI_DAILY_QUOTA", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid AI_DAILY_QUOTA: %w", err)
	}

	cfg.RateLimitSubmission, err = time.ParseDuration(getEnv("RATE_LIMIT_SUBMISSION", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_SUBMISSION: %w", err)
	}
	cfg.RateLimitReview, err = time.ParseDuration(getEnv("RATE_LIMIT_REVIEW", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_REVIEW: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
