package api

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port          string
	PostgresDSN   string
	RedisAddr     string
	JWTSecret     string
	SessionTTL    time.Duration
	AdminUsername string
	AdminPassword string
}

// LoadConfig reads an optional .env file plus environment variables,
// applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:          envDefault("PORT", "8080"),
		PostgresDSN:   strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		RedisAddr:     strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		JWTSecret:     envDefault("JWT_SECRET", "local-development-secret"),
		SessionTTL:    24 * time.Hour,
		AdminUsername: envDefault("ADMIN_USERNAME", "admin"),
		AdminPassword: envDefault("ADMIN_PASSWORD", "admin-password"),
	}
	if raw := strings.TrimSpace(os.Getenv("SESSION_TTL_MINUTES")); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes <= 0 {
			return Config{}, fmt.Errorf("SESSION_TTL_MINUTES must be a positive integer")
		}
		cfg.SessionTTL = time.Duration(minutes) * time.Minute
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET must not be empty")
	}
	return cfg, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}
