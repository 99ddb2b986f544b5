package config

import (
	"os"
	"strconv"
	"time"
)

// Config aggregates runtime settings loaded from environment variables.
type Config struct {
	HTTPPort   string
	PGHost     string
	PGPort     string
	PGDatabase string
	PGUser     string
	PGPassword string
	PGSSL      bool
	RedisAddr  string
	JWTSecret  string
	TokenTTL   time.Duration
}

// Load builds a Config from the environment, falling back to development
// defaults.
func Load() Config {
	ttl := 24 * time.Hour
	if raw := os.Getenv("JWT_TTL_HOURS"); raw != "" {
		if hours, err := strconv.Atoi(raw); err == nil {
			ttl = time.Duration(hours) * time.Hour
		}
	}

	return Config{
		HTTPPort:   firstNonEmpty(os.Getenv("PORT"), "8000"),
		PGHost:     firstNonEmpty(os.Getenv("PG_HOST"), "localhost"),
		PGPort:     firstNonEmpty(os.Getenv("PG_PORT"), "5432"),
		PGDatabase: firstNonEmpty(os.Getenv("PG_DATABASE"), "pixelgram"),
		PGUser:     firstNonEmpty(os.Getenv("PG_USER"), "pixelgram"),
		PGPassword: os.Getenv("PG_PASSWORD"),
		PGSSL:      os.Getenv("PG_SSL") == "true",
		RedisAddr:  firstNonEmpty(os.Getenv("REDIS_ADDR"), "localhost:6379"),
		JWTSecret:  firstNonEmpty(os.Getenv("SECRET_KEY"), "change-me-in-production"),
		TokenTTL:   ttl,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
