package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrMissingDatabaseURL signals that DATABASE_URL was not provided.
	ErrMissingDatabaseURL = errors.New("config: DATABASE_URL is required")
	// ErrMissingJWTSecret signals that JWT_SECRET was not provided.
	ErrMissingJWTSecret = errors.New("config: JWT_SECRET is required")
)

// Config holds the process settings read from the environment.
type Config struct {
	HTTPAddr       string
	RequestTimeout time.Duration

	DatabaseURL       string
	DBMaxConns        int
	DBMaxConnIdle     time.Duration
	DBMaxConnLifetime time.Duration

	JWTSecret string
	TokenTTL  time.Duration

	RedisURL         string
	SubmitRateLimit  int
	SubmitRateWindow time.Duration

	AttachmentDir      string
	AttachmentMaxBytes int64

	LogLevel slog.Level
}

// Load reads the configuration and validates required values.
func Load() (Config, error) {
	cfg := Config{
		HTTPAddr:           getEnv("HTTP_ADDR", ":8080"),
		RequestTimeout:     getDuration("REQUEST_TIMEOUT", 10*time.Second),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		DBMaxConns:         getInt("DB_MAX_CONNS", 20),
		DBMaxConnIdle:      getDuration("DB_MAX_CONN_IDLE", 5*time.Minute),
		DBMaxConnLifetime:  getDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		TokenTTL:           getDuration("TOKEN_TTL", 24*time.Hour),
		RedisURL:           getEnv("REDIS_URL", ""),
		SubmitRateLimit:    getInt("SUBMIT_RATE_LIMIT", 5),
		SubmitRateWindow:   getDuration("SUBMIT_RATE_WINDOW", time.Minute),
		AttachmentDir:      getEnv("ATTACHMENT_DIR", "./data/attachments"),
		AttachmentMaxBytes: int64(getInt("ATTACHMENT_MAX_BYTES", 5<<20)),
		LogLevel:           getLevel("LOG_LEVEL", slog.LevelInfo),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, ErrMissingDatabaseURL
	}
	if cfg.JWTSecret == "" {
		return Config{}, ErrMissingJWTSecret
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(value)
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := time.ParseDuration(value)
		if err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.Atoi(value)
		if err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}

func getLevel(key string, fallback slog.Level) slog.Level {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		return fallback
	}
	return level
}
