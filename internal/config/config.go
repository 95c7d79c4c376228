// Package config loads service settings from the environment.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Host           string
	Port           string
	RequestTimeout time.Duration
	MaxUploadSize  int64
	ROIHalfWidth   int
	TokenSecret    string
	TokenTTL       time.Duration
	LogLevel       string
}

func (c *Config) ServerAddress() string {
	return net.JoinHostPort(strings.TrimSpace(c.Host), strings.TrimSpace(c.Port))
}

// AuthEnabled reports whether analysis routes require a bearer token.
func (c *Config) AuthEnabled() bool {
	return c.TokenSecret != ""
}

// Load reads the optional dotenv files (default ".env") into the process
// environment without overriding variables that are already set, then calls
// LoadFromEnv.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return LoadFromEnv()
}

func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Host:           getEnvOrDefault("HOST", "0.0.0.0"),
		Port:           getEnvOrDefault("PORT", "5000"),
		RequestTimeout: parseDurationOrDefault("REQUEST_TIMEOUT", 30*time.Second),
		MaxUploadSize:  parseIntOrDefault("MAX_UPLOAD_SIZE", 10*1024*1024), // 10MB
		ROIHalfWidth:   int(parseIntOrDefault("ROI_HALF_WIDTH", 6)),
		TokenSecret:    os.Getenv("TOKEN_SECRET"),
		TokenTTL:       parseDurationOrDefault("TOKEN_TTL", 24*time.Hour),
		LogLevel:       getEnvOrDefault("LOG_LEVEL", "info"),
	}

	p, err := strconv.Atoi(strings.TrimSpace(cfg.Port))
	if err != nil || p < 1 || p > 65535 {
		return nil, fmt.Errorf("invalid PORT: %q", cfg.Port)
	}
	if cfg.MaxUploadSize <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_SIZE must be > 0 (got %d)", cfg.MaxUploadSize)
	}
	if cfg.ROIHalfWidth < 0 {
		return nil, fmt.Errorf("ROI_HALF_WIDTH must be >= 0 (got %d)", cfg.ROIHalfWidth)
	}
	if cfg.TokenSecret != "" && len(cfg.TokenSecret) < 16 {
		return nil, fmt.Errorf("TOKEN_SECRET must be at least 16 bytes")
	}
	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
