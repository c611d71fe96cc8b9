package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	HTTPAddr           string
	StorageURL         string
	InternalToken      string
	CORSAllowedOrigins []string
	LogFormat          string
	LogLevel           string
}

// Load reads configuration from environment variables and an optional
// .env file. STORAGE_URL is the base URL of the storage service and is
// the only required value; an empty INTERNAL_TOKEN leaves the API open.
func Load() (Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return Config{}, fmt.Errorf("load env: %w", err)
	}

	cfg := Config{
		HTTPAddr:           valueOrDefault(k.String("HTTP_ADDR"), ":8080"),
		StorageURL:         strings.TrimSpace(k.String("STORAGE_URL")),
		InternalToken:      k.String("INTERNAL_TOKEN"),
		CORSAllowedOrigins: splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),
		LogFormat:          valueOrDefault(k.String("LOG_FORMAT"), "json"),
		LogLevel:           valueOrDefault(k.String("LOG_LEVEL"), "info"),
	}

	if len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = []string{"*"}
	}
	if cfg.StorageURL == "" {
		return Config{}, errors.New("STORAGE_URL is required")
	}

	return cfg, nil
}

// MustLoad behaves like Load but panics on error.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
