package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port  string
	Debug bool

	// Frontend
	StaticDir string

	// CORS
	AllowedOrigins []string

	// API Keys and credentials
	SocialBearerToken string
	AnthropicAPIKey   string

	// Summarization
	SummaryModel string

	// Outbound HTTP
	WebSearchTimeout time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:      getEnv("PORT", "8000"),
		Debug:     getBoolEnv("DEBUG", false),
		StaticDir: getEnv("STATIC_DIR", "web/static"),

		AllowedOrigins: getSliceEnv("ALLOWED_ORIGINS", []string{"*"}),

		SocialBearerToken: getEnv("TWITTER_BEARER_TOKEN", ""),
		AnthropicAPIKey:   getEnv("ANTHROPIC_API_KEY", ""),

		SummaryModel: getEnv("SUMMARY_MODEL", "claude-3-5-haiku-latest"),

		WebSearchTimeout: getDurationEnv("WEB_SEARCH_TIMEOUT", 10*time.Second),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("PORT must be numeric, got %q", c.Port)
	}

	if c.WebSearchTimeout <= 0 {
		return fmt.Errorf("WEB_SEARCH_TIMEOUT must be positive")
	}

	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}
