package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds the application configuration
type Config struct {
	TelegramToken  string
	AllowedUserIDs []int64

	// Redis configuration. RedisURL takes precedence over the split
	// fields when set.
	RedisURL      string
	RedisAddr     string
	RedisPassword string

	// SimilarBooksURL overrides the external book-search endpoint
	// (useful for tests); empty means the public service.
	SimilarBooksURL string

	UseMockDB bool
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	config := &Config{}

	// Telegram Bot Token (required)
	config.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	if config.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	// Allowed User IDs (required)
	allowedIDsStr := os.Getenv("ALLOWED_USER_IDS")
	if allowedIDsStr == "" {
		return nil, fmt.Errorf("ALLOWED_USER_IDS is required (comma-separated list of Telegram user IDs)")
	}

	idStrs := strings.Split(allowedIDsStr, ",")
	for _, idStr := range idStrs {
		id, err := strconv.ParseInt(strings.TrimSpace(idStr), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid user ID in ALLOWED_USER_IDS: %s", idStr)
		}
		config.AllowedUserIDs = append(config.AllowedUserIDs, id)
	}

	// Use Mock DB (default: false)
	config.UseMockDB = os.Getenv("USE_MOCK_DB") == "true"

	// Redis configuration (required if not using mock)
	if !config.UseMockDB {
		config.RedisURL = os.Getenv("REDIS_URL")
		config.RedisAddr = os.Getenv("REDIS_ADDR")
		config.RedisPassword = os.Getenv("REDIS_PASSWORD")

		if config.RedisURL == "" && config.RedisAddr == "" {
			return nil, fmt.Errorf("REDIS_URL or REDIS_ADDR is required when USE_MOCK_DB is not set")
		}
	}

	config.SimilarBooksURL = os.Getenv("SIMILAR_BOOKS_URL")

	return config, nil
}
