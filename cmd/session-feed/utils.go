package main

import (
	"os"
	"strings"

	"go.uber.org/zap"

	"go-session-feed/internal/config"
)

// GetRedisURL returns the Redis URL with the following priority:
// 1. REDIS_URL environment variable
// 2. FEED_REDIS_URL_FILE file content
// 3. Configuration file value
// 4. Default value
func GetRedisURL(cfg *config.RedisConfig, logger *zap.Logger) string {
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		logger.Debug("Using Redis URL from environment variable")
		return redisURL
	}

	connectionFile := os.Getenv("FEED_REDIS_URL_FILE")
	if connectionFile == "" {
		connectionFile = "/app/.redis-url"
	}

	if content, err := os.ReadFile(connectionFile); err == nil {
		redisURL := strings.TrimSpace(string(content))
		if len(redisURL) > 0 {
			logger.Debug("Using Redis URL from connection file", zap.String("file", connectionFile))
			return redisURL
		}
	} else {
		logger.Debug("Redis connection file not found or empty", zap.String("file", connectionFile))
	}

	if cfg.URL != "" {
		return cfg.URL
	}

	return "redis://localhost:6379"
}
