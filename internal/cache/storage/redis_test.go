package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-session-feed/internal/config"
)

func TestNewRedisStorage_InvalidURL(t *testing.T) {
	cfg := &config.RedisConfig{ConnectTimeout: 50 * time.Millisecond}

	_, err := NewRedisStorage(cfg, "://not-a-url", zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse Redis URL")
}

func TestNewRedisStorage_Unreachable(t *testing.T) {
	cfg := &config.RedisConfig{
		ConnectTimeout: 50 * time.Millisecond,
		ReadTimeout:    50 * time.Millisecond,
		SendTimeout:    50 * time.Millisecond,
		PoolSize:       1,
	}

	// Port 1 is never a Redis server; the constructor must fail its
	// connectivity probe instead of returning a dead client
	_, err := NewRedisStorage(cfg, "redis://127.0.0.1:1", zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to Redis")
}
