package storage

import (
	"context"
	"errors"
	"time"

	"github.com/allegro/bigcache/v3"
	"go.uber.org/zap"

	"go-session-feed/internal/config"
	"go-session-feed/internal/interfaces"
)

// Ensure MemoryStorage implements interfaces.Storage
var _ interfaces.Storage = (*MemoryStorage)(nil)

// MemoryStorage implements the storage contract in-process using BigCache.
// It is the backend for single-node deployments and tests; entries do not
// survive a restart.
type MemoryStorage struct {
	cache  *bigcache.BigCache
	logger *zap.Logger
}

// NewMemoryStorage creates a new MemoryStorage instance
func NewMemoryStorage(cfg *config.MemoryConfig, logger *zap.Logger) (interfaces.Storage, error) {
	// Eviction far beyond the longest cache tier; logical expiry is
	// enforced by the cache service, not by BigCache.
	bcConfig := bigcache.DefaultConfig(30 * 24 * time.Hour)
	bcConfig.HardMaxCacheSize = cfg.SizeMB
	bcConfig.Verbose = false
	bcConfig.MaxEntrySize = 1024 * 1024 // 1MB max entry size

	cache, err := bigcache.New(context.Background(), bcConfig)
	if err != nil {
		return nil, err
	}

	return &MemoryStorage{
		cache:  cache,
		logger: logger,
	}, nil
}

// GetItem retrieves a value by key
func (m *MemoryStorage) GetItem(_ context.Context, key string) (string, bool, error) {
	data, err := m.cache.Get(key)
	if errors.Is(err, bigcache.ErrEntryNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(data), true, nil
}

// SetItem stores a value under key
func (m *MemoryStorage) SetItem(_ context.Context, key, value string) error {
	return m.cache.Set(key, []byte(value))
}

// RemoveItem deletes the key
func (m *MemoryStorage) RemoveItem(_ context.Context, key string) error {
	err := m.cache.Delete(key)
	if errors.Is(err, bigcache.ErrEntryNotFound) {
		return nil
	}
	return err
}

// Close closes the underlying cache
func (m *MemoryStorage) Close() error {
	return m.cache.Close()
}
