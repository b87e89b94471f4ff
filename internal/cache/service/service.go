package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"go-session-feed/internal/interfaces"
	"go-session-feed/internal/metrics"
	"go-session-feed/internal/models"
)

// Ensure CacheService implements interfaces.Cache
var _ interfaces.Cache = (*CacheService)(nil)

// CacheService is a TTL cache layered over persistent key-value storage.
// Every storage or codec failure is absorbed into a miss: the feed falls
// back to the session store on a miss, so cache trouble must never surface
// as an error to callers.
type CacheService struct {
	storage interfaces.Storage
	logger  *zap.Logger
	now     func() time.Time
}

// NewCacheService creates a new cache service over the given storage backend
func NewCacheService(storage interfaces.Storage, logger *zap.Logger) *CacheService {
	return &CacheService{
		storage: storage,
		logger:  logger,
		now:     time.Now,
	}
}

// Get decodes the fresh entry for key into v. An expired entry is deleted
// from storage and reported as a miss.
func (s *CacheService) Get(ctx context.Context, key string, v any) bool {
	done := metrics.TimeCacheOperation("get")
	defer done()
	metrics.RecordCacheRequest(keyKind(key))

	entry, found := s.readEntry(ctx, key, "get")
	if !found {
		metrics.RecordCacheMiss(keyKind(key))
		return false
	}

	if entry.IsExpired(s.now()) {
		if err := s.storage.RemoveItem(ctx, key); err != nil {
			s.logger.Warn("Failed to remove expired cache entry", zap.String("key", key), zap.Error(err))
			metrics.RecordCacheError("get", "remove")
		}
		metrics.RecordCacheMiss(keyKind(key))
		return false
	}

	if err := json.Unmarshal(entry.Data, v); err != nil {
		s.logger.Warn("Failed to decode cached payload", zap.String("key", key), zap.Error(err))
		metrics.RecordCacheError("get", "decode")
		metrics.RecordCacheMiss(keyKind(key))
		return false
	}

	metrics.RecordCacheHit(keyKind(key))
	return true
}

// GetStale decodes the entry for key into v regardless of freshness and
// without deleting it. stale is true when the entry is absent or past its
// expiry; it is the only signal a caller needs to decide whether to issue a
// background refresh while rendering the returned data.
func (s *CacheService) GetStale(ctx context.Context, key string, v any) (found bool, stale bool) {
	done := metrics.TimeCacheOperation("get_stale")
	defer done()
	metrics.RecordCacheRequest(keyKind(key))

	entry, ok := s.readEntry(ctx, key, "get_stale")
	if !ok {
		metrics.RecordCacheMiss(keyKind(key))
		return false, true
	}

	if err := json.Unmarshal(entry.Data, v); err != nil {
		s.logger.Warn("Failed to decode cached payload", zap.String("key", key), zap.Error(err))
		metrics.RecordCacheError("get_stale", "decode")
		metrics.RecordCacheMiss(keyKind(key))
		return false, true
	}

	if entry.IsExpired(s.now()) {
		metrics.RecordCacheStaleHit(keyKind(key))
		return true, true
	}

	metrics.RecordCacheHit(keyKind(key))
	return true, false
}

// Set encodes v and stores it under key with the given TTL, overwriting any
// prior entry. Failures are logged and swallowed.
func (s *CacheService) Set(ctx context.Context, key string, v any, ttl time.Duration) {
	done := metrics.TimeCacheOperation("set")
	defer done()

	if ttl < 0 {
		ttl = 0
	}

	payload, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("Failed to encode cache payload", zap.String("key", key), zap.Error(err))
		metrics.RecordCacheError("set", "encode")
		return
	}

	entry := models.NewCacheEntry(payload, ttl, s.now())

	data, err := json.Marshal(entry)
	if err != nil {
		s.logger.Error("Failed to encode cache entry", zap.String("key", key), zap.Error(err))
		metrics.RecordCacheError("set", "encode")
		return
	}

	if err := s.storage.SetItem(ctx, key, string(data)); err != nil {
		s.logger.Error("Failed to write cache entry", zap.String("key", key), zap.Error(err))
		metrics.RecordCacheError("set", "storage")
	}
}

// Remove deletes the entry unconditionally; absent keys are not an error
func (s *CacheService) Remove(ctx context.Context, key string) {
	done := metrics.TimeCacheOperation("remove")
	defer done()

	if err := s.storage.RemoveItem(ctx, key); err != nil {
		s.logger.Warn("Failed to remove cache entry", zap.String("key", key), zap.Error(err))
		metrics.RecordCacheError("remove", "storage")
	}
}

// readEntry loads and decodes the raw entry for key, converting storage and
// parse failures into a miss
func (s *CacheService) readEntry(ctx context.Context, key, operation string) (*models.CacheEntry, bool) {
	raw, found, err := s.storage.GetItem(ctx, key)
	if err != nil {
		s.logger.Warn("Cache storage read error", zap.String("key", key), zap.Error(err))
		metrics.RecordCacheError(operation, "storage")
		return nil, false
	}
	if !found {
		return nil, false
	}

	var entry models.CacheEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		s.logger.Warn("Failed to decode cache entry", zap.String("key", key), zap.Error(err))
		metrics.RecordCacheError(operation, "decode")
		// Remove corrupted entry
		_ = s.storage.RemoveItem(ctx, key)
		return nil, false
	}

	return &entry, true
}

// keyKind maps a cache key to its metrics label
func keyKind(key string) string {
	if strings.HasPrefix(key, "sessions_cache_") {
		return "sessions"
	}
	return "sports"
}
