package models

import (
	"encoding/json"
	"time"
)

// TTL tiers for cache entries, chosen by the caller per data volatility
const (
	TTLShort    = 15 * time.Minute
	TTLMedium   = time.Hour
	TTLLong     = 24 * time.Hour
	TTLVeryLong = 7 * 24 * time.Hour
)

// CacheEntry is the serialized form of one cached value. Expiry is an
// absolute epoch-millisecond timestamp; the wire shape {data, expiry} is an
// interop contract with previously persisted caches and must not change.
type CacheEntry struct {
	Data   json.RawMessage `json:"data"`
	Expiry int64           `json:"expiry"`
}

// IsExpired reports whether the entry is stale at the given instant
func (e *CacheEntry) IsExpired(now time.Time) bool {
	return now.UnixMilli() >= e.Expiry
}

// NewCacheEntry builds an entry expiring ttl after now
func NewCacheEntry(data json.RawMessage, ttl time.Duration, now time.Time) CacheEntry {
	return CacheEntry{
		Data:   data,
		Expiry: now.Add(ttl).UnixMilli(),
	}
}
