package interfaces

import (
	"context"
	"time"
)

//go:generate mockgen -package=mock -source=cache.go -destination=mock/cache.go

// Cache interface defines the contract for the TTL cache layered over Storage.
// No method returns an error: storage failures degrade to a miss so cache
// trouble can never block the primary data path.
type Cache interface {
	// Get decodes the fresh entry for key into v. Expired entries are
	// deleted from storage and reported as a miss.
	Get(ctx context.Context, key string, v any) (found bool)

	// GetStale decodes the entry for key into v regardless of freshness,
	// without deleting it. stale is true when the entry is absent or past
	// its expiry, signaling the caller to revalidate.
	GetStale(ctx context.Context, key string, v any) (found bool, stale bool)

	// Set encodes v and stores it under key with the given TTL
	Set(ctx context.Context, key string, v any, ttl time.Duration)

	// Remove deletes the entry unconditionally
	Remove(ctx context.Context, key string)
}
