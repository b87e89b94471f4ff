package cache

import (
	"strconv"

	"go-session-feed/internal/interfaces"
)

// Cache key namespace. These strings are an interop contract with caches
// persisted by prior runs and must be reproduced exactly.
const (
	sportsKey         = "sports_cache"
	sessionsKeyPrefix = "sessions_cache_"
	allSportsSuffix   = "all"
)

// Ensure KeyBuilderImpl implements interfaces.KeyBuilder
var _ interfaces.KeyBuilder = (*KeyBuilderImpl)(nil)

// KeyBuilderImpl implements the KeyBuilder interface
type KeyBuilderImpl struct{}

// NewKeyBuilder creates a new KeyBuilder instance
func NewKeyBuilder() interfaces.KeyBuilder {
	return &KeyBuilderImpl{}
}

// SportsKey returns the key holding the sports reference list
func (kb *KeyBuilderImpl) SportsKey() string {
	return sportsKey
}

// SessionsKey returns the key holding the first feed page for the given
// sport filter; a nil sport id means the unfiltered feed
func (kb *KeyBuilderImpl) SessionsKey(sportID *int64) string {
	if sportID == nil {
		return sessionsKeyPrefix + allSportsSuffix
	}
	return sessionsKeyPrefix + strconv.FormatInt(*sportID, 10)
}
