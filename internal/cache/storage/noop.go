package storage

import (
	"context"

	"go-session-feed/internal/interfaces"
)

// Ensure NoOpStorage implements interfaces.Storage
var _ interfaces.Storage = (*NoOpStorage)(nil)

// NoOpStorage is a no-operation storage backend for when caching is disabled
type NoOpStorage struct{}

// NewNoOpStorage creates a new no-operation storage instance
func NewNoOpStorage() interfaces.Storage {
	return &NoOpStorage{}
}

// GetItem always reports the key as absent
func (n *NoOpStorage) GetItem(_ context.Context, _ string) (string, bool, error) {
	return "", false, nil
}

// SetItem does nothing
func (n *NoOpStorage) SetItem(_ context.Context, _, _ string) error {
	return nil
}

// RemoveItem does nothing
func (n *NoOpStorage) RemoveItem(_ context.Context, _ string) error {
	return nil
}

// Close does nothing
func (n *NoOpStorage) Close() error {
	return nil
}
