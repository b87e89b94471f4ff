package interfaces

import "context"

//go:generate mockgen -package=mock -source=storage.go -destination=mock/storage.go

// Storage defines the contract for persistent key-value storage backends.
// Values are opaque serialized strings; TTL bookkeeping lives above this
// layer in the cache service.
type Storage interface {
	// GetItem retrieves a value by key; found is false when the key is absent
	GetItem(ctx context.Context, key string) (value string, found bool, err error)

	// SetItem stores a value under key, overwriting any prior value
	SetItem(ctx context.Context, key string, value string) error

	// RemoveItem deletes the key; absent keys are not an error
	RemoveItem(ctx context.Context, key string) error

	// Close releases the backend connection
	Close() error
}
