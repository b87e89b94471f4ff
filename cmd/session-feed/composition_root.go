package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"go-session-feed/internal/cache"
	"go-session-feed/internal/cache/service"
	"go-session-feed/internal/cache/storage"
	"go-session-feed/internal/config"
	"go-session-feed/internal/httpserver"
	"go-session-feed/internal/interfaces"
	"go-session-feed/internal/store/postgres"
)

// CompositionRoot holds all application dependencies and provides a
// centralized place for dependency injection and service initialization
type CompositionRoot struct {
	Config *config.Config
	Logger *zap.Logger

	// Cache components
	Storage    interfaces.Storage
	Cache      interfaces.Cache
	KeyBuilder interfaces.KeyBuilder

	// Session store
	Store interfaces.SessionStore

	// HTTP server
	HTTPServer *httpserver.Server
}

// NewCompositionRoot creates and initializes all application dependencies.
//
// Initialization order:
// 1. Logger (needed by all other components)
// 2. Configuration
// 3. Storage backend and cache service
// 4. Postgres session store (migrations + join spec validation)
// 5. HTTP server (uses all above components)
func NewCompositionRoot(ctx context.Context) (*CompositionRoot, error) {
	root := &CompositionRoot{}

	if err := root.initLogger(); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := root.loadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := root.initCacheComponents(); err != nil {
		return nil, fmt.Errorf("failed to initialize cache components: %w", err)
	}

	if err := root.initStore(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize session store: %w", err)
	}

	root.HTTPServer = httpserver.NewServer(root.Store, root.Cache, root.KeyBuilder, root.Logger)

	return root, nil
}

// initLogger initializes the application logger
func (r *CompositionRoot) initLogger() error {
	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	r.Logger = logger
	return nil
}

// loadConfig loads the application configuration
func (r *CompositionRoot) loadConfig() error {
	configPath := os.Getenv("FEED_CONFIG_FILE")
	if configPath == "" {
		configPath = "/app/feed_config.yaml"
	}

	cfg, err := config.LoadConfig(configPath, r.Logger)
	if err != nil {
		return err
	}

	r.Config = cfg
	return nil
}

// initCacheComponents initializes the storage backend, cache service and
// key builder
func (r *CompositionRoot) initCacheComponents() error {
	switch r.Config.Cache.Backend {
	case config.StorageBackendRedis:
		redisURL := GetRedisURL(&r.Config.Cache.Redis, r.Logger)

		st, err := storage.NewRedisStorage(&r.Config.Cache.Redis, redisURL, r.Logger)
		if err != nil {
			r.Logger.Warn("Failed to connect to Redis, running without persistent cache",
				zap.String("redis_url", redisURL),
				zap.Error(err))
			r.Storage = storage.NewNoOpStorage()
		} else {
			r.Storage = st
			r.Logger.Info("Redis storage initialized")
		}

	case config.StorageBackendMemory:
		st, err := storage.NewMemoryStorage(&r.Config.Cache.Memory, r.Logger)
		if err != nil {
			return err
		}
		r.Storage = st
		r.Logger.Info("In-memory storage initialized", zap.Int("size_mb", r.Config.Cache.Memory.SizeMB))

	default:
		r.Storage = storage.NewNoOpStorage()
		r.Logger.Info("Cache disabled")
	}

	r.Cache = service.NewCacheService(r.Storage, r.Logger)
	r.KeyBuilder = cache.NewKeyBuilder()
	return nil
}

// initStore initializes the Postgres session store
func (r *CompositionRoot) initStore(ctx context.Context) error {
	store, err := postgres.NewPGStore(ctx, &r.Config.Postgres, r.Logger)
	if err != nil {
		return err
	}
	r.Store = store
	return nil
}

// Cleanup performs cleanup of all resources
func (r *CompositionRoot) Cleanup() error {
	var errs []error

	if r.Logger != nil {
		if err := r.Logger.Sync(); err != nil {
			errs = append(errs, fmt.Errorf("failed to sync logger: %w", err))
		}
	}

	if r.Store != nil {
		r.Store.Close()
	}

	if r.Storage != nil {
		if err := r.Storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close storage: %w", err))
		}
	}

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}
