package config

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// StorageBackend selects the persistent key-value backend for the cache
type StorageBackend string

const (
	StorageBackendRedis  StorageBackend = "redis"
	StorageBackendMemory StorageBackend = "memory"
	StorageBackendNone   StorageBackend = "none"
)

// UnmarshalYAML implements custom YAML unmarshaling for StorageBackend
func (s *StorageBackend) UnmarshalYAML(value *yaml.Node) error {
	var str string
	if err := value.Decode(&str); err != nil {
		return err
	}

	switch str {
	case "redis", "memory", "none":
		*s = StorageBackend(str)
		return nil
	default:
		return fmt.Errorf("invalid storage backend '%s': must be one of 'redis', 'memory', 'none'", str)
	}
}

// RedisConfig holds Redis storage backend settings
type RedisConfig struct {
	URL            string        `yaml:"url"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	SendTimeout    time.Duration `yaml:"send_timeout"`
	PoolSize       int           `yaml:"pool_size"`
}

// MemoryConfig holds in-process storage backend settings
type MemoryConfig struct {
	SizeMB int `yaml:"size_mb"`
}

// CacheConfig holds cache layer settings
type CacheConfig struct {
	Backend StorageBackend `yaml:"backend"`
	Redis   RedisConfig    `yaml:"redis"`
	Memory  MemoryConfig   `yaml:"memory"`
}

// PostgresConfig holds session store settings
type PostgresConfig struct {
	DSN         string `yaml:"dsn"`
	Schema      string `yaml:"schema"`
	SkipMigrate bool   `yaml:"skip_migrate"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// Config represents the main configuration structure
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Cache    CacheConfig    `yaml:"cache"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// LoadConfig loads configuration from file path
func LoadConfig(configPath string, logger *zap.Logger) (*Config, error) {
	logger.Info("Loading configuration", zap.String("path", configPath))

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var config Config
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("failed to decode YAML config: %w", err)
	}

	config.applyDefaults()
	return &config, nil
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = ":8080"
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = StorageBackendMemory
	}
	if c.Cache.Redis.ConnectTimeout == 0 {
		c.Cache.Redis.ConnectTimeout = 5 * time.Second
	}
	if c.Cache.Redis.ReadTimeout == 0 {
		c.Cache.Redis.ReadTimeout = 3 * time.Second
	}
	if c.Cache.Redis.SendTimeout == 0 {
		c.Cache.Redis.SendTimeout = 3 * time.Second
	}
	if c.Cache.Redis.PoolSize == 0 {
		c.Cache.Redis.PoolSize = 10
	}
	if c.Cache.Memory.SizeMB == 0 {
		c.Cache.Memory.SizeMB = 64
	}
	if c.Postgres.Schema == "" {
		c.Postgres.Schema = "public"
	}
}
