package server

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/cartolab/riverlabel/pkg/errors"
	"github.com/cartolab/riverlabel/pkg/pipeline"
)

// Cache backend names accepted in the config file.
const (
	CacheBackendMemory = "memory"
	CacheBackendFile   = "file"
	CacheBackendRedis  = "redis"
	CacheBackendNone   = "none"
)

// Config is the TOML server configuration.
type Config struct {
	// ListenAddr is the address the HTTP server binds to.
	ListenAddr string `toml:"listen_addr"`

	Cache    CacheConfig    `toml:"cache"`
	Store    StoreConfig    `toml:"store"`
	Pipeline PipelineConfig `toml:"pipeline"`
}

// CacheConfig selects and configures the result cache backend.
type CacheConfig struct {
	// Backend is one of memory, file, redis, none.
	Backend string `toml:"backend"`

	// Dir is the cache directory for the file backend.
	Dir string `toml:"dir"`

	// Redis connection settings for the redis backend.
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// StoreConfig configures optional run-history persistence.
type StoreConfig struct {
	// Enabled turns on run recording.
	Enabled bool `toml:"enabled"`

	// MongoURI is the MongoDB connection string. Empty means an in-memory
	// store, which only survives the process.
	MongoURI string `toml:"mongo_uri"`
}

// PipelineConfig overrides pipeline defaults.
type PipelineConfig struct {
	// Margin is the grid margin in coordinate units.
	Margin float64 `toml:"margin"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		ListenAddr: ":8080",
		Cache: CacheConfig{
			Backend:   CacheBackendMemory,
			RedisAddr: "localhost:6379",
		},
		Pipeline: PipelineConfig{
			Margin: pipeline.DefaultMargin,
		},
	}
}

// LoadConfig reads a TOML config file and fills in defaults for anything
// it leaves unset. An empty path returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	cfg.applyDefaults()

	return cfg, cfg.Validate()
}

// applyDefaults restores defaults for fields the file cleared.
func (c *Config) applyDefaults() {
	if c.ListenAddr == "" {
		c.ListenAddr = ":8080"
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = CacheBackendMemory
	}
	if c.Cache.RedisAddr == "" {
		c.Cache.RedisAddr = "localhost:6379"
	}
	if c.Pipeline.Margin == 0 {
		c.Pipeline.Margin = pipeline.DefaultMargin
	}
}

// Validate rejects settings no backend can satisfy.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case CacheBackendMemory, CacheBackendFile, CacheBackendRedis, CacheBackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig,
			"unknown cache backend %q (must be memory, file, redis, or none)", c.Cache.Backend)
	}
	if c.Cache.Backend == CacheBackendFile && c.Cache.Dir == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "file cache backend requires cache.dir")
	}
	if c.Pipeline.Margin < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "pipeline.margin must be at least 1")
	}
	return nil
}
