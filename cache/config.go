package cache

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/erwansetyobudi/browseby/internal/cacheinfra"
)

// Config exposes cache configuration options for consumers of the cache package.
type Config struct {
	Dir                string
	TTL                time.Duration
	MemoryCapacity     int
	MemoryShards       int
	MemoryTTL          time.Duration
	EvictionPercentage int
}

// DefaultConfig returns a Config populated with the defaults used by the browse pages.
func DefaultConfig() Config {
	return convertFromInternal(cacheinfra.DefaultConfig())
}

// Validate checks whether the configuration values are valid.
func (c Config) Validate() error {
	return c.toInternal().Validate()
}

// NewCacheService constructs the tiered (memory + file) cache service.
func NewCacheService(cfg Config, logger zerolog.Logger) (*cacheinfra.TieredService, error) {
	return cacheinfra.NewTieredService(cfg.toInternal(), logger)
}

func (c Config) toInternal() cacheinfra.Config {
	return cacheinfra.Config{
		Dir:                c.Dir,
		TTL:                c.TTL,
		MemoryCapacity:     c.MemoryCapacity,
		MemoryShards:       c.MemoryShards,
		MemoryTTL:          c.MemoryTTL,
		EvictionPercentage: c.EvictionPercentage,
	}
}

func convertFromInternal(cfg cacheinfra.Config) Config {
	return Config{
		Dir:                cfg.Dir,
		TTL:                cfg.TTL,
		MemoryCapacity:     cfg.MemoryCapacity,
		MemoryShards:       cfg.MemoryShards,
		MemoryTTL:          cfg.MemoryTTL,
		EvictionPercentage: cfg.EvictionPercentage,
	}
}
