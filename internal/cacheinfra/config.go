package cacheinfra

import (
	"time"

	"github.com/viccon/sturdyc"
)

// Config holds the configuration for the tiered cache.
type Config struct {
	// Dir is the root directory of the file tier. Each namespace gets its own
	// sub directory, e.g. <Dir>/browse_author.
	Dir string

	// TTL is how long a cache file stays fresh, measured from its mtime.
	// Must be greater than 0.
	TTL time.Duration

	// MemoryCapacity is the maximum number of entries held by the memory tier.
	MemoryCapacity int

	// MemoryShards determines the number of memory tier shards.
	MemoryShards int

	// MemoryTTL is the lifetime of memory tier entries. Zero disables the
	// memory tier; every read then goes to the file tier.
	MemoryTTL time.Duration

	// EvictionPercentage is the share of memory entries evicted when the
	// memory tier is full. Must be between 1-100.
	EvictionPercentage int

	// EvictionInterval sets how often the memory tier checks for expired
	// entries. Zero uses the sturdyc default.
	EvictionInterval time.Duration
}

// DefaultConfig returns the configuration used by the browse pages: files
// stay fresh for six hours and hot keys are served from memory for five minutes.
func DefaultConfig() Config {
	return Config{
		Dir:                "files/cache",
		TTL:                6 * time.Hour,
		MemoryCapacity:     10000,
		MemoryShards:       64,
		MemoryTTL:          5 * time.Minute,
		EvictionPercentage: 10,
	}
}

// MemoryEnabled reports whether the memory tier is in use.
func (c Config) MemoryEnabled() bool {
	return c.MemoryTTL > 0
}

// ToSturdycOptions converts the optional settings to sturdyc options.
// Capacity, shards, TTL and eviction percentage go to sturdyc.New directly.
func (c Config) ToSturdycOptions() []sturdyc.Option {
	var options []sturdyc.Option

	if c.EvictionInterval > 0 {
		options = append(options, sturdyc.WithEvictionInterval(c.EvictionInterval))
	}

	return options
}

// Validate checks if the configuration values are valid.
func (c Config) Validate() error {
	if c.Dir == "" {
		return &ConfigError{Field: "Dir", Message: "must not be empty"}
	}

	if c.TTL <= 0 {
		return &ConfigError{Field: "TTL", Message: "must be greater than 0"}
	}

	if c.MemoryTTL < 0 {
		return &ConfigError{Field: "MemoryTTL", Message: "must be non-negative"}
	}

	if !c.MemoryEnabled() {
		return nil
	}

	if c.MemoryCapacity <= 0 {
		return &ConfigError{Field: "MemoryCapacity", Message: "must be greater than 0"}
	}

	if c.MemoryShards <= 0 {
		return &ConfigError{Field: "MemoryShards", Message: "must be greater than 0"}
	}

	if c.EvictionPercentage < 1 || c.EvictionPercentage > 100 {
		return &ConfigError{Field: "EvictionPercentage", Message: "must be between 1 and 100"}
	}

	if c.EvictionInterval < 0 {
		return &ConfigError{Field: "EvictionInterval", Message: "must be non-negative"}
	}

	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}
