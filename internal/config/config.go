// Package config provides configuration loading from environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"

	"github.com/erwansetyobudi/browseby/cache"
	"github.com/erwansetyobudi/browseby/internal/logging"
)

// Supported database drivers.
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite3"
)

// Config holds all configuration for the browse server and the CLI.
type Config struct {
	Addr            string        // BROWSEBY_ADDR, default ":8080"
	Driver          string        // BROWSEBY_DRIVER, default "mysql"
	DSN             string        // BROWSEBY_DSN, required to reach the catalog
	BaseURL         string        // BROWSEBY_BASE_URL, default "./", always ends with "/"
	Root            string        // BROWSEBY_ROOT, default "."
	ShutdownTimeout time.Duration // BROWSEBY_SHUTDOWN_TIMEOUT, default 10s

	// Cache
	CacheDir       string        // BROWSEBY_CACHE_DIR, default "<root>/files/cache"
	CacheTTL       time.Duration // BROWSEBY_CACHE_TTL, default 6h
	MemoryTTL      time.Duration // BROWSEBY_MEMORY_TTL, default 5m, 0 disables the memory tier
	MemoryCapacity int           // BROWSEBY_MEMORY_CAPACITY, default 10000

	// Logging
	LogLevel      string // BROWSEBY_LOG_LEVEL, default "info"
	LogFile       string // BROWSEBY_LOG_FILE, default "" (console only)
	LogMaxSizeMB  int    // BROWSEBY_LOG_MAX_SIZE_MB, default 100
	LogMaxBackups int    // BROWSEBY_LOG_MAX_BACKUPS, default 3
	LogMaxAgeDays int    // BROWSEBY_LOG_MAX_AGE_DAYS, default 28
	LogCompress   bool   // BROWSEBY_LOG_COMPRESS, default true
}

// DefaultConfig returns the configuration used when no variable is set.
func DefaultConfig() *Config {
	cacheDefaults := cache.DefaultConfig()
	logDefaults := logging.DefaultConfig()

	return &Config{
		Addr:            ":8080",
		Driver:          DriverMySQL,
		BaseURL:         "./",
		Root:            ".",
		ShutdownTimeout: 10 * time.Second,

		CacheTTL:       cacheDefaults.TTL,
		MemoryTTL:      cacheDefaults.MemoryTTL,
		MemoryCapacity: cacheDefaults.MemoryCapacity,

		LogLevel:      logDefaults.Level,
		LogMaxSizeMB:  logDefaults.MaxSizeMB,
		LogMaxBackups: logDefaults.MaxBackups,
		LogMaxAgeDays: logDefaults.MaxAgeDays,
		LogCompress:   logDefaults.Compress,
	}
}

// Load reads envFile when it exists, applies the environment over the
// defaults and validates the result.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	cfg := DefaultConfig()
	cfg.Addr = getEnvString("BROWSEBY_ADDR", cfg.Addr)
	cfg.Driver = strings.ToLower(getEnvString("BROWSEBY_DRIVER", cfg.Driver))
	cfg.DSN = getEnvString("BROWSEBY_DSN", cfg.DSN)
	cfg.BaseURL = getEnvString("BROWSEBY_BASE_URL", cfg.BaseURL)
	cfg.Root = getEnvString("BROWSEBY_ROOT", cfg.Root)
	cfg.ShutdownTimeout = getEnvDuration("BROWSEBY_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)

	cfg.CacheDir = getEnvString("BROWSEBY_CACHE_DIR", filepath.Join(cfg.Root, "files", "cache"))
	cfg.CacheTTL = getEnvDuration("BROWSEBY_CACHE_TTL", cfg.CacheTTL)
	cfg.MemoryTTL = getEnvDuration("BROWSEBY_MEMORY_TTL", cfg.MemoryTTL)
	cfg.MemoryCapacity = getEnvInt("BROWSEBY_MEMORY_CAPACITY", cfg.MemoryCapacity)

	cfg.LogLevel = strings.ToLower(getEnvString("BROWSEBY_LOG_LEVEL", cfg.LogLevel))
	cfg.LogFile = getEnvString("BROWSEBY_LOG_FILE", cfg.LogFile)
	cfg.LogMaxSizeMB = getEnvInt("BROWSEBY_LOG_MAX_SIZE_MB", cfg.LogMaxSizeMB)
	cfg.LogMaxBackups = getEnvInt("BROWSEBY_LOG_MAX_BACKUPS", cfg.LogMaxBackups)
	cfg.LogMaxAgeDays = getEnvInt("BROWSEBY_LOG_MAX_AGE_DAYS", cfg.LogMaxAgeDays)
	cfg.LogCompress = getEnvBool("BROWSEBY_LOG_COMPRESS", cfg.LogCompress)

	if !strings.HasSuffix(cfg.BaseURL, "/") {
		cfg.BaseURL += "/"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks every setting except the DSN, which only commands that
// reach the catalog need (see ValidateDatabase).
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Addr, validation.Required),
		validation.Field(&c.Driver, validation.Required, validation.In(DriverMySQL, DriverSQLite)),
		validation.Field(&c.BaseURL, validation.Required),
		validation.Field(&c.CacheDir, validation.Required),
		validation.Field(&c.CacheTTL, validation.Required, validation.Min(time.Minute)),
		validation.Field(&c.MemoryTTL, validation.Min(time.Duration(0))),
		validation.Field(&c.MemoryCapacity, validation.Required, validation.Min(1)),
		validation.Field(&c.ShutdownTimeout, validation.Min(time.Duration(0))),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.LogMaxSizeMB, validation.Min(0)),
		validation.Field(&c.LogMaxBackups, validation.Min(0)),
		validation.Field(&c.LogMaxAgeDays, validation.Min(0)),
	)
}

// ValidateDatabase checks the settings needed to open the catalog database.
func (c *Config) ValidateDatabase() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.DSN, validation.Required),
	)
}

// CacheConfig maps the cache settings onto cache.Config.
func (c *Config) CacheConfig() cache.Config {
	cfg := cache.DefaultConfig()
	cfg.Dir = c.CacheDir
	cfg.TTL = c.CacheTTL
	cfg.MemoryTTL = c.MemoryTTL
	cfg.MemoryCapacity = c.MemoryCapacity
	return cfg
}

// LoggingConfig maps the log settings onto logging.Config.
func (c *Config) LoggingConfig() logging.Config {
	return logging.Config{
		Level:      c.LogLevel,
		FilePath:   c.LogFile,
		MaxSizeMB:  c.LogMaxSizeMB,
		MaxBackups: c.LogMaxBackups,
		MaxAgeDays: c.LogMaxAgeDays,
		Compress:   c.LogCompress,
	}
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		switch strings.ToLower(v) {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return defaultVal
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

// getEnvDuration accepts Go durations ("6h", "90s"); a bare number is seconds.
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return defaultVal
}
