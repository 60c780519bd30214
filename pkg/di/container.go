package di

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/erwansetyobudi/browseby/cache"
	"github.com/erwansetyobudi/browseby/catalog"
	"github.com/erwansetyobudi/browseby/internal/cacheinfra"
	"github.com/erwansetyobudi/browseby/internal/config"
	"github.com/erwansetyobudi/browseby/web"
)

// OpenDB opens the catalog database. MySQL is what SLiMS runs on; sqlite3
// serves local demos and tests.
func OpenDB(driver, dsn string) (*bun.DB, error) {
	switch driver {
	case config.DriverMySQL:
		if _, err := mysql.ParseDSN(dsn); err != nil {
			return nil, fmt.Errorf("invalid mysql dsn: %w", err)
		}
		sqldb, err := sql.Open("mysql", dsn)
		if err != nil {
			return nil, fmt.Errorf("open mysql: %w", err)
		}
		return bun.NewDB(sqldb, mysqldialect.New()), nil
	case config.DriverSQLite:
		sqldb, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("open sqlite3: %w", err)
		}
		// One connection keeps ":memory:" databases shared.
		sqldb.SetMaxOpenConns(1)
		return bun.NewDB(sqldb, sqlitedialect.New()), nil
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
}

// Container wires the catalog store, the tiered cache and the web server.
// It owns the database handle it was given.
type Container struct {
	config        *config.Config
	logger        zerolog.Logger
	db            *bun.DB
	cacheService  *cacheinfra.TieredService
	keySerializer cache.KeySerializer
	store         *catalog.Store
	catalog       *catalog.CachedCatalog
}

// NewContainer opens the database named by cfg and builds the components
// around it.
func NewContainer(cfg *config.Config, logger zerolog.Logger) (*Container, error) {
	if err := cfg.ValidateDatabase(); err != nil {
		return nil, fmt.Errorf("database config: %w", err)
	}
	db, err := OpenDB(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, err
	}

	c, err := NewContainerWithDB(cfg, db, logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

// NewContainerWithDB builds the components around an already open database.
func NewContainerWithDB(cfg *config.Config, db *bun.DB, logger zerolog.Logger) (*Container, error) {
	cacheService, err := cache.NewCacheService(cfg.CacheConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("cache service: %w", err)
	}

	keySerializer := cache.NewDefaultKeySerializer()
	store := catalog.NewStore(db)

	return &Container{
		config:        cfg,
		logger:        logger,
		db:            db,
		cacheService:  cacheService,
		keySerializer: keySerializer,
		store:         store,
		catalog:       catalog.NewCached(store, cacheService, keySerializer, logger),
	}, nil
}

// Config returns the configuration the container was built from.
func (c *Container) Config() *config.Config {
	return c.config
}

// DB returns the catalog database handle.
func (c *Container) DB() *bun.DB {
	return c.db
}

// CacheService returns the singleton tiered cache.
func (c *Container) CacheService() *cacheinfra.TieredService {
	return c.cacheService
}

// KeySerializer returns the singleton key serializer.
func (c *Container) KeySerializer() cache.KeySerializer {
	return c.keySerializer
}

// Store returns the uncached catalog.
func (c *Container) Store() *catalog.Store {
	return c.store
}

// Catalog returns the cached catalog the pages read from.
func (c *Container) Catalog() *catalog.CachedCatalog {
	return c.catalog
}

// Server builds the web server over the cached catalog.
func (c *Container) Server() (*web.Server, error) {
	return web.New(c.catalog, web.Options{
		BaseURL: c.config.BaseURL,
		Logger:  c.logger,
		Health:  c.Health,
	})
}

// Health reports the cache counters for the /health endpoint.
func (c *Container) Health() map[string]any {
	stats := c.cacheService.Stats()
	return map[string]any{
		"driver":       c.config.Driver,
		"tracked_keys": c.catalog.TrackedKeys(),
		"cache": map[string]int64{
			"requests":     stats.Requests,
			"memory_hits":  stats.MemoryHits,
			"disk_hits":    stats.DiskHits,
			"fetches":      stats.Fetches,
			"write_errors": stats.WriteErrors,
		},
	}
}

// Ping checks that the database answers.
func (c *Container) Ping(ctx context.Context) error {
	if err := c.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping %s: %w", c.config.Driver, err)
	}
	return nil
}

// Close releases the database handle.
func (c *Container) Close() error {
	return c.db.Close()
}

// ResolveNamespace maps a page name ("author", "browse_author", "year") to
// its cache namespace and facet kind. The year page has no kind.
func ResolveNamespace(page string) (string, catalog.Kind, error) {
	name := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(page)), "browse_")
	if name == "year" {
		return catalog.NamespaceYear, 0, nil
	}
	for _, kind := range catalog.Kinds() {
		if kind.String() == name {
			return kind.Namespace(), kind, nil
		}
	}
	return "", 0, fmt.Errorf("unknown page %q", page)
}

// Purge clears the cache directories of pages, or of every page when none is
// given. With id > 0 exactly one facet page must be named, and only the
// entries of that facet are dropped.
func (c *Container) Purge(ctx context.Context, pages []string, id int64) ([]string, error) {
	if id > 0 {
		if len(pages) != 1 {
			return nil, fmt.Errorf("--id needs exactly one page, got %d", len(pages))
		}
		ns, kind, err := ResolveNamespace(pages[0])
		if err != nil {
			return nil, err
		}
		if !kind.Valid() {
			return nil, fmt.Errorf("page %q has no facet ids", pages[0])
		}
		if err := c.catalog.InvalidateFacet(ctx, kind, id); err != nil {
			return nil, fmt.Errorf("purge %s %d: %w", ns, id, err)
		}
		return []string{ns}, nil
	}

	namespaces := catalog.Namespaces()
	if len(pages) > 0 {
		namespaces = namespaces[:0:0]
		for _, page := range pages {
			ns, _, err := ResolveNamespace(page)
			if err != nil {
				return nil, err
			}
			namespaces = append(namespaces, ns)
		}
	}

	for _, ns := range namespaces {
		if err := c.cacheService.PurgeNamespace(ctx, ns); err != nil {
			return nil, fmt.Errorf("purge %s: %w", ns, err)
		}
		c.logger.Info().Str("namespace", ns).Msg("cache purged")
	}
	return namespaces, nil
}

// Warm refreshes the letter counts, facet lists and year data in the cache.
func (c *Container) Warm(ctx context.Context, concurrency int) (catalog.WarmResult, error) {
	return catalog.Warm(catalog.WithRefresh(ctx), c.catalog, concurrency)
}
