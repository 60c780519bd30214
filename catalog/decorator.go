package catalog

import (
	"context"
	"strconv"
	"strings"

	"github.com/erwansetyobudi/browseby/cache"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/rs/zerolog"
)

var _ Catalog = (*CachedCatalog)(nil)

// CachedCatalog decorates a Catalog with read-through caching. Every read is
// stored under the namespace of the page that makes it.
type CachedCatalog struct {
	base          Catalog
	cache         cache.CacheService
	keySerializer cache.KeySerializer
	keyRegistry   *xsync.MapOf[string, struct{}] // keys issued by this process
	logger        zerolog.Logger
}

// NewCached creates a CachedCatalog that wraps base.
func NewCached(base Catalog, cacheService cache.CacheService, keySerializer cache.KeySerializer, logger zerolog.Logger) *CachedCatalog {
	return &CachedCatalog{
		base:          base,
		cache:         cacheService,
		keySerializer: keySerializer,
		keyRegistry:   xsync.NewMapOf[string, struct{}](),
		logger:        logger,
	}
}

// LetterCounts returns the cached A-Z counts of a facet kind.
func (c *CachedCatalog) LetterCounts(ctx context.Context, kind Kind) (LetterCounts, error) {
	key := c.key(ctx, kind.Namespace(), "letter_counts", 0, nil)
	return cache.GetOrFetch(ctx, c.cache, key, func(ctx context.Context) (LetterCounts, error) {
		return c.base.LetterCounts(ctx, kind)
	})
}

// FacetsByLetter returns the cached facet list of one letter.
func (c *CachedCatalog) FacetsByLetter(ctx context.Context, kind Kind, letter string) ([]Facet, error) {
	spec, err := specFor(kind)
	if err != nil {
		return nil, err
	}
	key := c.key(ctx, spec.namespace, spec.facetsKey, 0, map[string]any{"letter": letter})
	return cache.GetOrFetch(ctx, c.cache, key, func(ctx context.Context) ([]Facet, error) {
		return c.base.FacetsByLetter(ctx, kind, letter)
	})
}

// Facet returns a cached facet. Lookups that fail, ErrNotFound included, are
// not cached.
func (c *CachedCatalog) Facet(ctx context.Context, kind Kind, id int64) (Facet, error) {
	spec, err := specFor(kind)
	if err != nil {
		return Facet{}, err
	}
	key := c.key(ctx, spec.namespace, spec.infoKey, id, map[string]any{spec.param: id})
	return cache.GetOrFetch(ctx, c.cache, key, func(ctx context.Context) (Facet, error) {
		return c.base.Facet(ctx, kind, id)
	})
}

// CountTitles returns the cached title count of a facet.
func (c *CachedCatalog) CountTitles(ctx context.Context, kind Kind, id int64) (int, error) {
	spec, err := specFor(kind)
	if err != nil {
		return 0, err
	}
	key := c.key(ctx, spec.namespace, spec.countKey, id, map[string]any{spec.param: id})
	return cache.GetOrFetch(ctx, c.cache, key, func(ctx context.Context) (int, error) {
		return c.base.CountTitles(ctx, kind, id)
	})
}

// Titles returns one cached page of the titles of a facet.
func (c *CachedCatalog) Titles(ctx context.Context, kind Kind, id int64, page Page) ([]Title, error) {
	spec, err := specFor(kind)
	if err != nil {
		return nil, err
	}
	key := c.key(ctx, spec.namespace, spec.itemsKey, id, map[string]any{
		spec.param: id,
		"offset":   page.Offset(),
		"per_page": page.PerPage,
	})
	return cache.GetOrFetch(ctx, c.cache, key, func(ctx context.Context) ([]Title, error) {
		return c.base.Titles(ctx, kind, id, page)
	})
}

// YearRange returns the cached publish year range.
func (c *CachedCatalog) YearRange(ctx context.Context) (YearRange, error) {
	key := c.key(ctx, NamespaceYear, "year_range", 0, nil)
	return cache.GetOrFetch(ctx, c.cache, key, func(ctx context.Context) (YearRange, error) {
		return c.base.YearRange(ctx)
	})
}

// Years returns the cached per-year title counts.
func (c *CachedCatalog) Years(ctx context.Context) ([]YearCount, error) {
	key := c.key(ctx, NamespaceYear, "years_list", 0, nil)
	return cache.GetOrFetch(ctx, c.cache, key, func(ctx context.Context) ([]YearCount, error) {
		return c.base.Years(ctx)
	})
}

// CountTitlesByYear returns the cached title count of a year.
func (c *CachedCatalog) CountTitlesByYear(ctx context.Context, year int) (int, error) {
	key := c.key(ctx, NamespaceYear, "items_count_by_year", int64(year), map[string]any{"year": year})
	return cache.GetOrFetch(ctx, c.cache, key, func(ctx context.Context) (int, error) {
		return c.base.CountTitlesByYear(ctx, year)
	})
}

// TitlesByYear returns one cached page of the titles of a year.
func (c *CachedCatalog) TitlesByYear(ctx context.Context, year int, page Page) ([]Title, error) {
	key := c.key(ctx, NamespaceYear, "items_by_year", int64(year), map[string]any{
		"year":     year,
		"offset":   page.Offset(),
		"per_page": page.PerPage,
	})
	return cache.GetOrFetch(ctx, c.cache, key, func(ctx context.Context) ([]Title, error) {
		return c.base.TitlesByYear(ctx, year, page)
	})
}

// Invalidate drops every cached entry of the page browsing kind.
func (c *CachedCatalog) Invalidate(ctx context.Context, kind Kind) error {
	return c.invalidateByPrefix(ctx, kind.Namespace()+cache.KeySeparator)
}

// InvalidateYears drops every cached entry of the year page.
func (c *CachedCatalog) InvalidateYears(ctx context.Context) error {
	return c.invalidateByPrefix(ctx, NamespaceYear+cache.KeySeparator)
}

// InvalidateFacet drops the cached lookup, count and title pages of one facet.
// Letter counts and facet lists are left alone.
func (c *CachedCatalog) InvalidateFacet(ctx context.Context, kind Kind, id int64) error {
	spec, err := specFor(kind)
	if err != nil {
		return err
	}
	for _, name := range []string{spec.infoKey, spec.countKey, spec.itemsKey} {
		if err := c.invalidateByPrefix(ctx, scopedPrefix(spec.namespace, name, id)); err != nil {
			return err
		}
	}
	return nil
}

// TrackedKeys returns the number of cache keys this process has issued and
// not invalidated since.
func (c *CachedCatalog) TrackedKeys() int {
	return c.keyRegistry.Size()
}

// key builds the namespaced cache key of a read and registers it. Reads scoped
// to one id carry it in the key name, so the entries of that id share a prefix.
// On a refresh context the current entry is dropped first.
func (c *CachedCatalog) key(ctx context.Context, namespace, name string, id int64, params map[string]any) string {
	if id > 0 {
		name = name + "_" + strconv.FormatInt(id, 10)
	}
	if params == nil {
		params = map[string]any{}
	}
	key := cache.NamespacedKey(namespace, c.keySerializer.SerializeKey(name, params))
	c.keyRegistry.Store(key, struct{}{})

	if refreshFromContext(ctx) {
		if err := c.cache.Delete(ctx, key); err != nil {
			c.logger.Warn().Err(err).Str("key", key).Msg("cache refresh delete failed")
		}
	}
	return key
}

func scopedPrefix(namespace, name string, id int64) string {
	return cache.NamespacedKey(namespace, name+"_"+strconv.FormatInt(id, 10)+"_")
}

// invalidateByPrefix removes matching entries from both cache tiers, including
// entries written by earlier processes, and forgets the matching tracked keys.
func (c *CachedCatalog) invalidateByPrefix(ctx context.Context, prefix string) error {
	if err := c.cache.DeleteByPrefix(ctx, prefix); err != nil {
		return err
	}

	c.keyRegistry.Range(func(key string, _ struct{}) bool {
		if strings.HasPrefix(key, prefix) {
			c.keyRegistry.Delete(key)
		}
		return true
	})
	return nil
}
