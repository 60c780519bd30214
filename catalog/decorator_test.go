package catalog

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/erwansetyobudi/browseby/cache"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingCatalog is an in-memory Catalog that records how often each method
// reaches it.
type countingCatalog struct {
	mu    sync.Mutex
	calls map[string]int

	facets map[int64]Facet
	titles []Title
}

func newCountingCatalog() *countingCatalog {
	return &countingCatalog{
		calls: map[string]int{},
		facets: map[int64]Facet{
			1: {ID: 1, Name: "Andi Wijaya", Total: 2},
			12: {ID: 12, Name: "Budi Santoso", Total: 3},
		},
		titles: []Title{
			{BiblioID: 1, Title: "Algoritma Dasar", PublishYear: "2020", Authors: "Andi Wijaya"},
			{BiblioID: 4, Title: "Aljabar Linear", PublishYear: "2020", Authors: "Andi Wijaya"},
		},
	}
}

func (c *countingCatalog) hit(method string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls[method]++
}

func (c *countingCatalog) count(method string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[method]
}

func (c *countingCatalog) LetterCounts(ctx context.Context, kind Kind) (LetterCounts, error) {
	c.hit("LetterCounts")
	return LetterCounts{"A": 2, "B": 3}, nil
}

func (c *countingCatalog) FacetsByLetter(ctx context.Context, kind Kind, letter string) ([]Facet, error) {
	c.hit("FacetsByLetter:" + letter)
	return []Facet{c.facets[1]}, nil
}

func (c *countingCatalog) Facet(ctx context.Context, kind Kind, id int64) (Facet, error) {
	c.hit("Facet")
	f, ok := c.facets[id]
	if !ok {
		return Facet{}, ErrNotFound
	}
	return f, nil
}

func (c *countingCatalog) CountTitles(ctx context.Context, kind Kind, id int64) (int, error) {
	c.hit("CountTitles")
	return len(c.titles), nil
}

func (c *countingCatalog) Titles(ctx context.Context, kind Kind, id int64, page Page) ([]Title, error) {
	c.hit("Titles")
	return c.titles, nil
}

func (c *countingCatalog) YearRange(ctx context.Context) (YearRange, error) {
	c.hit("YearRange")
	return YearRange{Min: 1999, Max: 2020}, nil
}

func (c *countingCatalog) Years(ctx context.Context) ([]YearCount, error) {
	c.hit("Years")
	return []YearCount{{Year: 2020, Total: 2}}, nil
}

func (c *countingCatalog) CountTitlesByYear(ctx context.Context, year int) (int, error) {
	c.hit("CountTitlesByYear")
	return 2, nil
}

func (c *countingCatalog) TitlesByYear(ctx context.Context, year int, page Page) ([]Title, error) {
	c.hit("TitlesByYear")
	return c.titles, nil
}

func newTestCacheService(t *testing.T, memoryTTL time.Duration) cache.CacheService {
	t.Helper()
	cfg := cache.DefaultConfig()
	cfg.Dir = t.TempDir()
	cfg.MemoryTTL = memoryTTL

	svc, err := cache.NewCacheService(cfg, zerolog.Nop())
	require.NoError(t, err)
	return svc
}

func newTestCachedCatalog(t *testing.T) (*CachedCatalog, *countingCatalog) {
	t.Helper()
	base := newCountingCatalog()
	cached := NewCached(base, newTestCacheService(t, time.Minute), cache.NewDefaultKeySerializer(), zerolog.Nop())
	return cached, base
}

func TestCachedCatalog_ReadsAreCached(t *testing.T) {
	cached, base := newTestCachedCatalog(t)
	ctx := context.Background()
	page := Page{Number: 1, PerPage: 20}

	for i := 0; i < 3; i++ {
		counts, err := cached.LetterCounts(ctx, KindAuthor)
		require.NoError(t, err)
		assert.Equal(t, 3, counts["B"])

		facets, err := cached.FacetsByLetter(ctx, KindAuthor, "A")
		require.NoError(t, err)
		assert.Len(t, facets, 1)

		facet, err := cached.Facet(ctx, KindAuthor, 1)
		require.NoError(t, err)
		assert.Equal(t, "Andi Wijaya", facet.Name)

		total, err := cached.CountTitles(ctx, KindAuthor, 1)
		require.NoError(t, err)
		assert.Equal(t, 2, total)

		titles, err := cached.Titles(ctx, KindAuthor, 1, page)
		require.NoError(t, err)
		assert.Len(t, titles, 2)

		_, err = cached.YearRange(ctx)
		require.NoError(t, err)
		_, err = cached.Years(ctx)
		require.NoError(t, err)
		_, err = cached.CountTitlesByYear(ctx, 2020)
		require.NoError(t, err)
		_, err = cached.TitlesByYear(ctx, 2020, page)
		require.NoError(t, err)
	}

	for _, method := range []string{
		"LetterCounts", "FacetsByLetter:A", "Facet", "CountTitles", "Titles",
		"YearRange", "Years", "CountTitlesByYear", "TitlesByYear",
	} {
		assert.Equal(t, 1, base.count(method), method)
	}
}

func TestCachedCatalog_KeysSeparateParameters(t *testing.T) {
	cached, base := newTestCachedCatalog(t)
	ctx := context.Background()

	_, err := cached.FacetsByLetter(ctx, KindAuthor, "A")
	require.NoError(t, err)
	_, err = cached.FacetsByLetter(ctx, KindAuthor, "B")
	require.NoError(t, err)
	_, err = cached.FacetsByLetter(ctx, KindTopic, "A")
	require.NoError(t, err)

	assert.Equal(t, 2, base.count("FacetsByLetter:A"), "same letter in two namespaces")
	assert.Equal(t, 1, base.count("FacetsByLetter:B"))

	_, err = cached.Titles(ctx, KindAuthor, 1, Page{Number: 1, PerPage: 20})
	require.NoError(t, err)
	_, err = cached.Titles(ctx, KindAuthor, 1, Page{Number: 2, PerPage: 20})
	require.NoError(t, err)
	_, err = cached.Titles(ctx, KindAuthor, 1, Page{Number: 1, PerPage: 50})
	require.NoError(t, err)
	assert.Equal(t, 3, base.count("Titles"))
}

func TestCachedCatalog_NotFoundIsNotCached(t *testing.T) {
	cached, base := newTestCachedCatalog(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := cached.Facet(ctx, KindAuthor, 99)
		assert.ErrorIs(t, err, ErrNotFound)
	}
	assert.Equal(t, 2, base.count("Facet"))
}

func TestCachedCatalog_FileTierWithoutMemory(t *testing.T) {
	base := newCountingCatalog()
	svc := newTestCacheService(t, 0)
	ctx := context.Background()

	first := NewCached(base, svc, cache.NewDefaultKeySerializer(), zerolog.Nop())
	want, err := first.Titles(ctx, KindAuthor, 1, Page{Number: 1, PerPage: 20})
	require.NoError(t, err)

	second := NewCached(base, svc, cache.NewDefaultKeySerializer(), zerolog.Nop())
	got, err := second.Titles(ctx, KindAuthor, 1, Page{Number: 1, PerPage: 20})
	require.NoError(t, err)

	assert.Equal(t, want, got)
	assert.Equal(t, 1, base.count("Titles"))
}

func TestCachedCatalog_Invalidate(t *testing.T) {
	cached, base := newTestCachedCatalog(t)
	ctx := context.Background()

	_, err := cached.LetterCounts(ctx, KindAuthor)
	require.NoError(t, err)
	_, err = cached.LetterCounts(ctx, KindGMD)
	require.NoError(t, err)
	_, err = cached.Years(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, cached.TrackedKeys())

	require.NoError(t, cached.Invalidate(ctx, KindAuthor))
	assert.Equal(t, 2, cached.TrackedKeys())

	_, err = cached.LetterCounts(ctx, KindAuthor)
	require.NoError(t, err)
	_, err = cached.LetterCounts(ctx, KindGMD)
	require.NoError(t, err)
	assert.Equal(t, 3, base.count("LetterCounts"), "only the author page is refetched")

	require.NoError(t, cached.InvalidateYears(ctx))
	_, err = cached.Years(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, base.count("Years"))
}

func TestCachedCatalog_InvalidateFacet(t *testing.T) {
	cached, base := newTestCachedCatalog(t)
	ctx := context.Background()
	page := Page{Number: 1, PerPage: 20}

	read := func(id int64) {
		_, err := cached.Facet(ctx, KindAuthor, id)
		require.NoError(t, err)
		_, err = cached.CountTitles(ctx, KindAuthor, id)
		require.NoError(t, err)
		_, err = cached.Titles(ctx, KindAuthor, id, page)
		require.NoError(t, err)
	}

	read(1)
	read(12)
	_, err := cached.LetterCounts(ctx, KindAuthor)
	require.NoError(t, err)

	require.NoError(t, cached.InvalidateFacet(ctx, KindAuthor, 1))

	read(1)
	read(12)
	_, err = cached.LetterCounts(ctx, KindAuthor)
	require.NoError(t, err)

	// id 1 was refetched, id 12 shares the "1" digit but not the prefix
	assert.Equal(t, 3, base.count("Facet"))
	assert.Equal(t, 3, base.count("Titles"))
	assert.Equal(t, 1, base.count("LetterCounts"))
}

func TestCachedCatalog_WithRefresh(t *testing.T) {
	cached, base := newTestCachedCatalog(t)
	ctx := context.Background()

	_, err := cached.Years(ctx)
	require.NoError(t, err)
	_, err = cached.Years(WithRefresh(ctx))
	require.NoError(t, err)
	_, err = cached.Years(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, base.count("Years"))
}

func TestCachedCatalog_UnknownKind(t *testing.T) {
	cached, _ := newTestCachedCatalog(t)

	_, err := cached.Titles(context.Background(), Kind(0), 1, Page{Number: 1, PerPage: 20})
	assert.Error(t, err)
	assert.Error(t, cached.InvalidateFacet(context.Background(), Kind(0), 1))
}
