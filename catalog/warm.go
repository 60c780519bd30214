package catalog

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// WarmResult counts what Warm read.
type WarmResult struct {
	Kinds      int
	FacetLists int
	Years      int
}

// Warm reads the letter counts and the facet list of every non-empty letter
// of each kind, then the year range and year list. Against a CachedCatalog
// this fills the cache; with a WithRefresh context it also replaces entries
// that are still fresh.
func Warm(ctx context.Context, cat Catalog, concurrency int) (WarmResult, error) {
	if concurrency < 1 {
		concurrency = 1
	}

	var (
		res   WarmResult
		lists = make([]int, len(Kinds()))
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, kind := range Kinds() {
		g.Go(func() error {
			counts, err := cat.LetterCounts(ctx, kind)
			if err != nil {
				return fmt.Errorf("%s letter counts: %w", kind, err)
			}
			for _, r := range Letters {
				letter := string(r)
				if counts[letter] == 0 {
					continue
				}
				if _, err := cat.FacetsByLetter(ctx, kind, letter); err != nil {
					return fmt.Errorf("%s facets for %s: %w", kind, letter, err)
				}
				lists[i]++
			}
			return nil
		})
	}
	g.Go(func() error {
		if _, err := cat.YearRange(ctx); err != nil {
			return fmt.Errorf("year range: %w", err)
		}
		years, err := cat.Years(ctx)
		if err != nil {
			return fmt.Errorf("years: %w", err)
		}
		res.Years = len(years)
		return nil
	})

	if err := g.Wait(); err != nil {
		return WarmResult{}, err
	}

	res.Kinds = len(lists)
	for _, n := range lists {
		res.FacetLists += n
	}
	return res, nil
}
