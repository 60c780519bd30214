// Package catalog reads the SLiMS catalog for the browse pages.
//
// # Overview
//
// Store runs the queries against the SLiMS database through bun. It speaks
// MySQL in production and SQLite for local catalogs and tests; the few
// expressions that differ between the two are rendered per dialect.
//
// CachedCatalog decorates any Catalog with read-through caching. Each facet
// kind owns a cache namespace (browse_author, browse_topic, browse_gmd,
// browse_coll_type) and the year page owns browse_year:
//
//	store := catalog.NewStore(db)
//	cached := catalog.NewCached(store, cacheService, cache.NewDefaultKeySerializer(), logger)
//
//	counts, err := cached.LetterCounts(ctx, catalog.KindTopic)
//	topics, err := cached.FacetsByLetter(ctx, catalog.KindTopic, "A")
//	titles, err := cached.Titles(ctx, catalog.KindTopic, 12, catalog.ParsePage("2", "50"))
//
// # Cache keys
//
// Keys are "<namespace>::<name>_<digest>", the digest covering the read
// parameters. Reads scoped to one facet or year carry its id in the name
// (items_by_author_12_<digest>), which lets InvalidateFacet drop every page of
// one author without knowing which pages were cached.
//
// Failed reads are never cached. That includes ErrNotFound from Facet.
//
// # Facets
//
// Author letter counts are distinct titles per initial; the other kinds count
// facets per initial. Facet lists carry the number of distinct titles of each
// facet. Author pages list titles newest first, the other pages by title.
//
// # Request parameters
//
// ParseLetter, ParseID, ParseYear and ParsePage normalize raw query values the
// way the pages expect them, so handlers never see an invalid letter, a
// negative id or an unbounded page size.
package catalog
