// Package cache provides the read-through caching contract and key serialization used by the
// browse pages.
//
// # Overview
//
// This package exports two main interfaces and their default implementations:
//
//   - CacheService: A read-through caching interface (GetOrFetch, Delete, DeleteByPrefix)
//   - KeySerializer: Builds stable, file name safe cache keys from a name and parameters
//
// The default CacheService is tiered: a sturdyc memory tier in front of a file tier that
// stores one msgpack file per key. Files live under <Dir>/<namespace>/<key>.cache and stay
// fresh for the configured TTL (six hours by default), measured from the file mtime.
//
// # Basic Usage
//
//	svc, err := cache.NewCacheService(cache.DefaultConfig(), logger)
//	serializer := cache.NewDefaultKeySerializer()
//
//	key := cache.NamespacedKey("browse_author",
//		serializer.SerializeKey("authors_by_letter", map[string]any{"letter": "A"}))
//
//	authors, err := cache.GetOrFetch(ctx, svc, key, func(ctx context.Context) ([]catalog.Facet, error) {
//		return store.FacetsByLetter(ctx, catalog.KindAuthor, "A")
//	})
//
// # Key Serialization Strategy
//
// SerializeKey returns "<name>_<digest>": the name is converted to snake_case and the
// digest is the xxhash64 of a canonical rendering of the arguments:
//
//   - Basic types: Direct string representation
//   - Slices/arrays: Recursive serialization of elements
//   - Maps: Sorted key-value pairs for deterministic output
//   - Structs: Exported fields with name:value pairs
//   - Functions and channels: Type only, since addresses differ between processes
//   - Anything else: JSON fallback
//
// Keys must be identical across restarts because the file tier outlives the process.
//
// # Namespaces
//
// Every browse page owns a namespace (browse_author, browse_year, ...). NamespacedKey joins
// a namespace and a key with KeySeparator; the file tier maps the namespace to a directory,
// so a page can be purged without touching the others.
//
// # Consistency
//
// There is no invalidation on catalog writes. A value may be stale for up to the file TTL
// plus the memory TTL. Operators can purge a namespace with `browseby purge`.
package cache
