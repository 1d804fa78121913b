// Package cache provides the read-through request cache shared by all
// content domain clients.
//
// The request cache implements client-side read caching with the
// following features:
//
// - TTL expiry per content shape (categories, featured, detail, list)
// - In-flight deduplication: concurrent identical reads share one fetch
// - Request metrics (totals, hits, misses, errors, mean response time)
// - Deterministic cache key generation with sorted parameters
// - A background expiry sweep owned by the instance
// - Prometheus metrics for observability
//
// # Basic Usage
//
//	// Create a request cache
//	rc := cache.New(cache.Config{Name: "news"})
//	defer rc.Close()
//
//	// Build a cache key
//	key := cache.Key{Domain: "news", Operation: "slug", Discriminant: slug}
//
//	// Read through the cache
//	article, err := cache.ReadThrough(ctx, rc, key, cache.TTLDetail,
//		cache.Signature(endpoint, nil),
//		func(ctx context.Context) (Article, error) {
//			return fetchArticle(ctx, endpoint)
//		})
//
// A valid entry is returned without invoking the fetch function. On a
// miss, concurrent calls that share the same signature are coalesced
// onto a single fetch and every caller observes the identical outcome.
// Failed fetches store nothing: the next call for that key is a fresh
// miss.
//
// # Invalidation
//
//	rc.Invalidate(key)                  // one entry
//	rc.InvalidateByPrefix("news:")      // a whole domain
//	rc.InvalidateByPrefix("news:list")  // one operation
//	rc.ClearAll()                       // cache, pending registry, counters
//
// # Metrics
//
// Per-instance snapshots come from Metrics() and Stats(). The package
// also exports Prometheus metrics:
//
//   - content_cache_hits_total{tier} - Cache hits by tier
//   - content_cache_misses_total - Cache misses
//   - content_cache_entries{cache} - Live entries per instance
//   - content_cache_evictions_total{reason} - Removals by reason
//   - content_cache_read_errors_total - Failed read-through fetches
package cache
