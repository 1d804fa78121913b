package integration

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/civicgrid/content-client/internal/testutil"
	"github.com/civicgrid/content-client/pkg/cache"
	"github.com/civicgrid/content-client/pkg/client"
	"github.com/civicgrid/content-client/pkg/content"
	"github.com/civicgrid/content-client/pkg/store"
	"github.com/civicgrid/content-client/pkg/transport"
)

// newStack wires the full read path against a mock content API:
// client → request cache → transport → mock.
func newStack(t *testing.T) (*testutil.MockContentAPI, *cache.RequestCache, *client.Client[content.Article, content.Category]) {
	t.Helper()

	mock := testutil.NewMockContentAPI()
	t.Cleanup(mock.Close)

	tr, err := transport.New(transport.DefaultConfig(mock.URL()))
	if err != nil {
		t.Fatalf("Failed to create transport: %v", err)
	}
	t.Cleanup(func() { tr.Close() })

	rc := cache.New(cache.Config{Name: "integration", SweepInterval: time.Hour})
	t.Cleanup(rc.Close)

	news, err := client.NewNews(tr, rc)
	if err != nil {
		t.Fatalf("Failed to create news client: %v", err)
	}

	return mock, rc, news
}

func listBody(n int) string {
	articles := make([]content.Article, n)
	for i := range articles {
		articles[i] = content.Article{ID: "a-01", Slug: "city-budget", Title: "City Budget Approved"}
	}
	return testutil.ListBody("articles", articles, n)
}

// TestFullReadFlow tests the complete read path: Cache Miss → API → Cache
// Store → Cache Hit.
func TestFullReadFlow(t *testing.T) {
	mock, rc, news := newStack(t)

	mock.SetJSONResponse("/api/v1/news", listBody(2))

	ctx := context.Background()
	params := content.ListParams{Page: 1, PageSize: 10}

	// Request 1: full flow - cache miss, API call, cache store
	t.Log("Request 1: Full flow - cache miss")
	page1, err := news.List(ctx, params)
	if err != nil {
		t.Fatalf("Request 1 failed: %v", err)
	}
	if len(page1.Items) != 2 {
		t.Errorf("Request 1 items = %d, want 2", len(page1.Items))
	}
	if mock.RequestCount() != 1 {
		t.Errorf("After request 1: API requests = %d, want 1", mock.RequestCount())
	}

	// Request 2: served from the cache, API untouched
	t.Log("Request 2: Cache hit")
	page2, err := news.List(ctx, params)
	if err != nil {
		t.Fatalf("Request 2 failed: %v", err)
	}
	if len(page2.Items) != 2 {
		t.Errorf("Request 2 items = %d, want 2", len(page2.Items))
	}
	if mock.RequestCount() != 1 {
		t.Errorf("After request 2: API requests = %d, want 1", mock.RequestCount())
	}

	metrics := rc.Metrics()
	if metrics.TotalRequests != 2 || metrics.CacheHits != 1 || metrics.CacheMisses != 1 {
		t.Errorf("metrics = %+v, want total 2, hits 1, misses 1", metrics)
	}
}

// TestConcurrentReadsCoalesce tests that concurrent identical reads share
// one API call.
func TestConcurrentReadsCoalesce(t *testing.T) {
	mock, _, news := newStack(t)

	mock.SetResponse("/api/v1/news", testutil.MockResponse{
		StatusCode: 200,
		Body:       listBody(2),
		Delay:      100 * time.Millisecond,
	})

	ctx := context.Background()
	params := content.ListParams{Page: 1, PageSize: 10}

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = news.List(ctx, params)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("reader %d failed: %v", i, err)
		}
	}
	if mock.RequestCount() != 1 {
		t.Errorf("API requests = %d, want 1 (coalesced)", mock.RequestCount())
	}
}

// TestFailedReadDoesNotPoisonCache tests that an upstream error leaves no
// cache entry behind, so the next read goes to the API again.
func TestFailedReadDoesNotPoisonCache(t *testing.T) {
	mock, rc, news := newStack(t)

	mock.SetResponse("/api/v1/news/slug/missing", testutil.NewNotFoundResponse("article not found"))

	ctx := context.Background()

	// Request 1: upstream 404 propagates, nothing is cached
	t.Log("Request 1: Upstream failure")
	if _, err := news.GetBySlug(ctx, "missing"); err == nil {
		t.Fatal("expected error from upstream 404")
	}
	if rc.Len() != 0 {
		t.Errorf("cache entries after failure = %d, want 0", rc.Len())
	}

	// Request 2: source recovered, read succeeds
	t.Log("Request 2: Source recovered")
	article := content.Article{ID: "a-09", Slug: "missing", Title: "Found After All"}
	mock.SetJSONResponse("/api/v1/news/slug/missing", testutil.ItemBody("article", article))

	got, err := news.GetBySlug(ctx, "missing")
	if err != nil {
		t.Fatalf("Request 2 failed: %v", err)
	}
	if got.Title != "Found After All" {
		t.Errorf("title = %q, want %q", got.Title, "Found After All")
	}
	if mock.CountFor("/api/v1/news/slug/missing") != 2 {
		t.Errorf("API requests = %d, want 2 (failure not cached)", mock.CountFor("/api/v1/news/slug/missing"))
	}

	metrics := rc.Metrics()
	if metrics.ErrorCount != 1 {
		t.Errorf("error count = %d, want 1", metrics.ErrorCount)
	}
}

// TestInvalidationForcesRefetch tests that invalidated entries are fetched
// again on the next read.
func TestInvalidationForcesRefetch(t *testing.T) {
	mock, rc, news := newStack(t)

	mock.SetJSONResponse("/api/v1/news", listBody(1))

	ctx := context.Background()
	params := content.ListParams{Page: 1, PageSize: 10}

	if _, err := news.List(ctx, params); err != nil {
		t.Fatalf("first read failed: %v", err)
	}

	removed := rc.InvalidateByPrefix("news:")
	if removed != 1 {
		t.Errorf("invalidated = %d, want 1", removed)
	}

	if _, err := news.List(ctx, params); err != nil {
		t.Fatalf("read after invalidation failed: %v", err)
	}
	if mock.RequestCount() != 2 {
		t.Errorf("API requests = %d, want 2 (refetched after invalidation)", mock.RequestCount())
	}
}

// TestSearchBypassesCache tests that search never touches the cache or its
// counters.
func TestSearchBypassesCache(t *testing.T) {
	mock, rc, news := newStack(t)

	mock.SetJSONResponse("/api/v1/news/search", listBody(1))

	ctx := context.Background()
	params := content.SearchParams{Term: "budget"}

	for i := 0; i < 2; i++ {
		if _, err := news.Search(ctx, params); err != nil {
			t.Fatalf("search %d failed: %v", i, err)
		}
	}

	if mock.CountFor("/api/v1/news/search") != 2 {
		t.Errorf("API requests = %d, want 2 (search is never cached)", mock.CountFor("/api/v1/news/search"))
	}
	if rc.Len() != 0 {
		t.Errorf("cache entries = %d, want 0", rc.Len())
	}
	if total := rc.Metrics().TotalRequests; total != 0 {
		t.Errorf("cache requests = %d, want 0 (search bypasses metrics)", total)
	}
}

// TestCrossDomainIsolation tests that two domains sharing one request cache
// invalidate independently.
func TestCrossDomainIsolation(t *testing.T) {
	mock, rc, news := newStack(t)

	tr, err := transport.New(transport.DefaultConfig(mock.URL()))
	if err != nil {
		t.Fatalf("Failed to create transport: %v", err)
	}
	t.Cleanup(func() { tr.Close() })

	events, err := client.NewEvents(tr, rc)
	if err != nil {
		t.Fatalf("Failed to create events client: %v", err)
	}

	mock.SetJSONResponse("/api/v1/news", listBody(1))
	mock.SetJSONResponse("/api/v1/events", testutil.ListBody("events", []content.Event{{ID: "e-01"}}, 1))

	ctx := context.Background()
	params := content.ListParams{Page: 1, PageSize: 10}

	if _, err := news.List(ctx, params); err != nil {
		t.Fatalf("news read failed: %v", err)
	}
	if _, err := events.List(ctx, params); err != nil {
		t.Fatalf("events read failed: %v", err)
	}
	if rc.Len() != 2 {
		t.Fatalf("cache entries = %d, want 2", rc.Len())
	}

	// Invalidating news leaves the events entry alive.
	rc.InvalidateByPrefix("news:")

	if _, err := events.List(ctx, params); err != nil {
		t.Fatalf("events read failed: %v", err)
	}
	if mock.CountFor("/api/v1/events") != 1 {
		t.Errorf("events API requests = %d, want 1 (entry survived news invalidation)", mock.CountFor("/api/v1/events"))
	}
}

// TestStoreDrivenFlow tests the store tier in front of the request cache:
// a valid store marker short-circuits before the request cache is even
// consulted.
func TestStoreDrivenFlow(t *testing.T) {
	mock, rc, news := newStack(t)

	mock.SetJSONResponse("/api/v1/news", listBody(2))

	ctx := context.Background()
	newsStore := store.New(news)
	params := content.ListParams{Page: 1, PageSize: 10}
	opts := store.Options{UseCache: true, TTL: 5 * time.Minute}

	// Fetch 1: store miss, request cache miss, API call
	t.Log("Fetch 1: Full flow through both tiers")
	newsStore.FetchItems(ctx, params, opts)
	if msg := newsStore.Err(); msg != "" {
		t.Fatalf("fetch 1 failed: %s", msg)
	}

	snapshot := newsStore.Snapshot()
	if len(snapshot.Items) != 2 || snapshot.Total != 2 {
		t.Errorf("items/total = %d/%d, want 2/2", len(snapshot.Items), snapshot.Total)
	}

	// Fetch 2: the store marker is fresh, so nothing below it runs
	t.Log("Fetch 2: Store tier short-circuit")
	newsStore.FetchItems(ctx, params, opts)
	if total := rc.Metrics().TotalRequests; total != 1 {
		t.Errorf("request cache requests = %d, want 1 (store tier short-circuited)", total)
	}
	if mock.RequestCount() != 1 {
		t.Errorf("API requests = %d, want 1", mock.RequestCount())
	}

	// Fetch 3: invalidation clears both tiers, so the API is hit again
	t.Log("Fetch 3: After invalidation")
	newsStore.InvalidateCache()
	newsStore.FetchItems(ctx, params, opts)
	if mock.RequestCount() != 2 {
		t.Errorf("API requests = %d, want 2 (invalidation forces refetch)", mock.RequestCount())
	}
}

// TestStoreTTLExpiry tests that an expired store marker falls through to
// the request cache instead of the API when the request-tier entry is
// still valid.
func TestStoreTTLExpiry(t *testing.T) {
	mock, rc, news := newStack(t)

	mock.SetJSONResponse("/api/v1/news", listBody(1))

	ctx := context.Background()
	newsStore := store.New(news)
	params := content.ListParams{Page: 1, PageSize: 10}
	opts := store.Options{UseCache: true, TTL: 30 * time.Millisecond}

	newsStore.FetchItems(ctx, params, opts)
	if msg := newsStore.Err(); msg != "" {
		t.Fatalf("fetch 1 failed: %s", msg)
	}

	time.Sleep(50 * time.Millisecond)

	// The store marker expired, but the request-tier entry (list TTL) is
	// still fresh, so the read stops there.
	newsStore.FetchItems(ctx, params, opts)
	if msg := newsStore.Err(); msg != "" {
		t.Fatalf("fetch 2 failed: %s", msg)
	}

	metrics := rc.Metrics()
	if metrics.TotalRequests != 2 || metrics.CacheHits != 1 {
		t.Errorf("metrics = %+v, want total 2, hits 1", metrics)
	}
	if mock.RequestCount() != 1 {
		t.Errorf("API requests = %d, want 1", mock.RequestCount())
	}
}

// TestMetricsAccuracy tests the counter invariants across a mixed sequence
// of hits, misses, and failures.
func TestMetricsAccuracy(t *testing.T) {
	mock, rc, news := newStack(t)

	mock.SetJSONResponse("/api/v1/news", listBody(1))
	mock.SetResponse("/api/v1/news/slug/gone", testutil.NewNotFoundResponse("article not found"))

	ctx := context.Background()
	params := content.ListParams{Page: 1, PageSize: 10}

	if _, err := news.List(ctx, params); err != nil { // miss
		t.Fatalf("list failed: %v", err)
	}
	if _, err := news.List(ctx, params); err != nil { // hit
		t.Fatalf("list failed: %v", err)
	}
	if _, err := news.GetBySlug(ctx, "gone"); err == nil { // miss + error
		t.Fatal("expected upstream 404")
	}

	metrics := rc.Metrics()
	if metrics.TotalRequests != 3 {
		t.Errorf("total = %d, want 3", metrics.TotalRequests)
	}
	if metrics.CacheHits+metrics.CacheMisses != metrics.TotalRequests {
		t.Errorf("hits(%d) + misses(%d) != total(%d)", metrics.CacheHits, metrics.CacheMisses, metrics.TotalRequests)
	}
	if metrics.ErrorCount != 1 {
		t.Errorf("errors = %d, want 1", metrics.ErrorCount)
	}
	if metrics.HitRate != 33.33 {
		t.Errorf("hit rate = %.2f, want 33.33", metrics.HitRate)
	}
	if metrics.AverageResponseTime <= 0 {
		t.Errorf("average response time = %.2f, want > 0", metrics.AverageResponseTime)
	}
}
