package cache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrValueType indicates a cached or coalesced value did not have
	// the type the caller asked for
	ErrValueType = errors.New("cached value type mismatch")
)

// DefaultSweepInterval is how often the background task removes
// expired entries when no interval is configured.
const DefaultSweepInterval = 5 * time.Minute

// Config holds the request cache configuration.
type Config struct {
	// Name labels the instance in metrics and logs (e.g., the domain)
	Name string

	// SweepInterval is the background expiry sweep cadence;
	// <= 0 selects DefaultSweepInterval
	SweepInterval time.Duration
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig() Config {
	return Config{
		Name:          "default",
		SweepInterval: DefaultSweepInterval,
	}
}

// RequestCache serves cached idempotent reads within their TTL,
// coalesces concurrent identical reads onto one in-flight fetch, and
// records request metrics.
//
// One instance is conventionally shared by all callers of a domain
// client. Instances are constructed explicitly with New and must be
// closed to stop the background sweep.
type RequestCache struct {
	name string

	mu      sync.RWMutex
	entries map[string]*Entry

	// flights is the pending-operation registry: at most one running
	// fetch per signature. ClearAll swaps in a fresh group.
	flights *singleflight.Group

	counters counters

	sweepInterval time.Duration
	done          chan struct{}
	closeOnce     sync.Once

	logger zerolog.Logger
}

// New creates a request cache and starts its background expiry sweep.
func New(cfg Config) *RequestCache {
	if cfg.Name == "" {
		cfg.Name = "default"
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = DefaultSweepInterval
	}

	c := &RequestCache{
		name:          cfg.Name,
		entries:       make(map[string]*Entry),
		flights:       new(singleflight.Group),
		sweepInterval: cfg.SweepInterval,
		done:          make(chan struct{}),
		logger: log.With().
			Str("component", "request-cache").
			Str("cache", cfg.Name).
			Logger(),
	}

	go c.sweepLoop()

	return c
}

// Close stops the background sweep. Safe to call more than once.
func (c *RequestCache) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

func (c *RequestCache) sweepLoop() {
	ticker := time.NewTicker(c.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := c.SweepExpired(); n > 0 {
				c.logger.Debug().Int("removed", n).Msg("Swept expired entries")
			}
		case <-c.done:
			return
		}
	}
}

// FetchFunc produces the value for a cache miss, typically one call to
// the external transport plus response decoding.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// ReadThrough serves one idempotent read through the cache.
//
// A valid entry under key is returned without invoking fetch. On a
// miss, concurrent calls sharing the same signature are coalesced onto
// one running fetch, and every caller observes the identical value or
// the identical error. A successful fetch is stored under key with the
// given ttl; a failed fetch stores nothing and evicts nothing. The
// signature leaves the pending registry when the fetch settles,
// success or failure.
func ReadThrough[T any](ctx context.Context, c *RequestCache, key Key, ttl time.Duration, signature string, fetch FetchFunc[T]) (T, error) {
	start := time.Now()
	defer func() {
		c.counters.recordResponseTime(time.Since(start))
	}()

	c.counters.recordTotal()

	keyStr := key.String()
	if e, ok := c.lookup(keyStr); ok {
		if v, ok := e.Value.(T); ok {
			c.counters.recordHit()
			CacheHits.WithLabelValues("request").Inc()
			return v, nil
		}
	}

	c.counters.recordMiss()
	CacheMisses.Inc()

	c.mu.RLock()
	flights := c.flights
	c.mu.RUnlock()

	v, err, _ := flights.Do(signature, func() (any, error) {
		value, err := fetch(ctx)
		if err != nil {
			c.counters.recordError()
			ReadErrors.Inc()
			return nil, err
		}
		c.store(keyStr, value, ttl)
		return value, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}

	value, ok := v.(T)
	if !ok {
		var zero T
		return zero, ErrValueType
	}

	return value, nil
}

// lookup returns the valid entry for key. An entry found past its
// window is dropped on access rather than waiting for the sweep.
func (c *RequestCache) lookup(key string) (*Entry, bool) {
	now := time.Now()

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if e.ValidAt(now) {
		return e, true
	}

	c.mu.Lock()
	if cur, ok := c.entries[key]; ok && cur == e {
		delete(c.entries, key)
		CacheEvictions.WithLabelValues("expired").Inc()
		CacheEntries.WithLabelValues(c.name).Set(float64(len(c.entries)))
	}
	c.mu.Unlock()

	return nil, false
}

// store writes a fresh entry, overwriting any previous value for key.
func (c *RequestCache) store(key string, value any, ttl time.Duration) {
	e := &Entry{
		Value:     value,
		CreatedAt: time.Now(),
		TTL:       ttl,
	}

	c.mu.Lock()
	c.entries[key] = e
	CacheEntries.WithLabelValues(c.name).Set(float64(len(c.entries)))
	c.mu.Unlock()
}

// Invalidate removes one entry. Used after a mutation or a manual
// refresh.
func (c *RequestCache) Invalidate(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	keyStr := key.String()
	if _, ok := c.entries[keyStr]; !ok {
		return
	}
	delete(c.entries, keyStr)
	CacheEvictions.WithLabelValues("invalidated").Inc()
	CacheEntries.WithLabelValues(c.name).Set(float64(len(c.entries)))
}

// InvalidateByPrefix removes every entry whose key starts with prefix
// and returns how many were removed. Keys render as
// <domain>:<operation>[:<discriminant>], so "news:" clears a whole
// domain and "news:list" one operation.
func (c *RequestCache) InvalidateByPrefix(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
			removed++
		}
	}
	if removed > 0 {
		CacheEvictions.WithLabelValues("invalidated").Add(float64(removed))
		CacheEntries.WithLabelValues(c.name).Set(float64(len(c.entries)))
	}
	return removed
}

// SweepExpired removes every currently-invalid entry and returns how
// many were removed. The background task runs it on SweepInterval;
// callers may also run it directly.
func (c *RequestCache) SweepExpired() int {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for k, e := range c.entries {
		if !e.ValidAt(now) {
			delete(c.entries, k)
			removed++
		}
	}
	if removed > 0 {
		CacheEvictions.WithLabelValues("expired").Add(float64(removed))
		CacheEntries.WithLabelValues(c.name).Set(float64(len(c.entries)))
	}
	return removed
}

// ClearAll empties the cache, abandons the pending registry, and
// zeroes the counters. Fetches already in flight keep running; new
// callers start fresh flights rather than joining them.
func (c *RequestCache) ClearAll() {
	c.mu.Lock()
	removed := len(c.entries)
	c.entries = make(map[string]*Entry)
	c.flights = new(singleflight.Group)
	CacheEntries.WithLabelValues(c.name).Set(0)
	c.mu.Unlock()

	if removed > 0 {
		CacheEvictions.WithLabelValues("cleared").Add(float64(removed))
	}
	c.counters.reset()
}

// Len returns the number of entries currently stored, valid or not.
func (c *RequestCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Metrics returns a read-only snapshot of the request counters.
func (c *RequestCache) Metrics() Metrics {
	c.counters.mu.Lock()
	defer c.counters.mu.Unlock()

	return Metrics{
		TotalRequests:       c.counters.totalRequests,
		CacheHits:           c.counters.cacheHits,
		CacheMisses:         c.counters.cacheMisses,
		ErrorCount:          c.counters.errorCount,
		AverageResponseTime: c.counters.avgResponseMs,
		HitRate:             hitRate(c.counters.cacheHits, c.counters.totalRequests),
	}
}

// Stats returns a read-only snapshot of cache effectiveness.
func (c *RequestCache) Stats() Stats {
	c.mu.RLock()
	entries := len(c.entries)
	c.mu.RUnlock()

	c.counters.mu.Lock()
	defer c.counters.mu.Unlock()

	return Stats{
		Entries: entries,
		Hits:    c.counters.cacheHits,
		Misses:  c.counters.cacheMisses,
		HitRate: hitRate(c.counters.cacheHits, c.counters.totalRequests),
	}
}
