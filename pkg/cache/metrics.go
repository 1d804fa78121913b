package cache

import (
	"math"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks cache hits by tier (request, store)
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_cache_hits_total",
			Help: "Total number of content cache hits",
		},
		[]string{"tier"}, // "request", "store"
	)

	// CacheMisses tracks request cache misses
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "content_cache_misses_total",
			Help: "Total number of content cache misses",
		},
	)

	// CacheEntries tracks the number of live entries per cache instance
	CacheEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "content_cache_entries",
			Help: "Current number of entries in the content cache",
		},
		[]string{"cache"},
	)

	// CacheEvictions tracks entry removals by reason
	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_cache_evictions_total",
			Help: "Total number of content cache entries removed",
		},
		[]string{"reason"}, // "expired", "invalidated", "cleared"
	)

	// ReadErrors tracks failed read-through fetches
	ReadErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "content_cache_read_errors_total",
			Help: "Total number of failed read-through fetches",
		},
	)
)

// counters accumulates per-instance request metrics. Every call is
// classified exactly once as hit or miss, so hits+misses always equals
// totalRequests at any observation point.
type counters struct {
	mu              sync.Mutex
	totalRequests   int64
	cacheHits       int64
	cacheMisses     int64
	errorCount      int64
	responseSamples int64
	avgResponseMs   float64
}

func (m *counters) recordTotal() {
	m.mu.Lock()
	m.totalRequests++
	m.mu.Unlock()
}

func (m *counters) recordHit() {
	m.mu.Lock()
	m.cacheHits++
	m.mu.Unlock()
}

func (m *counters) recordMiss() {
	m.mu.Lock()
	m.cacheMisses++
	m.mu.Unlock()
}

func (m *counters) recordError() {
	m.mu.Lock()
	m.errorCount++
	m.mu.Unlock()
}

// recordResponseTime folds one observation into the running mean. Hit
// and miss latencies are blended on purpose: the mean reflects what
// callers actually waited, not what the transport took.
func (m *counters) recordResponseTime(d time.Duration) {
	ms := float64(d) / float64(time.Millisecond)

	m.mu.Lock()
	m.responseSamples++
	m.avgResponseMs += (ms - m.avgResponseMs) / float64(m.responseSamples)
	m.mu.Unlock()
}

func (m *counters) reset() {
	m.mu.Lock()
	m.totalRequests = 0
	m.cacheHits = 0
	m.cacheMisses = 0
	m.errorCount = 0
	m.responseSamples = 0
	m.avgResponseMs = 0
	m.mu.Unlock()
}

// Metrics is a point-in-time snapshot of one cache's request counters.
type Metrics struct {
	TotalRequests       int64   `json:"total_requests"`
	CacheHits           int64   `json:"cache_hits"`
	CacheMisses         int64   `json:"cache_misses"`
	ErrorCount          int64   `json:"error_count"`
	AverageResponseTime float64 `json:"average_response_time_ms"`
	HitRate             float64 `json:"hit_rate"`
}

// Stats is a point-in-time snapshot of cache effectiveness.
type Stats struct {
	Entries int     `json:"entries"`
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	HitRate float64 `json:"hit_rate"`
}

// hitRate returns hits/total as a percentage rounded to two decimals.
// Defined as 0 when no requests have been observed.
func hitRate(hits, total int64) float64 {
	if total == 0 {
		return 0
	}
	rate := float64(hits) / float64(total) * 100
	return math.Round(rate*100) / 100
}
