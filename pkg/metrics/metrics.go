// Package metrics provides the centralized Prometheus metrics registry
// for the content client. All metrics are defined in their respective
// packages (transport, cache) to maintain modularity and avoid circular
// dependencies.
//
// This package provides documentation and reference for all available
// metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the content
// client. All metrics are automatically registered via promauto in
// their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Cache Metrics (pkg/cache):
//   - content_cache_hits_total{tier} (Counter): Cache hits by tier (request, store)
//   - content_cache_misses_total (Counter): Request cache misses
//   - content_cache_entries{cache} (Gauge): Live entries per cache instance
//   - content_cache_evictions_total{reason} (Counter): Entry removals (expired, invalidated, cleared)
//   - content_cache_read_errors_total (Counter): Failed read-through fetches
//
// Request Metrics (pkg/transport):
//   - content_api_requests_total{endpoint, status} (Counter): Total requests by endpoint and HTTP status
//   - content_api_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint
//   - content_api_errors_total{class} (Counter): Errors by class (client, server, rate_limit, network, parse)
//
// Retry Metrics (pkg/transport):
//   - content_api_retries_total{error_class} (Counter): Retry attempts by error class
//   - content_api_retry_backoff_seconds{error_class} (Histogram): Backoff duration by error class
//   - content_api_retry_exhausted_total{error_class} (Counter): Requests that exhausted max retries
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(content_cache_hits_total{tier="request"}[5m])) /
//   (sum(rate(content_cache_hits_total{tier="request"}[5m])) + sum(rate(content_cache_misses_total[5m])))
//
//   # Request Error Rate
//   rate(content_api_errors_total[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(content_api_request_duration_seconds_bucket[5m]))
//
//   # Eviction Pressure by Reason
//   sum by (reason) (rate(content_cache_evictions_total[5m]))
