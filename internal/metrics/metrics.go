package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Core cache request/hit/miss counters, labeled by key kind
	// ("sports" or "sessions")
	CacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_cache_requests_total",
			Help: "Total number of cache requests",
		},
		[]string{"key_kind"},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_cache_hits_total",
			Help: "Total number of fresh cache hits",
		},
		[]string{"key_kind"},
	)

	CacheStaleHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_cache_stale_hits_total",
			Help: "Total number of stale cache hits served for revalidation",
		},
		[]string{"key_kind"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"key_kind"},
	)

	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_cache_errors_total",
			Help: "Total number of absorbed cache storage errors",
		},
		[]string{"operation", "kind"},
	)

	// Cache operation latency
	CacheOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "feed_cache_operation_duration_seconds",
			Help:    "Duration of cache operations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// Feed fetches against the session store, labeled by page kind
	// ("first", "more", "refresh") and outcome ("ok", "error")
	FeedFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_fetches_total",
			Help: "Total number of session page fetches",
		},
		[]string{"page", "outcome"},
	)

	StoreQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "feed_store_query_duration_seconds",
			Help:    "Duration of session store queries",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"query"},
	)
)

// RecordCacheRequest records a cache request
func RecordCacheRequest(keyKind string) {
	CacheRequests.WithLabelValues(keyKind).Inc()
}

// RecordCacheHit records a fresh cache hit
func RecordCacheHit(keyKind string) {
	CacheHits.WithLabelValues(keyKind).Inc()
}

// RecordCacheStaleHit records a stale cache hit
func RecordCacheStaleHit(keyKind string) {
	CacheStaleHits.WithLabelValues(keyKind).Inc()
}

// RecordCacheMiss records a cache miss
func RecordCacheMiss(keyKind string) {
	CacheMisses.WithLabelValues(keyKind).Inc()
}

// RecordCacheError records an absorbed storage or codec error
func RecordCacheError(operation, kind string) {
	CacheErrors.WithLabelValues(operation, kind).Inc()
}

// RecordFeedFetch records the outcome of one session page fetch
func RecordFeedFetch(page string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	FeedFetches.WithLabelValues(page, outcome).Inc()
}

// TimeCacheOperation returns a timer function for measuring a cache operation
func TimeCacheOperation(operation string) func() {
	timer := prometheus.NewTimer(CacheOperationDuration.WithLabelValues(operation))
	return func() {
		timer.ObserveDuration()
	}
}

// TimeStoreQuery returns a timer function for measuring a store query
func TimeStoreQuery(query string) func() {
	timer := prometheus.NewTimer(StoreQueryDuration.WithLabelValues(query))
	return func() {
		timer.ObserveDuration()
	}
}
