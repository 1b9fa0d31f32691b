// Package metrics provides Prometheus metrics for the image cache.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "expurgate"

var (
	// RequestsTotal counts image requests by result (hit, fetched, rejected).
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Total number of image requests",
		},
		[]string{"result", "reason"},
	)

	// RequestDuration measures time to first byte of the image response.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Duration of image requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"result"},
	)

	// FetchTotal counts upstream fetches by status.
	FetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_fetch_total",
			Help:      "Total number of upstream image fetches",
		},
		[]string{"status"},
	)

	// FetchDuration measures upstream fetch duration.
	FetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_fetch_duration_seconds",
			Help:      "Duration of upstream image fetches in seconds",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
	)

	// FetchBytes observes accepted payload sizes.
	FetchBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_fetch_bytes",
			Help:      "Size of accepted upstream payloads in bytes",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 8),
		},
	)

	// EvictionsTotal counts entries removed by reason (capacity, expired).
	EvictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evictions_total",
			Help:      "Total number of cache entries removed",
		},
		[]string{"reason"},
	)

	// EvictionFailuresTotal counts deletes that failed and were skipped.
	EvictionFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "eviction_failures_total",
			Help:      "Total number of cache deletes that failed",
		},
		[]string{"reason"},
	)

	// CacheEntries is the entry count seen by the last inventory scan.
	CacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cache_entries",
			Help:      "Number of cache entries at the last inventory scan",
		},
	)

	// CacheBytes is the total stored size seen by the last inventory scan.
	CacheBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cache_bytes",
			Help:      "Total size of cache entries at the last inventory scan",
		},
	)

	// ErrorsTotal counts errors by operation and reason.
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Total number of errors",
		},
		[]string{"operation", "reason"},
	)
)

// RecordRequest records a finished image request.
func RecordRequest(result, reason string, duration time.Duration) {
	RequestsTotal.WithLabelValues(result, reason).Inc()
	RequestDuration.WithLabelValues(result).Observe(duration.Seconds())
}

// RecordFetch records an upstream fetch. size is only observed for accepted payloads.
func RecordFetch(status string, duration time.Duration, size int64) {
	FetchTotal.WithLabelValues(status).Inc()
	FetchDuration.Observe(duration.Seconds())
	if status == "ok" {
		FetchBytes.Observe(float64(size))
	}
}

// RecordEviction records removed and failed deletes for one reason.
func RecordEviction(reason string, removed, failed int) {
	if removed > 0 {
		EvictionsTotal.WithLabelValues(reason).Add(float64(removed))
	}
	if failed > 0 {
		EvictionFailuresTotal.WithLabelValues(reason).Add(float64(failed))
	}
}

// SetInventory publishes the result of an inventory scan.
func SetInventory(entries int, bytes int64) {
	CacheEntries.Set(float64(entries))
	CacheBytes.Set(float64(bytes))
}

// RecordError records an error.
func RecordError(operation, reason string) {
	ErrorsTotal.WithLabelValues(operation, reason).Inc()
}
