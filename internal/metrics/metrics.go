package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FetchRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ratestash_fetch_runs_total",
			Help: "Updater runs per pipeline and outcome (skip, success, fallback, failure)",
		},
		[]string{"pipeline", "outcome"},
	)

	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ratestash_http_requests_total",
			Help: "HTTP requests per path and status code",
		},
		[]string{"path", "code"},
	)

	RequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ratestash_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds per path",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path"},
	)

	CacheMissesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ratestash_cache_misses_total",
			Help: "Read-through cache misses per store",
		},
		[]string{"store"},
	)
)
