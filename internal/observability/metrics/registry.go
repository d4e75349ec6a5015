// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics track HTTP request patterns and performance
var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration buckets span fast page renders (5ms) to slow votes under retry (10s).
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		},
	)

	HTTPResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)

	// RateLimitedTotal counts requests rejected by a rate limiter
	RateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_rate_limited_total",
			Help: "Total number of requests rejected by rate limiting",
		},
		[]string{"limiter"},
	)
)

// Business metrics track poll activity
var (
	// QuestionsTotal tracks the number of stored questions, published or not
	QuestionsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "polls_questions_total",
			Help: "Total number of questions in the database",
		},
	)

	// QuestionsPublishedRecently tracks questions published within the last day
	QuestionsPublishedRecently = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "polls_questions_published_recently",
			Help: "Number of questions published within the last 24 hours",
		},
	)

	// IndexRendersTotal counts index page renders; result is "listed" or "empty"
	IndexRendersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "polls_index_renders_total",
			Help: "Total number of index listings served",
		},
		[]string{"result"},
	)

	// VotesTotal counts vote attempts; status is "success", "invalid_choice" or "failure"
	VotesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "polls_votes_total",
			Help: "Total number of vote attempts",
		},
		[]string{"status"},
	)
)

// Database metrics track database performance
var (
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 10),
		},
		[]string{"operation"},
	)

	DBConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_active",
			Help: "Number of active database connections",
		},
	)

	DBConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_idle",
			Help: "Number of idle database connections",
		},
	)
)
