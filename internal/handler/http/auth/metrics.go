package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// authRequestsTotal counts token requests by result.
	authRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_requests_total",
			Help: "Total token requests by result",
		},
		[]string{"result"}, // success | failure
	)

	// authDuration tracks how long token issuance takes.
	authDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "auth_duration_seconds",
			Help:    "Token request duration",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1.0},
		},
	)

	// forbiddenAttempts counts rejected admin requests by reason and method.
	forbiddenAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forbidden_attempts_total",
			Help: "Rejected admin API requests by reason and method",
		},
		[]string{"reason", "method"},
	)
)

// RecordAuthRequest records a token request outcome.
func RecordAuthRequest(result string, durationSeconds float64) {
	authRequestsTotal.WithLabelValues(result).Inc()
	authDuration.Observe(durationSeconds)
}

// RecordForbiddenAttempt records an admin request rejected by Authz.
func RecordForbiddenAttempt(reason, method string) {
	forbiddenAttempts.WithLabelValues(reason, method).Inc()
}
