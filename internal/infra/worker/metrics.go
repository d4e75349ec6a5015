package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"mysite/internal/pkg/config"
)

// Job run outcomes.
const (
	JobSuccess = "success"
	JobFailure = "failure"
)

// WorkerMetrics combines the configuration metrics with job run metrics.
type WorkerMetrics struct {
	*config.ConfigMetrics

	JobRunsTotal         *prometheus.CounterVec
	JobDurationSeconds   prometheus.Histogram
	LastSuccessTimestamp prometheus.Gauge
}

// NewWorkerMetrics registers the worker metrics with reg.
func NewWorkerMetrics(reg prometheus.Registerer) *WorkerMetrics {
	f := promauto.With(reg)
	return &WorkerMetrics{
		ConfigMetrics: config.NewConfigMetrics(reg, "worker"),

		JobRunsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_cron_job_runs_total",
			Help: "Total refresh job runs by status",
		}, []string{"status"}),

		JobDurationSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "worker_cron_job_duration_seconds",
			Help:    "Duration of refresh job runs in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		}),

		LastSuccessTimestamp: f.NewGauge(prometheus.GaugeOpts{
			Name: "worker_cron_job_last_success_timestamp",
			Help: "Unix timestamp of the last successful refresh",
		}),
	}
}

// RecordJobRun counts a run with the given status and observes its duration.
func (m *WorkerMetrics) RecordJobRun(status string, seconds float64) {
	m.JobRunsTotal.WithLabelValues(status).Inc()
	m.JobDurationSeconds.Observe(seconds)
	if status == JobSuccess {
		m.LastSuccessTimestamp.SetToCurrentTime()
	}
}
