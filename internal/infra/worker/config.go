// Package worker runs the scheduled job that refreshes the poll gauges,
// together with its configuration, metrics and health server.
package worker

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"mysite/internal/pkg/config"
)

// WorkerConfig controls when and how the refresh job runs.
type WorkerConfig struct {
	// CronSchedule is a five-field cron expression or descriptor.
	CronSchedule string
	// Timezone is the IANA zone the schedule is evaluated in.
	Timezone string
	// JobTimeout bounds a single run.
	JobTimeout time.Duration
	// HealthPort serves /health, /health/ready and /metrics.
	HealthPort int
}

// DefaultConfig refreshes every five minutes in UTC.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		CronSchedule: "*/5 * * * *",
		Timezone:     "UTC",
		JobTimeout:   30 * time.Second,
		HealthPort:   9091,
	}
}

// Validate reports every invalid field.
func (c *WorkerConfig) Validate() error {
	var errs []error
	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("cron schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := config.ValidatePositiveDuration(c.JobTimeout); err != nil {
		errs = append(errs, fmt.Errorf("job timeout: %w", err))
	}
	if err := config.ValidateIntRange(c.HealthPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}
	return errors.Join(errs...)
}

// Location returns the schedule's time zone, or UTC if it cannot be loaded.
func (c *WorkerConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LoadConfigFromEnv reads WORKER_CRON_SCHEDULE, WORKER_TIMEZONE,
// WORKER_JOB_TIMEOUT and WORKER_HEALTH_PORT. Invalid values fall back to
// the defaults with a warning, so the result is always valid.
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) *WorkerConfig {
	cfg := DefaultConfig()
	fallback := false

	report := func(field, warning string) {
		fallback = true
		metrics.RecordFallback(field)
		logger.Warn("configuration fallback applied",
			slog.String("field", field),
			slog.String("warning", warning))
	}

	schedule := config.LoadEnvWithFallback("WORKER_CRON_SCHEDULE", cfg.CronSchedule, config.ValidateCronSchedule)
	cfg.CronSchedule = schedule.Value
	if schedule.FallbackApplied {
		report("cron_schedule", schedule.Warning)
	}

	tz := config.LoadEnvWithFallback("WORKER_TIMEZONE", cfg.Timezone, config.ValidateTimezone)
	cfg.Timezone = tz.Value
	if tz.FallbackApplied {
		report("timezone", tz.Warning)
	}

	timeout := config.LoadEnvDuration("WORKER_JOB_TIMEOUT", cfg.JobTimeout, func(d time.Duration) error {
		return config.ValidateDuration(d, time.Second, 10*time.Minute)
	})
	cfg.JobTimeout = timeout.Value
	if timeout.FallbackApplied {
		report("job_timeout", timeout.Warning)
	}

	port := config.LoadEnvInt("WORKER_HEALTH_PORT", cfg.HealthPort, func(v int) error {
		return config.ValidateIntRange(v, 1024, 65535)
	})
	cfg.HealthPort = port.Value
	if port.FallbackApplied {
		report("health_port", port.Warning)
	}

	metrics.SetFallbackActive(fallback)
	metrics.RecordLoadTimestamp()
	return &cfg
}
