package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"mysite/internal/handler/http/respond"
	"mysite/internal/observability/metrics"
	questionUC "mysite/internal/usecase/question"
)

// StatsSource supplies question counts.
type StatsSource interface {
	Stats(ctx context.Context) (*questionUC.RecencyStats, error)
}

// RefreshJob copies the current question counts into the business gauges.
type RefreshJob struct {
	Stats   StatsSource
	Timeout time.Duration
	Metrics *WorkerMetrics
	Logger  *slog.Logger
}

// Run performs one refresh. It is safe to call from the cron scheduler.
func (j *RefreshJob) Run(ctx context.Context) error {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, j.Timeout)
	defer cancel()

	stats, err := j.Stats.Stats(ctx)
	if err != nil {
		j.Metrics.RecordJobRun(JobFailure, time.Since(start).Seconds())
		j.Logger.Error("refresh failed", slog.String("error", respond.SanitizeError(err)))
		return fmt.Errorf("refresh stats: %w", err)
	}

	metrics.UpdateQuestionsTotal(stats.Total)
	metrics.UpdateQuestionsPublishedRecently(stats.PublishedRecently)
	j.Metrics.RecordJobRun(JobSuccess, time.Since(start).Seconds())

	j.Logger.Info("refresh completed",
		slog.Int64("questions_total", stats.Total),
		slog.Int64("questions_published_recently", stats.PublishedRecently),
		slog.Duration("duration", time.Since(start)))
	return nil
}

// NewScheduler registers job on a cron scheduler configured from cfg.
// Overlapping runs are skipped. The caller starts and stops the scheduler.
func NewScheduler(ctx context.Context, cfg *WorkerConfig, job *RefreshJob) (*cron.Cron, error) {
	c := cron.New(
		cron.WithLocation(cfg.Location()),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	if _, err := c.AddFunc(cfg.CronSchedule, func() { _ = job.Run(ctx) }); err != nil {
		return nil, fmt.Errorf("schedule refresh job: %w", err)
	}
	return c, nil
}
