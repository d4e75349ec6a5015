package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"mysite/internal/infra/adapter/persistence"
	"mysite/internal/infra/db"
	workerPkg "mysite/internal/infra/worker"
	"mysite/internal/observability/logging"
	"mysite/internal/resilience/circuitbreaker"
	questionUC "mysite/internal/usecase/question"
	envconfig "mysite/pkg/config"
)

// waitForMigrations blocks until the API has created the schema.
func waitForMigrations(ctx context.Context, logger *slog.Logger, database *sql.DB) error {
	const schemaQuery = "SELECT 1 FROM polls_question LIMIT 1"
	for i := 0; i < 10; i++ {
		if _, err := database.ExecContext(ctx, schemaQuery); err == nil {
			return nil
		}
		logger.Info("waiting for migrations, retrying in 3s", slog.Int("attempt", i+1))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(3 * time.Second):
		}
	}
	return errors.New("migrations did not complete in time")
}

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// fail-open: invalid settings fall back to defaults
	workerMetrics := workerPkg.NewWorkerMetrics(prometheus.DefaultRegisterer)
	workerConfig := workerPkg.LoadConfigFromEnv(logger, workerMetrics)
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", workerConfig.CronSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.Duration("job_timeout", workerConfig.JobTimeout),
		slog.Int("health_port", workerConfig.HealthPort))

	database := initDatabase(ctx, logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	healthAddr := fmt.Sprintf(":%d", workerConfig.HealthPort)
	healthServer := workerPkg.NewHealthServer(healthAddr, prometheus.DefaultGatherer, logger)
	go func() {
		if err := healthServer.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()
	logger.Info("health check server started", slog.String("addr", healthAddr))

	job, err := setupRefreshJob(logger, database, workerConfig, workerMetrics)
	if err != nil {
		logger.Error("failed to set up refresh job", slog.Any("error", err))
		os.Exit(1)
	}

	if err := runCronWorker(ctx, logger, job, workerConfig, healthServer); err != nil {
		logger.Error("worker failed", slog.Any("error", err))
		os.Exit(1)
	}
}

// initDatabase opens the database named by DATABASE_DRIVER and DATABASE_URL.
func initDatabase(ctx context.Context, logger *slog.Logger) *sql.DB {
	driver := envconfig.GetEnvString("DATABASE_DRIVER", db.DriverSQLite)
	dsn := envconfig.GetEnvString("DATABASE_URL", "file:mysite.db")

	database, err := db.Open(ctx, driver, dsn, db.ConnectionConfigFromEnv())
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	if err := waitForMigrations(ctx, logger, database); err != nil {
		logger.Error("database schema unavailable", slog.Any("error", err))
		_ = database.Close()
		os.Exit(1)
	}
	return database
}

func setupRefreshJob(logger *slog.Logger, database *sql.DB, cfg *workerPkg.WorkerConfig, metrics *workerPkg.WorkerMetrics) (*workerPkg.RefreshJob, error) {
	driver := envconfig.GetEnvString("DATABASE_DRIVER", db.DriverSQLite)
	repos, err := persistence.New(driver, circuitbreaker.NewDBCircuitBreaker(database))
	if err != nil {
		return nil, err
	}
	return &workerPkg.RefreshJob{
		Stats:   &questionUC.Service{Repo: repos.Questions, Choices: repos.Choices},
		Timeout: cfg.JobTimeout,
		Metrics: metrics,
		Logger:  logger,
	}, nil
}

// runCronWorker refreshes once at startup, then on schedule until ctx ends.
func runCronWorker(ctx context.Context, logger *slog.Logger, job *workerPkg.RefreshJob, cfg *workerPkg.WorkerConfig, healthServer *workerPkg.HealthServer) error {
	c, err := workerPkg.NewScheduler(ctx, cfg, job)
	if err != nil {
		return err
	}

	// gauges are empty until the first run
	_ = job.Run(ctx)

	c.Start()
	healthServer.SetReady(true)
	logger.Info("worker started",
		slog.String("schedule", cfg.CronSchedule),
		slog.String("timezone", cfg.Timezone))

	<-ctx.Done()
	healthServer.SetReady(false)
	logger.Info("shutting down worker...")

	// wait for a running refresh to finish
	<-c.Stop().Done()
	logger.Info("worker stopped")
	return nil
}
