package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"mysite/internal/config"
	"mysite/internal/infra/adapter/persistence"
	"mysite/internal/infra/db"
	"mysite/internal/observability/logging"
	"mysite/internal/observability/tracing"
	"mysite/internal/resilience/circuitbreaker"
	envconfig "mysite/pkg/config"
	"mysite/pkg/security/csp"

	hhttp "mysite/internal/handler/http"
	"mysite/internal/handler/http/admin"
	"mysite/internal/handler/http/polls"
	"mysite/internal/handler/http/requestid"
	authservice "mysite/internal/service/auth"
	questionUC "mysite/internal/usecase/question"
	voteUC "mysite/internal/usecase/vote"
)

const (
	rateLimitCleanupInterval = 5 * time.Minute
	rateLimitIdleTTL         = 10 * time.Minute
)

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := tracing.InitTracer(ctx, cfg.Tracing.ServiceName, cfg.Tracing.SampleRatio)
	if err != nil {
		logger.Error("failed to initialise tracing", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			logger.Error("failed to shut down tracer", slog.Any("error", err))
		}
	}()

	database := initDatabase(ctx, logger, cfg)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	version := envconfig.GetEnvString("VERSION", "dev")
	components, err := setupServer(logger, cfg, database, version)
	if err != nil {
		logger.Error("failed to set up server", slog.Any("error", err))
		os.Exit(1)
	}

	if err := runServer(ctx, logger, cfg, components, version); err != nil {
		logger.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}
}

// initDatabase opens the connection pool and applies the schema.
func initDatabase(ctx context.Context, logger *slog.Logger, cfg *config.Config) *sql.DB {
	database, err := db.Open(ctx, cfg.Database.Driver, cfg.Database.URL, cfg.ConnectionConfig())
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	if err := db.MigrateUp(ctx, database, cfg.Database.Driver); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		_ = database.Close()
		os.Exit(1)
	}
	return database
}

// ServerComponents holds what the run loop needs besides the handler.
type ServerComponents struct {
	Handler     http.Handler
	VoteLimiter *hhttp.IPRateLimiter
}

// setupServer wires repositories, services, routes and middleware.
func setupServer(logger *slog.Logger, cfg *config.Config, database *sql.DB, version string) (*ServerComponents, error) {
	breaker := circuitbreaker.NewDBCircuitBreaker(database)
	repos, err := persistence.New(cfg.Database.Driver, breaker)
	if err != nil {
		return nil, err
	}

	questionSvc := &questionUC.Service{
		Repo:       repos.Questions,
		Choices:    repos.Choices,
		IndexLimit: cfg.Polls.IndexLimit,
	}
	voteSvc := &voteUC.Service{Questions: questionSvc, Choices: repos.Choices}

	authSvc := authservice.NewService(
		authservice.StaticProvider{User: cfg.Auth.AdminUser, Password: cfg.Auth.AdminPassword},
		[]byte(cfg.Auth.JWTSecret),
		cfg.Auth.TokenTTL,
	)
	if cfg.Auth.AdminPassword == "" {
		logger.Warn("ADMIN_PASSWORD is empty; token issuance is disabled")
	}

	trusted, err := hhttp.ParseTrustedProxies(cfg.Vote.TrustedProxies)
	if err != nil {
		return nil, err
	}
	voteLimiter := hhttp.NewIPRateLimiter("vote", cfg.Vote.RatePerSecond, cfg.Vote.Burst, hhttp.NewIPExtractor(trusted))

	mux := http.NewServeMux()
	polls.Register(mux, questionSvc, voteSvc, voteLimiter.Limit)
	admin.Register(mux, questionSvc, authSvc, cfg.PaginationConfig(), logger)
	hhttp.RegisterOps(mux,
		&hhttp.HealthHandler{DB: database, Breaker: breaker, Version: version},
		&hhttp.ReadyHandler{DB: database},
	)

	handler := hhttp.Chain(mux,
		requestid.Middleware,
		tracing.Middleware,
		hhttp.Logging(logger),
		hhttp.Recover(logger),
		hhttp.MetricsMiddleware,
		csp.Middleware(csp.PagesPolicy().ReportOnly(cfg.HTTP.CSPReportOnly)),
		hhttp.Timeout(cfg.HTTP.RequestTimeout),
		hhttp.LimitRequestBody(cfg.HTTP.MaxBodyBytes),
	)

	logger.Info("server configured",
		slog.String("driver", cfg.Database.Driver),
		slog.Int("index_limit", cfg.Polls.IndexLimit),
		slog.Float64("vote_rate_per_second", cfg.Vote.RatePerSecond),
		slog.Int("vote_burst", cfg.Vote.Burst),
		slog.Int("trusted_proxies", len(trusted.AllowedCIDRs)))

	return &ServerComponents{Handler: handler, VoteLimiter: voteLimiter}, nil
}

// runServer serves until ctx is cancelled, then shuts down gracefully.
func runServer(ctx context.Context, logger *slog.Logger, cfg *config.Config, components *ServerComponents, version string) error {
	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           components.Handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hhttp.StartRateLimitCleanup(gctx, components.VoteLimiter, rateLimitCleanupInterval, rateLimitIdleTTL)
		return nil
	})

	g.Go(func() error {
		logger.Info("server starting",
			slog.String("addr", cfg.HTTP.Addr),
			slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		logger.Info("server stopped")
		return nil
	})

	return g.Wait()
}
