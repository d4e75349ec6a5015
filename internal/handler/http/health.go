// Package http holds the HTTP plumbing shared by the polls site and the
// admin API: middleware, health endpoints and metrics.
package http

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"mysite/internal/handler/http/respond"
	"mysite/internal/observability/metrics"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
	statusDegraded  = "degraded"
)

// HealthResponse is the JSON body of /health.
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp string                 `json:"timestamp"`
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version"`
}

// CheckStatus is the result of a single health check.
type CheckStatus struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// BreakerState reports a circuit breaker's current state.
type BreakerState interface {
	State() gobreaker.State
}

// HealthHandler checks database connectivity and the database circuit breaker.
type HealthHandler struct {
	DB      *sql.DB
	Breaker BreakerState
	Version string
	Timeout time.Duration
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	checks := map[string]CheckStatus{
		"database": h.checkDatabase(ctx),
	}
	if h.Breaker != nil {
		checks["circuit_breaker"] = h.checkBreaker()
	}

	overall := statusHealthy
	for _, c := range checks {
		if c.Status == statusUnhealthy {
			overall = statusUnhealthy
			break
		}
		if c.Status == statusDegraded {
			overall = statusDegraded
		}
	}

	code := http.StatusOK
	if overall == statusUnhealthy {
		code = http.StatusServiceUnavailable
	}

	respond.JSON(w, code, HealthResponse{
		Status:    overall,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	})
}

func (h *HealthHandler) checkDatabase(ctx context.Context) CheckStatus {
	if h.DB == nil {
		return CheckStatus{Status: statusUnhealthy, Message: "database not configured"}
	}

	start := time.Now()
	if err := h.DB.PingContext(ctx); err != nil {
		slog.Warn("health check: database ping failed", slog.Any("error", err))
		return CheckStatus{Status: statusUnhealthy, Message: "database unreachable"}
	}

	stats := h.DB.Stats()
	metrics.UpdateDBConnectionStats(stats.InUse, stats.Idle)

	return CheckStatus{
		Status: statusHealthy,
		Details: map[string]any{
			"latency_ms":       time.Since(start).Milliseconds(),
			"open_connections": stats.OpenConnections,
			"in_use":           stats.InUse,
			"idle":             stats.Idle,
			"wait_count":       stats.WaitCount,
		},
	}
}

func (h *HealthHandler) checkBreaker() CheckStatus {
	state := h.Breaker.State()
	cs := CheckStatus{Details: map[string]any{"state": state.String()}}
	switch state {
	case gobreaker.StateOpen:
		cs.Status = statusUnhealthy
		cs.Message = "database circuit open"
	case gobreaker.StateHalfOpen:
		cs.Status = statusDegraded
	default:
		cs.Status = statusHealthy
	}
	return cs
}

// ReadyHandler reports whether the service can take traffic.
type ReadyHandler struct {
	DB *sql.DB
}

func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.DB == nil {
		respond.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.DB.PingContext(ctx); err != nil {
		respond.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// LiveHandler answers 200 while the process is running.
type LiveHandler struct{}

func (LiveHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// RegisterOps mounts the health, readiness, liveness and metrics endpoints.
func RegisterOps(mux *http.ServeMux, health *HealthHandler, ready *ReadyHandler) {
	mux.Handle("GET /health", health)
	mux.Handle("GET /ready", ready)
	mux.Handle("GET /live", LiveHandler{})
	mux.Handle("GET /metrics", MetricsHandler())
}
