package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"mysite/internal/handler/http/respond"
	"mysite/internal/observability/metrics"
)

var errRateLimited = errors.New("rate limit exceeded")

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter keeps one token bucket per client IP.
type IPRateLimiter struct {
	name      string
	limit     rate.Limit
	burst     int
	extractor IPExtractor
	now       func() time.Time

	mu       sync.Mutex
	visitors map[string]*visitor
}

// NewIPRateLimiter allows perSecond requests per client IP with the given burst.
// The name labels the rejection metric. A nil extractor means RemoteAddrExtractor.
func NewIPRateLimiter(name string, perSecond float64, burst int, extractor IPExtractor) *IPRateLimiter {
	if extractor == nil {
		extractor = RemoteAddrExtractor{}
	}
	return &IPRateLimiter{
		name:      name,
		limit:     rate.Limit(perSecond),
		burst:     burst,
		extractor: extractor,
		now:       time.Now,
		visitors:  make(map[string]*visitor),
	}
}

// Allow consumes one token from the bucket of ip.
func (l *IPRateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[ip] = v
	}
	now := l.now()
	v.lastSeen = now
	l.mu.Unlock()

	return v.limiter.AllowN(now, 1)
}

// Limit rejects requests over the limit with 429 and a Retry-After header.
func (l *IPRateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, err := l.extractor.ExtractIP(r)
		if err != nil {
			// key by the raw peer address
			ip = r.RemoteAddr
		}
		if !l.Allow(ip) {
			metrics.RecordRateLimited(l.name)
			retryAfter := 1
			if l.limit > 0 {
				retryAfter = max(1, int(1/float64(l.limit)))
			}
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			respond.SafeError(w, http.StatusTooManyRequests, errRateLimited)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Len returns the number of tracked clients.
func (l *IPRateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}

// Cleanup forgets clients not seen for idle.
func (l *IPRateLimiter) Cleanup(idle time.Duration) int {
	cutoff := l.now().Add(-idle)

	l.mu.Lock()
	defer l.mu.Unlock()
	removed := 0
	for ip, v := range l.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(l.visitors, ip)
			removed++
		}
	}
	return removed
}

// StartRateLimitCleanup runs Cleanup every interval until ctx is cancelled.
func StartRateLimitCleanup(ctx context.Context, limiter *IPRateLimiter, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("rate limit cleanup started",
		slog.String("limiter", limiter.name),
		slog.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			slog.Info("rate limit cleanup stopped", slog.String("limiter", limiter.name))
			return
		case <-ticker.C:
			removed := limiter.Cleanup(idle)
			slog.Debug("rate limit cleanup completed",
				slog.String("limiter", limiter.name),
				slog.Int("removed", removed),
				slog.Int("remaining", limiter.Len()))
		}
	}
}
