package http

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mysite/internal/observability/metrics"
)

func TestIPRateLimiter_Allow(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewIPRateLimiter("test", 1, 2, nil)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("192.0.2.1"))
	assert.True(t, l.Allow("192.0.2.1"))
	assert.False(t, l.Allow("192.0.2.1"), "burst exhausted")
	assert.True(t, l.Allow("192.0.2.2"), "other clients have their own bucket")

	now = now.Add(time.Second)
	assert.True(t, l.Allow("192.0.2.1"), "one token refilled")
}

func TestIPRateLimiter_Limit(t *testing.T) {
	l := NewIPRateLimiter("vote_test", 0.5, 1, nil)
	before := testutil.ToFloat64(metrics.RateLimitedTotal.WithLabelValues("vote_test"))

	h := l.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/polls/1/vote/", nil)
		req.RemoteAddr = "203.0.113.9:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusNoContent, do().Code)

	rec := do()
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "rate limit exceeded")
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.RateLimitedTotal.WithLabelValues("vote_test")))
}

func TestIPRateLimiter_Cleanup(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewIPRateLimiter("test", 10, 10, nil)
	l.now = func() time.Time { return now }

	l.Allow("a")
	now = now.Add(10 * time.Minute)
	l.Allow("b")

	assert.Equal(t, 2, l.Len())
	assert.Equal(t, 1, l.Cleanup(5*time.Minute))
	assert.Equal(t, 1, l.Len())
}

func TestStartRateLimitCleanup_StopsOnCancel(t *testing.T) {
	l := NewIPRateLimiter("test", 10, 10, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		StartRateLimitCleanup(ctx, l, 5*time.Millisecond, time.Nanosecond)
		close(done)
	}()

	l.Allow("192.0.2.1")
	assert.Eventually(t, func() bool { return l.Len() == 0 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup did not stop")
	}
}

func TestIPRateLimiter_Limit_IgnoresForwardedForFromUntrustedPeer(t *testing.T) {
	trusted, err := ParseTrustedProxies([]string{"10.0.0.0/8"})
	require.NoError(t, err)
	l := NewIPRateLimiter("spoof_test", 0.001, 1, NewIPExtractor(trusted))

	h := l.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	allowed := 0
	for i := 0; i < 50; i++ {
		req := httptest.NewRequest(http.MethodPost, "/polls/1/vote/", nil)
		req.RemoteAddr = "203.0.113.9:5555"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d", i+1))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code == http.StatusNoContent {
			allowed++
		}
	}

	assert.Equal(t, 1, allowed, "rotating X-Forwarded-For must not create new buckets")
	assert.Equal(t, 1, l.Len())
}

func TestIPRateLimiter_Limit_TrustedProxyForwardsClientIP(t *testing.T) {
	trusted, err := ParseTrustedProxies([]string{"10.0.0.1"})
	require.NoError(t, err)
	l := NewIPRateLimiter("proxy_test", 0.001, 1, NewIPExtractor(trusted))

	h := l.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	do := func(client string) int {
		req := httptest.NewRequest(http.MethodPost, "/polls/1/vote/", nil)
		req.RemoteAddr = "10.0.0.1:443"
		req.Header.Set("X-Forwarded-For", client+", 10.0.0.1")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, do("198.51.100.1"))
	assert.Equal(t, http.StatusNoContent, do("198.51.100.2"), "distinct clients behind the proxy")
	assert.Equal(t, http.StatusTooManyRequests, do("198.51.100.1"))
}
