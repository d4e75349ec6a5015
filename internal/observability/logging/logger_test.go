package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"mysite/internal/handler/http/requestid"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "output should be valid JSON: %s", buf.String())
	return entry
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"invalid", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "", "info")

	logger.Debug("hidden")
	assert.Empty(t, buf.String(), "debug must be filtered at info level")

	logger.Info("index rendered", slog.Int("count", 5))
	entry := decode(t, &buf)
	assert.Equal(t, "index rendered", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, float64(5), entry["count"])
}

func TestNew_Text(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "text", "debug").Debug("vote recorded")

	out := buf.String()
	assert.True(t, strings.Contains(out, "level=DEBUG"), out)
	assert.True(t, strings.Contains(out, `msg="vote recorded"`), out)
}

func TestNewLogger_FromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")

	logger := NewLogger()
	assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))
}

func TestWithRequestID(t *testing.T) {
	var buf bytes.Buffer
	base := New(&buf, "json", "info")

	ctx := requestid.WithRequestID(context.Background(), "req-123")
	WithRequestID(ctx, base).Info("hello")
	assert.Equal(t, "req-123", decode(t, &buf)["request_id"])

	buf.Reset()
	WithRequestID(context.Background(), base).Info("hello")
	_, ok := decode(t, &buf)["request_id"]
	assert.False(t, ok, "request_id must be absent without one in context")
}

func TestWithTraceID(t *testing.T) {
	var buf bytes.Buffer
	base := New(&buf, "json", "info")

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	WithTraceID(ctx, base).Info("traced")
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", decode(t, &buf)["trace_id"])

	assert.Same(t, base, WithTraceID(context.Background(), base))
}

func TestFromContext(t *testing.T) {
	assert.Same(t, slog.Default(), FromContext(context.Background()))

	custom := New(&bytes.Buffer{}, "json", "info")
	ctx := WithLogger(context.Background(), custom)
	assert.Same(t, custom, FromContext(ctx))
}
