package requestid

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext(t *testing.T) {
	tests := []struct {
		name     string
		ctx      context.Context
		expected string
	}{
		{
			name:     "with request ID",
			ctx:      WithRequestID(context.Background(), "test-id-123"),
			expected: "test-id-123",
		},
		{
			name:     "without request ID",
			ctx:      context.Background(),
			expected: "",
		},
		{
			name:     "with invalid type in context",
			ctx:      context.WithValue(context.Background(), RequestIDKey, 12345),
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FromContext(tt.ctx))
		})
	}
}

func TestMiddleware(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		keepsID bool
	}{
		{name: "propagates well formed ID", header: "existing-request-id-456", keepsID: true},
		{name: "generates when missing", header: "", keepsID: false},
		{name: "replaces ID with spaces", header: "bad id", keepsID: false},
		{name: "replaces ID with newline", header: "evil\ninjected=1", keepsID: false},
		{name: "replaces overly long ID", header: strings.Repeat("a", 65), keepsID: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var captured string
			handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				captured = FromContext(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/polls/", nil)
			if tt.header != "" {
				req.Header[RequestIDHeader] = []string{tt.header}
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, captured, rec.Header().Get(RequestIDHeader))
			if tt.keepsID {
				assert.Equal(t, tt.header, captured)
				return
			}
			_, err := uuid.Parse(captured)
			require.NoError(t, err, "generated ID should be a UUID: %q", captured)
		})
	}
}

func TestMiddleware_UniquePerRequest(t *testing.T) {
	seen := map[string]bool{}
	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen[FromContext(r.Context())] = true
	}))

	for i := 0; i < 50; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	}
	assert.Len(t, seen, 50)
}
