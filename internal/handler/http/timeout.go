package http

import (
	"net/http"
	"time"
)

const timeoutBody = `{"error":"request timeout"}`

// Timeout returns middleware that answers 503 with a JSON body when a
// handler runs longer than d. The request context is cancelled at the
// deadline so storage calls stop early.
func Timeout(d time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, d, timeoutBody)
	}
}
