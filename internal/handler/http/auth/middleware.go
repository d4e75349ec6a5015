package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"mysite/internal/handler/http/respond"
	authservice "mysite/internal/service/auth"
)

type ctxKey string

const ctxUser ctxKey = "user"

// Authz returns middleware that requires a valid bearer token with the
// admin role. The token subject is stored in the request context.
func Authz(svc *authservice.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				RecordForbiddenAttempt("missing_token", r.Method)
				respond.SafeError(w, http.StatusUnauthorized, errors.New("unauthorized: missing bearer token"))
				return
			}

			claims, err := svc.ParseToken(raw)
			if err != nil {
				RecordForbiddenAttempt("invalid_token", r.Method)
				respond.SafeError(w, http.StatusUnauthorized, fmt.Errorf("unauthorized: %w", err))
				return
			}
			if claims.Role != authservice.RoleAdmin {
				RecordForbiddenAttempt("role", r.Method)
				respond.SafeError(w, http.StatusForbidden, errors.New("forbidden"))
				return
			}

			ctx := context.WithValue(r.Context(), ctxUser, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(prefix):]), true
}

// UserFromContext returns the authenticated user set by Authz.
func UserFromContext(ctx context.Context) (string, bool) {
	user, ok := ctx.Value(ctxUser).(string)
	return user, ok
}
