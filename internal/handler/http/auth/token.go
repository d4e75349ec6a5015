// Package auth serves the token endpoint and guards the admin API with
// bearer tokens.
package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"mysite/internal/handler/http/respond"
	"mysite/internal/observability/logging"
	authservice "mysite/internal/service/auth"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TokenHandler authenticates the administrator and issues a JWT.
func TokenHandler(svc *authservice.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		logger := logging.FromContext(r.Context())

		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Warn("authentication failed", slog.String("reason", "invalid_request"))
			RecordAuthRequest("failure", time.Since(start).Seconds())
			respond.SafeError(w, http.StatusBadRequest, errors.New("invalid request body"))
			return
		}

		tok, err := svc.IssueToken(r.Context(), authservice.Credentials{
			Username: req.Username,
			Password: req.Password,
		})
		if err != nil {
			RecordAuthRequest("failure", time.Since(start).Seconds())
			if errors.Is(err, authservice.ErrInvalidCredentials) {
				logger.Warn("authentication failed", slog.String("reason", "invalid_credentials"))
				respond.SafeError(w, http.StatusUnauthorized, errors.New("unauthorized"))
				return
			}
			logger.Error("token generation failed", slog.Any("error", err))
			respond.SafeError(w, http.StatusInternalServerError, err)
			return
		}

		RecordAuthRequest("success", time.Since(start).Seconds())
		logger.Info("authentication successful", slog.String("user", req.Username))
		respond.JSON(w, http.StatusOK, tokenResponse{Token: tok.Value, ExpiresAt: tok.ExpiresAt})
	}
}
