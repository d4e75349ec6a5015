// Package respond writes JSON and HTML responses and turns errors into
// responses that never leak internal details.
package respond

import (
	"bytes"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"mysite/internal/domain/entity"
)

// JSON writes a JSON response with the given status code and data.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			// headers are already sent, so only log
			slog.Default().Error("failed to encode JSON response",
				slog.Int("status_code", code),
				slog.Any("error", err))
		}
	}
}

// HTML executes the named template into a buffer and writes it with the
// given status code. A template error produces a plain 500 instead of a
// half-rendered page.
func HTML(w http.ResponseWriter, code int, t *template.Template, name string, data any) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Default().Error("failed to render template",
			slog.String("template", name),
			slog.Any("error", err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_, _ = buf.WriteTo(w)
}

// safeFragments mark error messages that are meant for the client.
var safeFragments = []string{
	"required",
	"invalid",
	"not found",
	"must be",
	"must not",
	"didn't select",
	"rate limit",
	"unauthorized",
	"forbidden",
}

// SafeError writes {"error": msg}. Validation errors and messages that look
// user-facing are returned as-is; everything else, and every 5xx, is logged
// and replaced by "internal server error".
func SafeError(w http.ResponseWriter, code int, err error) {
	if err == nil {
		return
	}

	msg := err.Error()
	isSafe := errors.Is(err, entity.ErrInvalidInput)
	if !isSafe {
		lowerMsg := strings.ToLower(msg)
		for _, safe := range safeFragments {
			if strings.Contains(lowerMsg, safe) {
				isSafe = true
				break
			}
		}
	}
	if code >= 500 {
		isSafe = false
	}

	if isSafe {
		JSON(w, code, map[string]string{"error": msg})
		return
	}

	slog.Default().Error("internal server error",
		slog.String("status", http.StatusText(code)),
		slog.Int("code", code),
		slog.String("error", SanitizeError(err)))
	JSON(w, code, map[string]string{"error": "internal server error"})
}
