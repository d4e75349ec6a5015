package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mysite/internal/domain/entity"
)

func TestJSON(t *testing.T) {
	tests := []struct {
		name         string
		code         int
		data         any
		expectedBody string
	}{
		{
			name:         "map",
			code:         http.StatusOK,
			data:         map[string]string{"message": "success"},
			expectedBody: `{"message":"success"}`,
		},
		{
			name:         "struct",
			code:         http.StatusCreated,
			data:         struct{ ID int }{ID: 123},
			expectedBody: `{"ID":123}`,
		},
		{
			name:         "nil",
			code:         http.StatusNoContent,
			data:         nil,
			expectedBody: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			JSON(rec, tt.code, tt.data)

			if rec.Code != tt.code {
				t.Errorf("code = %d, want %d", rec.Code, tt.code)
			}
			if got := rec.Header().Get("Content-Type"); got != "application/json" {
				t.Errorf("Content-Type = %q", got)
			}
			if got := strings.TrimSpace(rec.Body.String()); got != tt.expectedBody {
				t.Errorf("body = %q, want %q", got, tt.expectedBody)
			}
		})
	}
}

func TestHTML(t *testing.T) {
	tmpl := template.Must(template.New("page").Parse(`{{define "ok"}}<p>{{.}}</p>{{end}}{{define "broken"}}{{.Missing.Field}}{{end}}`))

	rec := httptest.NewRecorder()
	HTML(rec, http.StatusBadRequest, tmpl, "ok", "<b>escaped</b>")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("code = %d", rec.Code)
	}
	if got := rec.Body.String(); got != "<p>&lt;b&gt;escaped&lt;/b&gt;</p>" {
		t.Errorf("body = %q", got)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", got)
	}

	rec = httptest.NewRecorder()
	HTML(rec, http.StatusOK, tmpl, "broken", 42)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("template failure code = %d, want 500", rec.Code)
	}
}

func TestSafeError(t *testing.T) {
	tests := []struct {
		name    string
		code    int
		err     error
		wantMsg string
	}{
		{
			name:    "validation error is exposed",
			code:    http.StatusBadRequest,
			err:     &entity.ValidationError{Field: "question_text", Message: "is required"},
			wantMsg: "validation error on field 'question_text': is required",
		},
		{
			name:    "not found is exposed",
			code:    http.StatusNotFound,
			err:     errors.New("question not found"),
			wantMsg: "question not found",
		},
		{
			name:    "database error is hidden",
			code:    http.StatusBadRequest,
			err:     errors.New("pq: connection refused"),
			wantMsg: "internal server error",
		},
		{
			name:    "5xx is always hidden",
			code:    http.StatusInternalServerError,
			err:     fmt.Errorf("wrap: %w", &entity.ValidationError{Field: "x", Message: "is required"}),
			wantMsg: "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			SafeError(rec, tt.code, tt.err)

			if rec.Code != tt.code {
				t.Errorf("code = %d, want %d", rec.Code, tt.code)
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if body["error"] != tt.wantMsg {
				t.Errorf("error = %q, want %q", body["error"], tt.wantMsg)
			}
		})
	}
}

func TestSafeError_Nil(t *testing.T) {
	rec := httptest.NewRecorder()
	SafeError(rec, http.StatusBadRequest, nil)
	if rec.Body.Len() != 0 {
		t.Errorf("expected no body, got %q", rec.Body.String())
	}
}
