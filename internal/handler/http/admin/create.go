package admin

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"mysite/internal/domain/entity"
	"mysite/internal/handler/http/pathutil"
	"mysite/internal/handler/http/respond"
	"mysite/internal/observability/logging"
	questionUC "mysite/internal/usecase/question"
)

// CreateHandler creates a question with its choices.
// pub_date takes precedence over days_after_published when both are given.
type CreateHandler struct {
	Svc    *questionUC.Service
	Logger *slog.Logger
}

func (h CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	in := questionUC.CreateInput{
		QuestionText:       req.QuestionText,
		DaysAfterPublished: req.DaysAfterPublished,
		Choices:            req.Choices,
	}
	if req.PubDate != "" {
		pd, err := time.Parse(time.RFC3339Nano, req.PubDate)
		if err != nil {
			respond.SafeError(w, http.StatusBadRequest, errors.New("pub_date must be in RFC3339 format"))
			return
		}
		in.PubDate = &pd
	}

	created, err := h.Svc.Create(r.Context(), in)
	if err != nil {
		if errors.Is(err, entity.ErrInvalidInput) {
			respond.SafeError(w, http.StatusBadRequest, err)
			return
		}
		logging.WithRequestID(r.Context(), h.Logger).Error("failed to create question", slog.Any("error", err))
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Location", pathutil.MustReverse(pathutil.RouteAdminQuestion, created.Question.ID))
	respond.JSON(w, http.StatusCreated, toDTO(created.Question, created.Choices))
}
