package admin

import (
	"errors"
	"log/slog"
	"net/http"

	"mysite/internal/handler/http/pathutil"
	"mysite/internal/handler/http/respond"
	"mysite/internal/observability/logging"
	questionUC "mysite/internal/usecase/question"
)

// DeleteHandler deletes a question and its choices.
type DeleteHandler struct {
	Svc    *questionUC.Service
	Logger *slog.Logger
}

func (h DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.Svc.Delete(r.Context(), id); err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, questionUC.ErrQuestionNotFound) {
			code = http.StatusNotFound
		} else {
			logging.WithRequestID(r.Context(), h.Logger).Error("failed to delete question",
				slog.Int64("question_id", id), slog.Any("error", err))
		}
		respond.SafeError(w, code, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
