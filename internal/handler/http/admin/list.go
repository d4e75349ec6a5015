package admin

import (
	"log/slog"
	"net/http"

	"mysite/internal/common/pagination"
	"mysite/internal/handler/http/respond"
	"mysite/internal/observability/logging"
	questionUC "mysite/internal/usecase/question"
)

// ListHandler returns one page of all questions, future ones included.
type ListHandler struct {
	Svc           *questionUC.Service
	PaginationCfg pagination.Config
	Logger        *slog.Logger
}

func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.WithRequestID(ctx, h.Logger)

	params, err := pagination.ParseQueryParams(r, h.PaginationCfg)
	if err != nil {
		logger.Warn("invalid pagination parameters", slog.Any("error", err))
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := h.Svc.ListPaginated(ctx, params)
	if err != nil {
		logger.Error("failed to list questions",
			slog.Any("error", err),
			slog.Int("page", params.Page),
			slog.Int("limit", params.Limit))
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	dtos := make([]QuestionDTO, 0, len(result.Data))
	for _, q := range result.Data {
		dtos = append(dtos, toDTO(q, nil))
	}
	respond.JSON(w, http.StatusOK, pagination.NewResponse(dtos, result.Pagination))
}
