// Package polls serves the public poll pages: the index, question detail,
// results and the vote form.
package polls

import (
	"context"
	"html/template"
	"net/http"
	"strings"

	"mysite/internal/handler/http/respond"
	"mysite/internal/observability/metrics"
	questionUC "mysite/internal/usecase/question"
)

// IndexHandler lists the latest published questions.
type IndexHandler struct {
	Svc       *questionUC.Service
	Templates *template.Template
}

// Context builds the index page data.
func (h IndexHandler) Context(ctx context.Context) (*IndexContext, error) {
	questions, err := h.Svc.LatestPublished(ctx)
	if err != nil {
		return nil, err
	}

	list := make([]QuestionDTO, 0, len(questions))
	for _, q := range questions {
		list = append(list, toQuestionDTO(q))
	}
	return &IndexContext{LatestQuestionList: list}, nil
}

func (h IndexHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	data, err := h.Context(r.Context())
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	metrics.RecordIndexRender(len(data.LatestQuestionList))

	if wantsJSON(r) {
		respond.JSON(w, http.StatusOK, data)
		return
	}
	respond.HTML(w, http.StatusOK, h.Templates, "index.html", data)
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
