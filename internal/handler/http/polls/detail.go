package polls

import (
	"context"
	"errors"
	"html/template"
	"net/http"

	"mysite/internal/handler/http/pathutil"
	"mysite/internal/handler/http/respond"
	questionUC "mysite/internal/usecase/question"
)

// DetailHandler shows a published question with its voting form.
type DetailHandler struct {
	Svc       *questionUC.Service
	Templates *template.Template
}

func (h DetailHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	renderQuestion(w, r, h.Svc, h.Templates, "detail.html", http.StatusOK, false)
}

// ResultsHandler shows a published question with the vote counts.
type ResultsHandler struct {
	Svc       *questionUC.Service
	Templates *template.Template
}

func (h ResultsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	renderQuestion(w, r, h.Svc, h.Templates, "results.html", http.StatusOK, false)
}

func loadQuestion(ctx context.Context, svc *questionUC.Service, rawID string) (*QuestionContext, error) {
	id, err := pathutil.ParseID(rawID)
	if err != nil {
		return nil, questionUC.ErrQuestionNotFound
	}
	qc, err := svc.Detail(ctx, id)
	if err != nil {
		return nil, err
	}
	return &QuestionContext{
		Question: toQuestionDTO(qc.Question),
		Choices:  toChoiceDTOs(qc.Choices),
	}, nil
}

func renderQuestion(w http.ResponseWriter, r *http.Request, svc *questionUC.Service, t *template.Template, name string, code int, notSelected bool) {
	data, err := loadQuestion(r.Context(), svc, r.PathValue("id"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, questionUC.ErrQuestionNotFound) || errors.Is(err, questionUC.ErrInvalidQuestionID) {
			status = http.StatusNotFound
		}
		respond.SafeError(w, status, err)
		return
	}
	data.ChoiceNotSelected = notSelected

	if wantsJSON(r) {
		respond.JSON(w, code, data)
		return
	}
	respond.HTML(w, code, t, name, data)
}
