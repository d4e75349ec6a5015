package polls

import (
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"mysite/internal/handler/http/pathutil"
	"mysite/internal/handler/http/respond"
	questionUC "mysite/internal/usecase/question"
	voteUC "mysite/internal/usecase/vote"
)

// VoteHandler records a vote submitted from the detail form and redirects
// to the results page.
type VoteHandler struct {
	Questions *questionUC.Service
	Votes     *voteUC.Service
	Templates *template.Template
}

func (h VoteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		respond.SafeError(w, http.StatusNotFound, questionUC.ErrQuestionNotFound)
		return
	}

	// a missing or malformed field counts as no selection
	choiceID, _ := strconv.ParseInt(r.PostFormValue("choice"), 10, 64)

	err = h.Votes.Vote(r.Context(), id, choiceID)
	switch {
	case err == nil:
		http.Redirect(w, r, pathutil.MustReverse(pathutil.RoutePollsResults, id), http.StatusFound)
	case errors.Is(err, voteUC.ErrChoiceNotSelected):
		renderQuestion(w, r, h.Questions, h.Templates, "detail.html", http.StatusBadRequest, true)
	case errors.Is(err, questionUC.ErrQuestionNotFound), errors.Is(err, questionUC.ErrInvalidQuestionID):
		respond.SafeError(w, http.StatusNotFound, err)
	default:
		respond.SafeError(w, http.StatusInternalServerError, err)
	}
}
