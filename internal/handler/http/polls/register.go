package polls

import (
	"net/http"

	"mysite/internal/handler/http/pathutil"
	questionUC "mysite/internal/usecase/question"
	voteUC "mysite/internal/usecase/vote"
)

// Register mounts the poll pages on mux. voteLimit wraps the vote handler,
// typically with a per-client rate limiter; nil leaves it unwrapped.
func Register(mux *http.ServeMux, questions *questionUC.Service, votes *voteUC.Service, voteLimit func(http.Handler) http.Handler) {
	t := Templates()

	var vote http.Handler = VoteHandler{Questions: questions, Votes: votes, Templates: t}
	if voteLimit != nil {
		vote = voteLimit(vote)
	}

	mux.Handle(pathutil.MustLookup(pathutil.RoutePollsIndex).MuxPattern(), IndexHandler{Svc: questions, Templates: t})
	mux.Handle(pathutil.MustLookup(pathutil.RoutePollsDetail).MuxPattern(), DetailHandler{Svc: questions, Templates: t})
	mux.Handle(pathutil.MustLookup(pathutil.RoutePollsResults).MuxPattern(), ResultsHandler{Svc: questions, Templates: t})
	mux.Handle(pathutil.MustLookup(pathutil.RoutePollsVote).MuxPattern(), vote)
}
