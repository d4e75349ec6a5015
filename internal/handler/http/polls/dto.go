package polls

import (
	"time"

	"mysite/internal/domain/entity"
)

// QuestionDTO is a question as exposed to templates and JSON clients.
type QuestionDTO struct {
	ID           int64     `json:"id"`
	QuestionText string    `json:"question_text"`
	PubDate      time.Time `json:"pub_date"`
}

// ChoiceDTO is a choice with its vote count.
type ChoiceDTO struct {
	ID         int64  `json:"id"`
	ChoiceText string `json:"choice_text"`
	Votes      int    `json:"votes"`
}

// IndexContext is the data rendered by the index page.
type IndexContext struct {
	LatestQuestionList []QuestionDTO `json:"latest_question_list"`
}

// QuestionContext is the data rendered by the detail and results pages.
type QuestionContext struct {
	Question          QuestionDTO `json:"question"`
	Choices           []ChoiceDTO `json:"choices"`
	ChoiceNotSelected bool        `json:"choice_not_selected,omitempty"`
}

func toQuestionDTO(q *entity.Question) QuestionDTO {
	return QuestionDTO{ID: q.ID, QuestionText: q.QuestionText, PubDate: q.PubDate}
}

func toChoiceDTOs(choices []*entity.Choice) []ChoiceDTO {
	out := make([]ChoiceDTO, 0, len(choices))
	for _, c := range choices {
		out = append(out, ChoiceDTO{ID: c.ID, ChoiceText: c.ChoiceText, Votes: c.Votes})
	}
	return out
}
