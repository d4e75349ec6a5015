package admin

import (
	"time"

	"mysite/internal/domain/entity"
)

// QuestionDTO is a question in admin API responses.
type QuestionDTO struct {
	ID           int64       `json:"id"`
	QuestionText string      `json:"question_text"`
	PubDate      time.Time   `json:"pub_date"`
	Choices      []ChoiceDTO `json:"choices,omitempty"`
}

// ChoiceDTO is a choice in admin API responses.
type ChoiceDTO struct {
	ID         int64  `json:"id"`
	ChoiceText string `json:"choice_text"`
	Votes      int    `json:"votes"`
}

type createRequest struct {
	QuestionText       string   `json:"question_text"`
	PubDate            string   `json:"pub_date"`
	DaysAfterPublished int      `json:"days_after_published"`
	Choices            []string `json:"choices"`
}

func toDTO(q *entity.Question, choices []*entity.Choice) QuestionDTO {
	out := QuestionDTO{ID: q.ID, QuestionText: q.QuestionText, PubDate: q.PubDate}
	for _, c := range choices {
		out.Choices = append(out.Choices, ChoiceDTO{ID: c.ID, ChoiceText: c.ChoiceText, Votes: c.Votes})
	}
	return out
}
