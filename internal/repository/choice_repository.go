package repository

import (
	"context"

	"mysite/internal/domain/entity"
)

type ChoiceRepository interface {
	// ListByQuestion returns the choices of a question ordered by ID.
	ListByQuestion(ctx context.Context, questionID int64) ([]*entity.Choice, error)
	// Create stores the choice and sets its ID.
	Create(ctx context.Context, c *entity.Choice) error
	// IncrementVotes adds one vote to the choice if it belongs to the question.
	// It reports false when no such choice exists.
	IncrementVotes(ctx context.Context, questionID, choiceID int64) (bool, error)
}
