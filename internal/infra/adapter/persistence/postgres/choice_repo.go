package postgres

import (
	"context"
	"fmt"

	"mysite/internal/domain/entity"
	"mysite/internal/infra/db"
	"mysite/internal/repository"
)

type ChoiceRepo struct {
	db db.DBTX
}

func NewChoiceRepo(conn db.DBTX) repository.ChoiceRepository {
	return &ChoiceRepo{db: conn}
}

func (repo *ChoiceRepo) ListByQuestion(ctx context.Context, questionID int64) ([]*entity.Choice, error) {
	const query = `
SELECT id, question_id, choice_text, votes
FROM polls_choice
WHERE question_id = $1
ORDER BY id`
	rows, err := repo.db.QueryContext(ctx, query, questionID)
	if err != nil {
		return nil, fmt.Errorf("ListByQuestion: %w", err)
	}
	defer func() { _ = rows.Close() }()

	choices := make([]*entity.Choice, 0, 4)
	for rows.Next() {
		var c entity.Choice
		if err := rows.Scan(&c.ID, &c.QuestionID, &c.ChoiceText, &c.Votes); err != nil {
			return nil, fmt.Errorf("ListByQuestion: Scan: %w", err)
		}
		choices = append(choices, &c)
	}
	return choices, rows.Err()
}

func (repo *ChoiceRepo) Create(ctx context.Context, c *entity.Choice) error {
	const query = `
INSERT INTO polls_choice (question_id, choice_text, votes)
VALUES ($1, $2, $3)
RETURNING id`
	if err := repo.db.QueryRowContext(ctx, query, c.QuestionID, c.ChoiceText, c.Votes).Scan(&c.ID); err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

// IncrementVotes bumps the counter in the database so concurrent votes never race.
func (repo *ChoiceRepo) IncrementVotes(ctx context.Context, questionID, choiceID int64) (bool, error) {
	const query = `
UPDATE polls_choice
SET votes = votes + 1
WHERE id = $1 AND question_id = $2`
	res, err := repo.db.ExecContext(ctx, query, choiceID, questionID)
	if err != nil {
		return false, fmt.Errorf("IncrementVotes: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("IncrementVotes: RowsAffected: %w", err)
	}
	return n == 1, nil
}
