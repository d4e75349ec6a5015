package sqlite

import (
	"context"
	"fmt"

	"mysite/internal/domain/entity"
	"mysite/internal/infra/db"
	"mysite/internal/repository"
)

// ChoiceRepo implements the ChoiceRepository interface using SQLite.
type ChoiceRepo struct{ db db.DBTX }

// NewChoiceRepo creates a new SQLite-backed choice repository.
func NewChoiceRepo(conn db.DBTX) repository.ChoiceRepository {
	return &ChoiceRepo{db: conn}
}

// ListByQuestion retrieves the choices of a question in insertion order.
func (repo *ChoiceRepo) ListByQuestion(ctx context.Context, questionID int64) ([]*entity.Choice, error) {
	const query = `
SELECT id, question_id, choice_text, votes
FROM polls_choice
WHERE question_id = ?
ORDER BY id
`
	rows, err := repo.db.QueryContext(ctx, query, questionID)
	if err != nil {
		return nil, fmt.Errorf("ListByQuestion: QueryContext: %w", err)
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
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListByQuestion: rows.Err: %w", err)
	}
	return choices, nil
}

// Create inserts a new choice and sets its ID.
func (repo *ChoiceRepo) Create(ctx context.Context, c *entity.Choice) error {
	const query = `INSERT INTO polls_choice (question_id, choice_text, votes) VALUES (?, ?, ?)`
	res, err := repo.db.ExecContext(ctx, query, c.QuestionID, c.ChoiceText, c.Votes)
	if err != nil {
		return fmt.Errorf("Create: ExecContext: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("Create: LastInsertId: %w", err)
	}
	c.ID = id
	return nil
}

// IncrementVotes adds one vote inside a single UPDATE statement.
func (repo *ChoiceRepo) IncrementVotes(ctx context.Context, questionID, choiceID int64) (bool, error) {
	const query = `UPDATE polls_choice SET votes = votes + 1 WHERE id = ? AND question_id = ?`
	res, err := repo.db.ExecContext(ctx, query, choiceID, questionID)
	if err != nil {
		return false, fmt.Errorf("IncrementVotes: ExecContext: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("IncrementVotes: RowsAffected: %w", err)
	}
	return n == 1, nil
}
