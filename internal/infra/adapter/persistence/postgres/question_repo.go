// Package postgres provides PostgreSQL implementations of the repository interfaces.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"mysite/internal/domain/entity"
	"mysite/internal/infra/db"
	"mysite/internal/repository"
)

type QuestionRepo struct {
	db db.DBTX
}

func NewQuestionRepo(conn db.DBTX) repository.QuestionRepository {
	return &QuestionRepo{db: conn}
}

func (repo *QuestionRepo) ListPublished(ctx context.Context, asOf time.Time, limit int) ([]*entity.Question, error) {
	const query = `
SELECT id, question_text, pub_date
FROM polls_question
WHERE pub_date <= $1
ORDER BY pub_date DESC
LIMIT $2`
	rows, err := repo.db.QueryContext(ctx, query, asOf, limit)
	if err != nil {
		return nil, fmt.Errorf("ListPublished: %w", err)
	}
	defer func() { _ = rows.Close() }()

	questions := make([]*entity.Question, 0, limit)
	for rows.Next() {
		var q entity.Question
		if err := rows.Scan(&q.ID, &q.QuestionText, &q.PubDate); err != nil {
			return nil, fmt.Errorf("ListPublished: Scan: %w", err)
		}
		questions = append(questions, &q)
	}
	return questions, rows.Err()
}

// ListPaginated retrieves a page of questions, future ones included.
// Uses LIMIT and OFFSET; id breaks ties between equal pub_date values.
func (repo *QuestionRepo) ListPaginated(ctx context.Context, offset, limit int) ([]*entity.Question, error) {
	const query = `
SELECT id, question_text, pub_date
FROM polls_question
ORDER BY pub_date DESC, id DESC
LIMIT $1 OFFSET $2`
	rows, err := repo.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ListPaginated: %w", err)
	}
	defer func() { _ = rows.Close() }()

	questions := make([]*entity.Question, 0, limit)
	for rows.Next() {
		var q entity.Question
		if err := rows.Scan(&q.ID, &q.QuestionText, &q.PubDate); err != nil {
			return nil, fmt.Errorf("ListPaginated: Scan: %w", err)
		}
		questions = append(questions, &q)
	}
	return questions, rows.Err()
}

func (repo *QuestionRepo) Count(ctx context.Context) (int64, error) {
	const query = `SELECT COUNT(*) FROM polls_question`
	var count int64
	if err := repo.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("Count: %w", err)
	}
	return count, nil
}

func (repo *QuestionRepo) CountPublishedSince(ctx context.Context, from, to time.Time) (int64, error) {
	const query = `SELECT COUNT(*) FROM polls_question WHERE pub_date > $1 AND pub_date <= $2`
	var count int64
	if err := repo.db.QueryRowContext(ctx, query, from, to).Scan(&count); err != nil {
		return 0, fmt.Errorf("CountPublishedSince: %w", err)
	}
	return count, nil
}

func (repo *QuestionRepo) Get(ctx context.Context, id int64) (*entity.Question, error) {
	const query = `
SELECT id, question_text, pub_date
FROM polls_question
WHERE id = $1
LIMIT 1`
	var q entity.Question
	err := repo.db.QueryRowContext(ctx, query, id).Scan(&q.ID, &q.QuestionText, &q.PubDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return &q, nil
}

func (repo *QuestionRepo) Create(ctx context.Context, q *entity.Question) error {
	const query = `
INSERT INTO polls_question (question_text, pub_date)
VALUES ($1, $2)
RETURNING id`
	if err := repo.db.QueryRowContext(ctx, query, q.QuestionText, q.PubDate).Scan(&q.ID); err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

// CreateWithChoices inserts the question and then its choices in one transaction.
// IDs are assigned only after the commit succeeds.
func (repo *QuestionRepo) CreateWithChoices(ctx context.Context, q *entity.Question, choices []*entity.Choice) error {
	tx, err := repo.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("CreateWithChoices: BeginTx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var questionID int64
	if err := tx.QueryRowContext(ctx, `
INSERT INTO polls_question (question_text, pub_date)
VALUES ($1, $2)
RETURNING id`, q.QuestionText, q.PubDate).Scan(&questionID); err != nil {
		return fmt.Errorf("CreateWithChoices: question: %w", err)
	}

	choiceIDs := make([]int64, len(choices))
	for i, c := range choices {
		if err := tx.QueryRowContext(ctx, `
INSERT INTO polls_choice (question_id, choice_text, votes)
VALUES ($1, $2, $3)
RETURNING id`, questionID, c.ChoiceText, c.Votes).Scan(&choiceIDs[i]); err != nil {
			return fmt.Errorf("CreateWithChoices: choice %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("CreateWithChoices: Commit: %w", err)
	}
	q.ID = questionID
	for i, c := range choices {
		c.ID = choiceIDs[i]
		c.QuestionID = questionID
	}
	return nil
}

// Delete removes the choices and then the question in one transaction.
// It returns entity.ErrNotFound when no question has the given id.
func (repo *QuestionRepo) Delete(ctx context.Context, id int64) error {
	tx, err := repo.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("Delete: BeginTx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM polls_choice WHERE question_id = $1`, id); err != nil {
		return fmt.Errorf("Delete: choices: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM polls_question WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("Delete: RowsAffected: %w", err)
	}
	if n == 0 {
		return entity.ErrNotFound
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("Delete: Commit: %w", err)
	}
	return nil
}
