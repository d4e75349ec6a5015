// Package sqlite provides SQLite implementations of the repository interfaces.
// Timestamps are stored as fixed-width UTC text (see timeLayout) so that
// comparisons and ORDER BY on pub_date follow chronological order.
package sqlite

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

const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse pub_date %q: %w", s, err)
	}
	return t, nil
}

// QuestionRepo implements the QuestionRepository interface using SQLite.
type QuestionRepo struct{ db db.DBTX }

// NewQuestionRepo creates a new SQLite-backed question repository.
func NewQuestionRepo(conn db.DBTX) repository.QuestionRepository {
	return &QuestionRepo{db: conn}
}

// ListPublished retrieves up to limit questions published at or before asOf, newest first.
func (repo *QuestionRepo) ListPublished(ctx context.Context, asOf time.Time, limit int) ([]*entity.Question, error) {
	const query = `
SELECT id, question_text, pub_date
FROM polls_question
WHERE pub_date <= ?
ORDER BY pub_date DESC
LIMIT ?
`
	rows, err := repo.db.QueryContext(ctx, query, formatTime(asOf), limit)
	if err != nil {
		return nil, fmt.Errorf("ListPublished: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	questions, err := scanQuestions(rows, limit)
	if err != nil {
		return nil, fmt.Errorf("ListPublished: %w", err)
	}
	return questions, nil
}

// ListPaginated retrieves a page of all questions, newest first.
func (repo *QuestionRepo) ListPaginated(ctx context.Context, offset, limit int) ([]*entity.Question, error) {
	const query = `
SELECT id, question_text, pub_date
FROM polls_question
ORDER BY pub_date DESC, id DESC
LIMIT ? OFFSET ?
`
	rows, err := repo.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ListPaginated: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	questions, err := scanQuestions(rows, limit)
	if err != nil {
		return nil, fmt.Errorf("ListPaginated: %w", err)
	}
	return questions, nil
}

// Count returns the total number of questions.
func (repo *QuestionRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := repo.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM polls_question`).Scan(&count); err != nil {
		return 0, fmt.Errorf("Count: %w", err)
	}
	return count, nil
}

// CountPublishedSince counts questions with from < pub_date <= to.
func (repo *QuestionRepo) CountPublishedSince(ctx context.Context, from, to time.Time) (int64, error) {
	const query = `SELECT COUNT(*) FROM polls_question WHERE pub_date > ? AND pub_date <= ?`
	var count int64
	if err := repo.db.QueryRowContext(ctx, query, formatTime(from), formatTime(to)).Scan(&count); err != nil {
		return 0, fmt.Errorf("CountPublishedSince: %w", err)
	}
	return count, nil
}

// Get retrieves a question by ID. Returns nil if not found.
func (repo *QuestionRepo) Get(ctx context.Context, id int64) (*entity.Question, error) {
	const query = `
SELECT id, question_text, pub_date
FROM polls_question
WHERE id = ?
LIMIT 1
`
	var q entity.Question
	var pubDate string
	err := repo.db.QueryRowContext(ctx, query, id).Scan(&q.ID, &q.QuestionText, &pubDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	if q.PubDate, err = parseTime(pubDate); err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return &q, nil
}

// Create inserts a new question and sets its ID.
func (repo *QuestionRepo) Create(ctx context.Context, q *entity.Question) error {
	const query = `INSERT INTO polls_question (question_text, pub_date) VALUES (?, ?)`
	res, err := repo.db.ExecContext(ctx, query, q.QuestionText, formatTime(q.PubDate))
	if err != nil {
		return fmt.Errorf("Create: ExecContext: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("Create: LastInsertId: %w", err)
	}
	q.ID = id
	return nil
}

// CreateWithChoices inserts the question and its choices in one transaction.
func (repo *QuestionRepo) CreateWithChoices(ctx context.Context, q *entity.Question, choices []*entity.Choice) error {
	tx, err := repo.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("CreateWithChoices: BeginTx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO polls_question (question_text, pub_date) VALUES (?, ?)`,
		q.QuestionText, formatTime(q.PubDate))
	if err != nil {
		return fmt.Errorf("CreateWithChoices: question: %w", err)
	}
	questionID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("CreateWithChoices: LastInsertId: %w", err)
	}

	choiceIDs := make([]int64, len(choices))
	for i, c := range choices {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO polls_choice (question_id, choice_text, votes) VALUES (?, ?, ?)`,
			questionID, c.ChoiceText, c.Votes)
		if err != nil {
			return fmt.Errorf("CreateWithChoices: choice %d: %w", i, err)
		}
		if choiceIDs[i], err = res.LastInsertId(); err != nil {
			return fmt.Errorf("CreateWithChoices: choice %d: LastInsertId: %w", i, err)
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

// Delete removes a question and its choices in one transaction.
func (repo *QuestionRepo) Delete(ctx context.Context, id int64) error {
	tx, err := repo.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("Delete: BeginTx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM polls_choice WHERE question_id = ?`, id); err != nil {
		return fmt.Errorf("Delete: choices: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM polls_question WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("Delete: ExecContext: %w", err)
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

func scanQuestions(rows *sql.Rows, capacity int) ([]*entity.Question, error) {
	questions := make([]*entity.Question, 0, capacity)
	for rows.Next() {
		var q entity.Question
		var pubDate string
		if err := rows.Scan(&q.ID, &q.QuestionText, &pubDate); err != nil {
			return nil, fmt.Errorf("Scan: %w", err)
		}
		t, err := parseTime(pubDate)
		if err != nil {
			return nil, err
		}
		q.PubDate = t
		questions = append(questions, &q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}
	return questions, nil
}
