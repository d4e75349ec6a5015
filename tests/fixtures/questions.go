// Package fixtures provides reusable data factories for integration tests.
package fixtures

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"mysite/internal/domain/entity"
	"mysite/internal/infra/db"
	"mysite/internal/repository"
)

// CreateQuestion stores a question whose pub_date is now shifted by
// daysAfterPublished days: negative for questions published in the past,
// positive for questions yet to be published.
func CreateQuestion(ctx context.Context, repo repository.QuestionRepository, text string, daysAfterPublished int, now time.Time) (*entity.Question, error) {
	q := &entity.Question{
		QuestionText: text,
		PubDate:      now.AddDate(0, 0, daysAfterPublished),
	}
	if err := repo.Create(ctx, q); err != nil {
		return nil, fmt.Errorf("create question %q: %w", text, err)
	}
	return q, nil
}

// CreateChoices stores one choice per text for the given question.
func CreateChoices(ctx context.Context, repo repository.ChoiceRepository, questionID int64, texts ...string) ([]*entity.Choice, error) {
	choices := make([]*entity.Choice, 0, len(texts))
	for _, text := range texts {
		c := &entity.Choice{QuestionID: questionID, ChoiceText: text}
		if err := repo.Create(ctx, c); err != nil {
			return nil, fmt.Errorf("create choice %q: %w", text, err)
		}
		choices = append(choices, c)
	}
	return choices, nil
}

// OpenSQLite returns a migrated in-memory SQLite database.
func OpenSQLite(ctx context.Context) (*sql.DB, error) {
	conn, err := db.Open(ctx, db.DriverSQLite, ":memory:", db.DefaultConnectionConfig())
	if err != nil {
		return nil, err
	}
	if err := db.MigrateUp(ctx, conn, db.DriverSQLite); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return conn, nil
}
