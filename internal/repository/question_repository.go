// Package repository declares the storage contracts used by the use case layer.
// Implementations live under internal/infra/adapter/persistence.
package repository

import (
	"context"
	"time"

	"mysite/internal/domain/entity"
)

type QuestionRepository interface {
	// ListPublished returns questions whose pub_date is at or before asOf,
	// ordered by pub_date descending and truncated to limit rows.
	ListPublished(ctx context.Context, asOf time.Time, limit int) ([]*entity.Question, error)
	// ListPaginated returns every question, including unpublished ones,
	// ordered by pub_date descending.
	ListPaginated(ctx context.Context, offset, limit int) ([]*entity.Question, error)
	// Count returns the total number of stored questions.
	Count(ctx context.Context) (int64, error)
	// CountPublishedSince returns the number of questions with from < pub_date <= to.
	CountPublishedSince(ctx context.Context, from, to time.Time) (int64, error)
	// Get returns (nil, nil) when the question does not exist.
	Get(ctx context.Context, id int64) (*entity.Question, error)
	// Create stores the question and sets its ID.
	Create(ctx context.Context, q *entity.Question) error
	// CreateWithChoices stores the question and its choices in one transaction,
	// setting every ID and each choice's QuestionID. Nothing is stored on error.
	CreateWithChoices(ctx context.Context, q *entity.Question, choices []*entity.Choice) error
	// Delete removes the question together with its choices.
	// It returns entity.ErrNotFound when the question does not exist.
	Delete(ctx context.Context, id int64) error
}
