package question

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"mysite/internal/common/pagination"
	"mysite/internal/domain/entity"
	"mysite/internal/observability/metrics"
	"mysite/internal/observability/tracing"
	"mysite/internal/repository"
)

// DefaultIndexLimit is the number of questions shown on the index page.
const DefaultIndexLimit = 5

// Service provides question use cases.
// Now and IndexLimit are optional; zero values mean time.Now and DefaultIndexLimit.
type Service struct {
	Repo       repository.QuestionRepository
	Choices    repository.ChoiceRepository
	Now        func() time.Time
	IndexLimit int
}

// CreateInput represents the input parameters for creating a question.
// When PubDate is nil the publication date is now shifted by DaysAfterPublished days.
type CreateInput struct {
	QuestionText       string
	PubDate            *time.Time
	DaysAfterPublished int
	Choices            []string
}

// QuestionWithChoices is a question together with its choices in ID order.
type QuestionWithChoices struct {
	Question *entity.Question
	Choices  []*entity.Choice
}

// PaginatedResult represents the result of a paginated query.
type PaginatedResult struct {
	Data       []*entity.Question
	Pagination pagination.Metadata
}

// RecencyStats summarises stored questions for the business gauges.
type RecencyStats struct {
	Total             int64
	PublishedRecently int64
	ObservedAt        time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) indexLimit() int {
	if s.IndexLimit > 0 {
		return s.IndexLimit
	}
	return DefaultIndexLimit
}

// LatestPublished returns the most recently published questions, newest first.
// Questions dated in the future are excluded. The result is never nil.
func (s *Service) LatestPublished(ctx context.Context) ([]*entity.Question, error) {
	ctx, span := tracing.StartSpan(ctx, "question.LatestPublished")
	defer span.End()

	start := time.Now()
	questions, err := s.Repo.ListPublished(ctx, s.now(), s.indexLimit())
	metrics.RecordDBQuery("list_published", time.Since(start))
	if err != nil {
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("list published questions: %w", err)
	}
	if questions == nil {
		questions = []*entity.Question{}
	}
	span.SetAttributes(attribute.Int("questions.count", len(questions)))
	return questions, nil
}

// GetPublished retrieves a question that is visible at the current time.
// Returns ErrInvalidQuestionID if the ID is not positive.
// Returns ErrQuestionNotFound if the question does not exist or is dated in the future.
func (s *Service) GetPublished(ctx context.Context, id int64) (*entity.Question, error) {
	if id <= 0 {
		return nil, ErrInvalidQuestionID
	}

	q, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get question: %w", err)
	}
	if q == nil || !q.IsPublishedAt(s.now()) {
		return nil, ErrQuestionNotFound
	}
	return q, nil
}

// Detail loads a published question and its choices.
// The question and the choices are fetched concurrently.
func (s *Service) Detail(ctx context.Context, id int64) (*QuestionWithChoices, error) {
	ctx, span := tracing.StartSpan(ctx, "question.Detail", attribute.Int64("question.id", id))
	defer span.End()

	if id <= 0 {
		return nil, ErrInvalidQuestionID
	}

	var (
		q       *entity.Question
		choices []*entity.Choice
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		q, err = s.GetPublished(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		choices, err = s.Choices.ListByQuestion(gctx, id)
		if err != nil {
			return fmt.Errorf("list choices: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		if !errors.Is(err, ErrQuestionNotFound) {
			tracing.RecordError(span, err)
		}
		return nil, err
	}

	if choices == nil {
		choices = []*entity.Choice{}
	}
	return &QuestionWithChoices{Question: q, Choices: choices}, nil
}

// Get retrieves any question by ID, including ones dated in the future.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Question, error) {
	if id <= 0 {
		return nil, ErrInvalidQuestionID
	}

	q, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get question: %w", err)
	}
	if q == nil {
		return nil, ErrQuestionNotFound
	}
	return q, nil
}

// WasPublishedRecently reports whether the question was published within the last day.
func (s *Service) WasPublishedRecently(ctx context.Context, id int64) (bool, error) {
	q, err := s.Get(ctx, id)
	if err != nil {
		return false, err
	}
	return q.WasPublishedWithinDayAt(s.now()), nil
}

// Create validates the input and stores the question and its choices atomically.
func (s *Service) Create(ctx context.Context, in CreateInput) (*QuestionWithChoices, error) {
	if err := entity.ValidateQuestionText(in.QuestionText); err != nil {
		return nil, err
	}
	for _, text := range in.Choices {
		if err := entity.ValidateChoiceText(text); err != nil {
			return nil, err
		}
	}

	pubDate := s.now().AddDate(0, 0, in.DaysAfterPublished)
	if in.PubDate != nil {
		pubDate = *in.PubDate
	}

	q := &entity.Question{QuestionText: in.QuestionText, PubDate: pubDate}
	choices := make([]*entity.Choice, 0, len(in.Choices))
	for _, text := range in.Choices {
		choices = append(choices, &entity.Choice{ChoiceText: text})
	}
	if err := s.Repo.CreateWithChoices(ctx, q, choices); err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}
	return &QuestionWithChoices{Question: q, Choices: choices}, nil
}

// Delete removes a question and its choices.
// Returns ErrQuestionNotFound if the question does not exist.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidQuestionID
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return ErrQuestionNotFound
		}
		return fmt.Errorf("delete question: %w", err)
	}
	return nil
}

// ListPaginated retrieves one page of all questions, future ones included.
func (s *Service) ListPaginated(ctx context.Context, params pagination.Params) (*PaginatedResult, error) {
	total, err := s.Repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count questions: %w", err)
	}

	questions, err := s.Repo.ListPaginated(ctx, params.Offset(), params.Limit)
	if err != nil {
		return nil, fmt.Errorf("list questions paginated: %w", err)
	}

	return &PaginatedResult{
		Data:       questions,
		Pagination: pagination.NewMetadata(params, total),
	}, nil
}

// Stats counts all questions and those published within the recency window.
func (s *Service) Stats(ctx context.Context) (*RecencyStats, error) {
	now := s.now()

	total, err := s.Repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count questions: %w", err)
	}
	recent, err := s.Repo.CountPublishedSince(ctx, now.Add(-entity.RecencyWindow), now)
	if err != nil {
		return nil, fmt.Errorf("count recent questions: %w", err)
	}
	return &RecencyStats{Total: total, PublishedRecently: recent, ObservedAt: now}, nil
}
