// Package vote records votes for the choices of published questions.
package vote

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"mysite/internal/domain/entity"
	"mysite/internal/observability/metrics"
	"mysite/internal/observability/tracing"
	"mysite/internal/repository"
	"mysite/internal/resilience/retry"
)

// ErrChoiceNotSelected indicates that no choice, or a choice that does not
// belong to the question, was submitted.
var ErrChoiceNotSelected = errors.New("you didn't select a choice")

// QuestionFinder looks up questions visible to voters.
type QuestionFinder interface {
	GetPublished(ctx context.Context, id int64) (*entity.Question, error)
}

// Service records votes. Retry defaults to retry.VoteConfig when zero.
type Service struct {
	Questions QuestionFinder
	Choices   repository.ChoiceRepository
	Retry     retry.Config
}

func (s *Service) retryConfig() retry.Config {
	if s.Retry.MaxAttempts > 0 {
		return s.Retry
	}
	return retry.VoteConfig()
}

// Vote adds one vote to choiceID of question questionID.
// Errors from the question lookup are returned unchanged, so callers can match
// question.ErrQuestionNotFound. A choiceID <= 0 or a choice of another
// question yields ErrChoiceNotSelected. Transient storage failures are retried.
func (s *Service) Vote(ctx context.Context, questionID, choiceID int64) error {
	ctx, span := tracing.StartSpan(ctx, "vote.Vote",
		attribute.Int64("question.id", questionID),
		attribute.Int64("choice.id", choiceID))
	defer span.End()

	if _, err := s.Questions.GetPublished(ctx, questionID); err != nil {
		return err
	}
	if choiceID <= 0 {
		metrics.RecordVote(metrics.VoteInvalidChoice)
		return ErrChoiceNotSelected
	}

	var counted bool
	err := retry.WithBackoff(ctx, s.retryConfig(), func() error {
		var err error
		counted, err = s.Choices.IncrementVotes(ctx, questionID, choiceID)
		return err
	})
	if err != nil {
		metrics.RecordVote(metrics.VoteFailure)
		tracing.RecordError(span, err)
		return fmt.Errorf("record vote: %w", err)
	}
	if !counted {
		metrics.RecordVote(metrics.VoteInvalidChoice)
		return ErrChoiceNotSelected
	}

	metrics.RecordVote(metrics.VoteSuccess)
	return nil
}
