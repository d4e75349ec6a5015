// Package resilience groups the fault tolerance helpers used around storage.
//
//   - circuitbreaker wraps the SQL handle so a failing database is not hammered
//   - retry re-runs transient write failures with exponential backoff and jitter
//
// Usage Example:
//
//	guarded := circuitbreaker.NewDBCircuitBreaker(sqlDB)
//	repo := postgres.NewChoiceRepo(guarded)
//
//	err := retry.WithBackoff(ctx, retry.VoteConfig(), func() error {
//	    _, err := repo.IncrementVotes(ctx, questionID, choiceID)
//	    return err
//	})
package resilience
