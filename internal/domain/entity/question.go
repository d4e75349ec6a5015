// Package entity defines the core domain entities and validation logic for the polls application.
// It contains the fundamental business objects such as Question and Choice, along with
// their validation rules and domain-specific errors.
package entity

import "time"

// RecencyWindow is the span of time before now during which a question
// counts as recently published.
const RecencyWindow = 24 * time.Hour

// Question represents a poll question.
// PubDate is the moment the question becomes eligible for display; it may lie in the future.
type Question struct {
	ID           int64
	QuestionText string
	PubDate      time.Time
}

// WasPublishedWithinDay reports whether the question was published within
// the last day, measured against the current wall-clock time.
func (q *Question) WasPublishedWithinDay() bool {
	return q.WasPublishedWithinDayAt(time.Now())
}

// WasPublishedWithinDayAt reports whether now-24h < PubDate <= now.
// Questions dated in the future are never recent.
func (q *Question) WasPublishedWithinDayAt(now time.Time) bool {
	return q.PubDate.After(now.Add(-RecencyWindow)) && !q.PubDate.After(now)
}

// IsPublishedAt reports whether the question is visible at the given time.
func (q *Question) IsPublishedAt(now time.Time) bool {
	return !q.PubDate.After(now)
}

// String returns the question text.
func (q *Question) String() string {
	return q.QuestionText
}
