package metrics

import (
	"strconv"
	"time"
)

// Vote outcome labels for VotesTotal.
const (
	VoteSuccess       = "success"
	VoteInvalidChoice = "invalid_choice"
	VoteFailure       = "failure"
)

// RecordHTTPRequest records an HTTP request with its metadata.
func RecordHTTPRequest(method, path string, status int, duration time.Duration, responseSize int) {
	code := strconv.Itoa(status)
	HTTPRequestsTotal.WithLabelValues(method, path, code).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
	if responseSize > 0 {
		HTTPResponseSize.WithLabelValues(method, path).Observe(float64(responseSize))
	}
}

// RecordRateLimited records a request rejected by the named limiter.
func RecordRateLimited(limiter string) {
	RateLimitedTotal.WithLabelValues(limiter).Inc()
}

// RecordIndexRender records one index listing with the given number of questions.
func RecordIndexRender(count int) {
	result := "listed"
	if count == 0 {
		result = "empty"
	}
	IndexRendersTotal.WithLabelValues(result).Inc()
}

// RecordVote records the outcome of a vote attempt.
func RecordVote(status string) {
	VotesTotal.WithLabelValues(status).Inc()
}

// UpdateQuestionsTotal sets the stored question count.
// The worker refreshes this gauge on its cron schedule.
func UpdateQuestionsTotal(count int64) {
	QuestionsTotal.Set(float64(count))
}

// UpdateQuestionsPublishedRecently sets the count of questions published within the last day.
func UpdateQuestionsPublishedRecently(count int64) {
	QuestionsPublishedRecently.Set(float64(count))
}

// RecordDBQuery records the duration of a database query operation.
// Operation should describe the query, e.g. "list_published", "increment_votes".
func RecordDBQuery(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// UpdateDBConnectionStats updates database connection pool statistics.
func UpdateDBConnectionStats(active, idle int) {
	DBConnectionsActive.Set(float64(active))
	DBConnectionsIdle.Set(float64(idle))
}
