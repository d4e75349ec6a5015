package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, g.Write(&m))
	return m.GetGauge().GetValue()
}

func TestRecordIndexRender(t *testing.T) {
	listed := IndexRendersTotal.WithLabelValues("listed")
	empty := IndexRendersTotal.WithLabelValues("empty")
	beforeListed := counterValue(t, listed)
	beforeEmpty := counterValue(t, empty)

	RecordIndexRender(3)
	RecordIndexRender(0)
	RecordIndexRender(0)

	assert.Equal(t, beforeListed+1, counterValue(t, listed))
	assert.Equal(t, beforeEmpty+2, counterValue(t, empty))
}

func TestRecordVote(t *testing.T) {
	c := VotesTotal.WithLabelValues(VoteInvalidChoice)
	before := counterValue(t, c)

	RecordVote(VoteInvalidChoice)

	assert.Equal(t, before+1, counterValue(t, c))
}

func TestUpdateQuestionGauges(t *testing.T) {
	UpdateQuestionsTotal(12)
	UpdateQuestionsPublishedRecently(2)

	assert.Equal(t, 12.0, gaugeValue(t, QuestionsTotal))
	assert.Equal(t, 2.0, gaugeValue(t, QuestionsPublishedRecently))
}

func TestUpdateDBConnectionStats(t *testing.T) {
	UpdateDBConnectionStats(4, 6)

	assert.Equal(t, 4.0, gaugeValue(t, DBConnectionsActive))
	assert.Equal(t, 6.0, gaugeValue(t, DBConnectionsIdle))
}

func TestRecordHTTPRequest(t *testing.T) {
	c := HTTPRequestsTotal.WithLabelValues("GET", "/polls/:id", "200")
	before := counterValue(t, c)

	RecordHTTPRequest("GET", "/polls/:id", 200, 15*time.Millisecond, 512)

	assert.Equal(t, before+1, counterValue(t, c))
}

func TestRecordDBQuery(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordDBQuery("list_published", 3*time.Millisecond)
	})
}
