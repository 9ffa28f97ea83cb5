package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.IncrementSubmitted()
	m.IncrementSubmitted()
	m.IncrementConflict()
	m.IncrementTransition("Accepted")
	m.IncrementNotificationFailed()
	m.ObserveRequest("/postular/{vacancyId}", "POST", 201, time.Now())

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ApplicationsSubmitted))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ApplicationConflicts))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StatusTransitions.WithLabelValues("Accepted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsFailed))

	count, err := testutil.GatherAndCount(reg, "jobboard_http_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncrementSubmitted()
		m.IncrementTransition("Rejected")
		m.ObserveRequest("/", "GET", 200, time.Now())
	})
}
