package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNewMetricsForTesting_Independent(t *testing.T) {
	a := NewMetricsForTesting()
	b := NewMetricsForTesting()

	a.GradeFallbacks.WithLabelValues("unrecognized").Inc()
	a.MessagesConsumed.Add(3)

	assert.InDelta(t, 1, testutil.ToFloat64(a.GradeFallbacks.WithLabelValues("unrecognized")), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(a.MessagesConsumed), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(b.MessagesConsumed), 0)
}

func TestMetrics_ShiftOutcomes(t *testing.T) {
	m := NewMetricsForTesting()

	m.ShiftCalculations.WithLabelValues("applied").Inc()
	m.ShiftCalculations.WithLabelValues("applied").Inc()
	m.ShiftCalculations.WithLabelValues("failed").Inc()

	assert.Equal(t, 2, testutil.CollectAndCount(m.ShiftCalculations))
	assert.InDelta(t, 2, testutil.ToFloat64(m.ShiftCalculations.WithLabelValues("applied")), 0)
}
