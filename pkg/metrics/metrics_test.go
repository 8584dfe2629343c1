package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, vec *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, vec.WithLabelValues(labels...).Write(m))
	return m.GetCounter().GetValue()
}

func TestRecordAccept(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewEngineMetrics(reg)

	m.RecordAccept(10 * time.Millisecond)

	assert.Equal(t, float64(1), counterValue(t, m.EvaluationsTotal, string(OutcomeAccept), ""))
}

func TestRecordReject(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewEngineMetrics(reg)

	m.RecordReject("InvalidField", 5*time.Millisecond)
	m.RecordReject("InvalidField", 5*time.Millisecond)

	assert.Equal(t, float64(2), counterValue(t, m.EvaluationsTotal, string(OutcomeReject), "InvalidField"))
}

func TestRecordFieldsVisited(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewEngineMetrics(reg)

	m.RecordFieldsVisited(3)
	m.RecordFieldsVisited(4)

	out := &dto.Metric{}
	require.NoError(t, m.FieldsVisitedTotal.Write(out))
	assert.Equal(t, float64(7), out.GetCounter().GetValue())
}
