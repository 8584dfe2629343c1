// Package metrics provides Prometheus instrumentation for the evaluation
// engine, exposed via an HTTP handler for scraping.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	metricsNamespace = "andromeda"
	evaluationSubsys = "evaluation"
)

// Outcome labels an evaluation result for the EvaluationsTotal counter.
type Outcome string

const (
	// OutcomeAccept labels a successful evaluation.
	OutcomeAccept Outcome = "accept"
	// OutcomeReject labels an evaluation that produced a Diagnostic.
	OutcomeReject Outcome = "reject"
)

// EngineMetrics holds the Prometheus collectors for one evaluation engine
// instance. Construct once via NewEngineMetrics and share across
// evaluations.
type EngineMetrics struct {
	// EvaluationsTotal counts completed evaluations by outcome and, for
	// rejections, the diagnostic kind.
	EvaluationsTotal *prometheus.CounterVec

	// EvaluationDurationSeconds observes wall-clock time spent inside
	// Evaluate.
	EvaluationDurationSeconds prometheus.Histogram

	// FieldsVisitedTotal counts the number of fields the evaluator
	// visited across all evaluations, useful for gauging graph size.
	FieldsVisitedTotal prometheus.Counter
}

// NewEngineMetrics registers a fresh set of collectors with reg. Passing
// prometheus.NewRegistry() isolates metrics per test; passing
// prometheus.DefaultRegisterer wires into the process-wide /metrics
// endpoint.
func NewEngineMetrics(reg prometheus.Registerer) *EngineMetrics {
	factory := promauto.With(reg)
	return &EngineMetrics{
		EvaluationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: evaluationSubsys,
				Name:      "evaluations_total",
				Help:      "Total number of completed evaluations by outcome and diagnostic kind",
			},
			[]string{"outcome", "kind"},
		),
		EvaluationDurationSeconds: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: evaluationSubsys,
				Name:      "duration_seconds",
				Help:      "Time spent inside one Evaluate call",
				Buckets:   prometheus.DefBuckets,
			},
		),
		FieldsVisitedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: evaluationSubsys,
				Name:      "fields_visited_total",
				Help:      "Total number of fields visited across all evaluations",
			},
		),
	}
}

// RecordAccept records a successful evaluation of the given duration.
func (m *EngineMetrics) RecordAccept(d time.Duration) {
	m.EvaluationsTotal.WithLabelValues(string(OutcomeAccept), "").Inc()
	m.EvaluationDurationSeconds.Observe(d.Seconds())
}

// RecordReject records a failed evaluation, labeling the counter with the
// diagnostic kind (e.g. "InvalidField", "CyclicRequirement").
func (m *EngineMetrics) RecordReject(kind string, d time.Duration) {
	m.EvaluationsTotal.WithLabelValues(string(OutcomeReject), kind).Inc()
	m.EvaluationDurationSeconds.Observe(d.Seconds())
}

// RecordFieldsVisited adds n to the fields-visited counter.
func (m *EngineMetrics) RecordFieldsVisited(n int) {
	m.FieldsVisitedTotal.Add(float64(n))
}
