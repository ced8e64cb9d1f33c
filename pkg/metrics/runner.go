package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RunnerMetrics records metadata for maintenance runner executions.
type RunnerMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
	records  *prometheus.CounterVec
}

// NewRunnerMetrics registers the runner metrics on the provided registerer.
func NewRunnerMetrics(reg prometheus.Registerer) *RunnerMetrics {
	if reg == nil {
		return &RunnerMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "runner_duration_seconds",
		Help:    "Duration of maintenance runners in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"runner"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "runner_success",
		Help: "Successful runner executions.",
	}, []string{"runner"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "runner_failure",
		Help: "Failed runner executions.",
	}, []string{"runner"})
	records := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "runner_records_total",
		Help: "Records handled by runners, labelled by outcome.",
	}, []string{"runner", "outcome"})
	reg.MustRegister(duration, success, failure, records)
	return &RunnerMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
		records:  records,
	}
}

// ObserveDuration records the duration for the named runner.
func (m *RunnerMetrics) ObserveDuration(runner string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(runner)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named runner.
func (m *RunnerMetrics) IncSuccess(runner string) {
	if m == nil || m.success == nil {
		return
	}
	m.success.WithLabelValues(normalizeLabel(runner)).Inc()
}

// IncFailure increments the failure counter for the named runner.
func (m *RunnerMetrics) IncFailure(runner string) {
	if m == nil || m.failure == nil {
		return
	}
	m.failure.WithLabelValues(normalizeLabel(runner)).Inc()
}

// AddRecords adds to the record counter for a runner and outcome, e.g.
// ("backfill-businesses", "linked") or ("scrub-users", "modified").
func (m *RunnerMetrics) AddRecords(runner, outcome string, n int) {
	if m == nil || m.records == nil || n <= 0 {
		return
	}
	m.records.WithLabelValues(normalizeLabel(runner), normalizeLabel(outcome)).Add(float64(n))
}

func normalizeLabel(label string) string {
	if label == "" {
		return "unknown"
	}
	return label
}
