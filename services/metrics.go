package services

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SubmissionMetrics tracks trip submission outcomes per step.
type SubmissionMetrics struct {
	submissions *prometheus.CounterVec
	stepErrors  *prometheus.CounterVec
}

var (
	submissionMetrics     *SubmissionMetrics
	submissionMetricsOnce sync.Once
)

// GetSubmissionMetrics returns the process-wide submission metrics.
// Registration happens once; repeated calls share the same collectors.
func GetSubmissionMetrics() *SubmissionMetrics {
	submissionMetricsOnce.Do(func() {
		submissionMetrics = &SubmissionMetrics{
			submissions: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "triplog_trip_submissions_total",
				Help: "Total number of trip submissions by outcome",
			}, []string{"outcome"}),
			stepErrors: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "triplog_trip_submission_step_errors_total",
				Help: "Total number of non-fatal submission step failures",
			}, []string{"step"}),
		}
	})
	return submissionMetrics
}

// RecordOutcome counts a completed submission. Outcome is one of
// "success", "partial" or "failed".
func (m *SubmissionMetrics) RecordOutcome(outcome string) {
	m.submissions.WithLabelValues(outcome).Inc()
}

// RecordStepError counts a non-fatal step failure. Step is one of
// "destinations", "images" or "review".
func (m *SubmissionMetrics) RecordStepError(step string) {
	m.stepErrors.WithLabelValues(step).Inc()
}
