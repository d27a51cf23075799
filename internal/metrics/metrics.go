// Package metrics registers the Prometheus collectors exposed on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Run sources.
const (
	SourceManual  = "manual"
	SourceHorizon = "horizon"
	SourceCLI     = "cli"
)

var (
	// WorkflowRuns counts generator runs by source and outcome
	// (success, validation, not_found, store).
	WorkflowRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workflow_runs_total",
			Help: "Total number of workflow generator runs",
		},
		[]string{"source", "outcome"},
	)

	TasksGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workflow_tasks_generated_total",
			Help: "Total number of tasks created by the workflow generator",
		},
		[]string{"source"},
	)

	WorkflowRunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "workflow_run_duration_seconds",
			Help:    "Workflow generator run duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"source"},
	)

	// HorizonDecisions counts horizon evaluations by reason.
	HorizonDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "horizon_decisions_total",
			Help: "Total number of horizon evaluations by decision reason",
		},
		[]string{"reason"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"method", "path", "status"},
	)
)

// RecordWorkflowRun records the outcome, size and latency of one run.
func RecordWorkflowRun(source, outcome string, created int, duration time.Duration) {
	WorkflowRuns.WithLabelValues(source, outcome).Inc()
	if created > 0 {
		TasksGenerated.WithLabelValues(source).Add(float64(created))
	}
	WorkflowRunDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// RecordHorizonDecision increments the horizon decision counter.
func RecordHorizonDecision(reason string) {
	HorizonDecisions.WithLabelValues(reason).Inc()
}

// RecordHTTPRequestDuration records one dashboard request.
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}
