// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StepsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bid_steps_completed_total",
			Help: "Total number of pipeline steps completed",
		},
		[]string{"step"},
	)

	StepsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bid_steps_failed_total",
			Help: "Total number of pipeline steps that ended in error",
		},
		[]string{"step", "error_code"},
	)

	StepDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "bid_step_duration_seconds",
			Help: "Duration of pipeline step execution in seconds",
		},
		[]string{"step"},
	)

	WorkflowsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bid_workflows_started_total",
			Help: "Total number of bid workflows started",
		},
	)

	WorkflowsCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bid_workflows_completed_total",
			Help: "Total number of bid workflows that produced a final bid",
		},
	)
)
