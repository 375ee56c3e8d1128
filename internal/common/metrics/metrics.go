// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loan_submissions_total",
			Help: "Total number of loan submissions by outcome",
		},
		[]string{"outcome"},
	)

	StageFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loan_stage_failures_total",
			Help: "Total number of stage call failures",
		},
		[]string{"stage", "kind"},
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "loan_stage_duration_seconds",
			Help: "Duration of stage calls in seconds",
		},
		[]string{"stage"},
	)

	DecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loan_decisions_total",
			Help: "Total number of decisions by result",
		},
		[]string{"approved"},
	)
)
