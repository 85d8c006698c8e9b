// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	EligibilityRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eligibility_runs_total",
			Help: "Total number of eligibility scoring runs",
		},
		[]string{"program_category", "outcome"},
	)

	EligibilityProductsEvaluated = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "eligibility_products_evaluated",
			Help:    "Number of catalog products evaluated per run",
			Buckets: []float64{0, 5, 10, 25, 50, 100, 250},
		},
		[]string{"program_category"},
	)

	EligibilityProductsPassed = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "eligibility_products_passed",
			Help:    "Number of products that passed the hard filter per run",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50},
		},
		[]string{"program_category"},
	)
)
