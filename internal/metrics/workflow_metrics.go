package metrics

import "github.com/prometheus/client_golang/prometheus"

// WorkflowMetrics groups stage and run metrics
type WorkflowMetrics struct {
	StageDuration *prometheus.HistogramVec
	StageFailures *prometheus.CounterVec

	RunsTotal   *prometheus.CounterVec
	LastSuccess prometheus.Gauge
}

// NewWorkflowMetrics creates and returns workflow metrics
func NewWorkflowMetrics(labels prometheus.Labels) *WorkflowMetrics {
	return &WorkflowMetrics{
		StageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "mintflow_stage_duration_seconds",
				Help:        "Duration of workflow stages",
				Buckets:     []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
				ConstLabels: labels,
			},
			[]string{"stage", "status"},
		),
		StageFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "mintflow_stage_failures_total",
				Help:        "Total number of failed workflow stages",
				ConstLabels: labels,
			},
			[]string{"stage"},
		),
		RunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "mintflow_runs_total",
				Help:        "Total number of workflow runs by status",
				ConstLabels: labels,
			},
			[]string{"status"},
		),
		LastSuccess: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name:        "mintflow_last_success_timestamp_seconds",
				Help:        "Unix time of the last successful workflow run",
				ConstLabels: labels,
			},
		),
	}
}

// Register registers all workflow metrics with the given registry
func (w *WorkflowMetrics) Register(reg *prometheus.Registry) {
	reg.MustRegister(
		w.StageDuration,
		w.StageFailures,
		w.RunsTotal,
		w.LastSuccess,
	)
}
