package metrics

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/push"
)

const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Config of the optional Pushgateway export. Metrics are only pushed when PushgatewayURL is set.
type Config struct {
	PushgatewayURL string `mapstructure:"pushgateway_url"`
	Job            string `mapstructure:"job"`
}

// Metrics contains all metric groups of a workflow run
type Metrics struct {
	Workflow *WorkflowMetrics

	registry *prometheus.Registry
}

// New creates a registry with every metric group registered.
// chainId is used as the chain_id label value for all metrics
func New(chainId string) *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		Workflow: NewWorkflowMetrics(constLabels(chainId)),
		registry: registry,
	}
	m.Workflow.Register(registry)
	registry.MustRegister(collectors.NewGoCollector())
	return m
}

func constLabels(chainId string) prometheus.Labels {
	if chainId == "" {
		return nil
	}
	return prometheus.Labels{"chain_id": chainId}
}

// Registry returns the registry the metric groups are registered with.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveStage records the duration and outcome of a single workflow stage.
func (m *Metrics) ObserveStage(stage string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	status := StatusSuccess
	if err != nil {
		status = StatusFailure
		m.Workflow.StageFailures.WithLabelValues(stage).Inc()
	}
	m.Workflow.StageDuration.WithLabelValues(stage, status).Observe(duration.Seconds())
}

// ObserveRun records the outcome of a whole workflow run.
func (m *Metrics) ObserveRun(err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.Workflow.RunsTotal.WithLabelValues(StatusFailure).Inc()
		return
	}
	m.Workflow.RunsTotal.WithLabelValues(StatusSuccess).Inc()
	m.Workflow.LastSuccess.SetToCurrentTime()
}

// Push sends every collected metric to the Pushgateway, replacing the metrics of the same job.
func (m *Metrics) Push(ctx context.Context, cfg Config) error {
	if m == nil || cfg.PushgatewayURL == "" {
		return nil
	}
	job := cfg.Job
	if job == "" {
		job = "mintflow"
	}
	if err := push.New(cfg.PushgatewayURL, job).Gatherer(m.registry).PushContext(ctx); err != nil {
		return errors.Wrapf(err, "can't push metrics to %s", cfg.PushgatewayURL)
	}
	return nil
}
