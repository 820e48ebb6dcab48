// Package metrics exports provisioning transitions as Prometheus metrics.
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/tendant/content-provisioning/pkg/provisioning"
)

const (
	// MetricsNamespace is the namespace for all provisioning metrics.
	MetricsNamespace = "content"

	// MetricsSubsystem is the subsystem for provisioning metrics.
	MetricsSubsystem = "provisioning"
)

// Outcome label values
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics implements provisioning.Observer.
type Metrics struct {
	OperationsTotal   *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	FailuresTotal     *prometheus.CounterVec
	TransitionsTotal  *prometheus.CounterVec
	ProbedBytes       prometheus.Histogram
}

// New creates and registers the provisioning metrics. A nil registerer means
// prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		OperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: MetricsNamespace,
				Subsystem: MetricsSubsystem,
				Name:      "operations_total",
				Help:      "Provision and create calls by operation, outcome and content type.",
			},
			[]string{"op", "outcome", "content_type"},
		),
		OperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: MetricsNamespace,
				Subsystem: MetricsSubsystem,
				Name:      "operation_duration_seconds",
				Help:      "Duration of provision and create calls.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"op", "outcome"},
		),
		FailuresTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: MetricsNamespace,
				Subsystem: MetricsSubsystem,
				Name:      "failures_total",
				Help:      "Failed calls by operation and error kind.",
			},
			[]string{"op", "kind"},
		),
		TransitionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: MetricsNamespace,
				Subsystem: MetricsSubsystem,
				Name:      "transitions_total",
				Help:      "State machine transitions by stage.",
			},
			[]string{"op", "stage"},
		),
		ProbedBytes: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: MetricsNamespace,
				Subsystem: MetricsSubsystem,
				Name:      "probed_bytes",
				Help:      "Byte sizes reported by the size probe.",
				Buckets:   prometheus.ExponentialBuckets(1024, 4, 10),
			},
		),
	}
}

// Observe records t.
func (m *Metrics) Observe(_ context.Context, t provisioning.Transition) {
	m.TransitionsTotal.WithLabelValues(t.Op, string(t.Stage)).Inc()

	switch t.Stage {
	case provisioning.StageSizeProbed:
		m.ProbedBytes.Observe(float64(t.Bytes))
	case provisioning.StagePresented, provisioning.StageCreated:
		m.OperationsTotal.WithLabelValues(t.Op, OutcomeSuccess, t.ContentType).Inc()
		m.OperationDuration.WithLabelValues(t.Op, OutcomeSuccess).Observe(t.Elapsed.Seconds())
	case provisioning.StageFailed:
		m.OperationsTotal.WithLabelValues(t.Op, OutcomeFailure, t.ContentType).Inc()
		m.OperationDuration.WithLabelValues(t.Op, OutcomeFailure).Observe(t.Elapsed.Seconds())
		m.FailuresTotal.WithLabelValues(t.Op, provisioning.Kind(t.Err)).Inc()
	}
}

var _ provisioning.Observer = (*Metrics)(nil)
