package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"sigs.k8s.io/controller-runtime/pkg/metrics"
)

// Domain-specific metric collectors.
//
// These complement the generic controller-runtime metrics (reconcile counts,
// durations, work queue depth, etc.) with KDC state that the framework
// cannot know about.
var (
	kdcInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "kdc_operator_kdc_info",
			Help: "Info-style metric for Kdc discovery and phase tracking. Always 1.",
		},
		[]string{"name", "namespace", "phase"},
	)

	kdcReplicas = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "kdc_operator_kdc_replicas",
			Help: "KDC workload replica counts.",
		},
		[]string{"name", "namespace", "state"},
	)

	readinessWaitDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kdc_operator_readiness_wait_duration_seconds",
			Help:    "Time spent waiting for a KDC workload to become ready, in seconds.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 45, 60, 90},
		},
		[]string{"result"},
	)

	teardownTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kdc_operator_teardown_total",
			Help: "Per-kind outcomes of KDC teardown.",
		},
		[]string{"kind", "outcome"},
	)

	operatorInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "kdc_operator_operator_info",
			Help: "Info-style metric for the running operator. Always 1.",
		},
		[]string{"crd_version"},
	)
)

func init() {
	metrics.Registry.MustRegister(Collectors()...)
}

// Collectors returns all registered metric collectors. This is useful for
// testing that metrics are properly registered.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		kdcInfo,
		kdcReplicas,
		readinessWaitDuration,
		teardownTotal,
		operatorInfo,
	}
}
