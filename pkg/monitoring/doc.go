// Package monitoring provides Prometheus metrics, recording helpers and
// OpenTelemetry tracing for the KDC operator. It exposes domain-specific
// gauges, counters and histograms that complement the generic
// controller-runtime metrics already registered by the framework.
//
// All metrics follow the naming convention kdc_operator_<metric>_<unit>
// and are registered against controller-runtime's default Prometheus registry
// on import.
//
// Usage in controllers:
//
//	monitoring.SetKdcInfo(kdc.Name, kdc.Namespace, string(kdc.Status.Phase))
//	monitoring.SetKdcReplicas(kdc.Name, kdc.Namespace, desired, ready)
//
// Usage in the engine:
//
//	monitoring.ObserveReadinessWait(monitoring.ReadinessReady, elapsed)
//	monitoring.RecordTeardown("Service", monitoring.TeardownDeleted)
package monitoring
