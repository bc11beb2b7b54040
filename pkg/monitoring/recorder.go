package monitoring

import "time"

// Readiness wait results.
const (
	ReadinessReady   = "ready"
	ReadinessTimeout = "timeout"
	ReadinessError   = "error"
)

// Teardown outcomes per kind.
const (
	TeardownDeleted  = "deleted"
	TeardownNotFound = "not-found"
	TeardownFailed   = "failed"
)

// SetKdcInfo sets the info-style gauge for a Kdc.
// Old phase labels are automatically cleaned up via DeletePartialMatch.
func SetKdcInfo(name, namespace, phase string) {
	kdcInfo.DeletePartialMatch(map[string]string{
		"name":      name,
		"namespace": namespace,
	})
	kdcInfo.WithLabelValues(name, namespace, phase).Set(1)
}

// SetKdcReplicas sets the desired and ready replica gauges for a Kdc.
func SetKdcReplicas(name, namespace string, desired, ready int32) {
	kdcReplicas.WithLabelValues(name, namespace, "desired").Set(float64(desired))
	kdcReplicas.WithLabelValues(name, namespace, "ready").Set(float64(ready))
}

// ForgetKdc drops every per-Kdc series once the Kdc is gone.
func ForgetKdc(name, namespace string) {
	match := map[string]string{"name": name, "namespace": namespace}
	kdcInfo.DeletePartialMatch(match)
	kdcReplicas.DeletePartialMatch(match)
}

// ObserveReadinessWait records how long a readiness wait took and how it ended.
func ObserveReadinessWait(result string, duration time.Duration) {
	readinessWaitDuration.WithLabelValues(result).Observe(duration.Seconds())
}

// RecordTeardown counts the outcome of deleting one kind during teardown.
func RecordTeardown(kind, outcome string) {
	teardownTotal.WithLabelValues(kind, outcome).Inc()
}

// SetOperatorInfo publishes the CRD version the operator serves.
func SetOperatorInfo(crdVersion string) {
	operatorInfo.Reset()
	operatorInfo.WithLabelValues(crdVersion).Set(1)
}
