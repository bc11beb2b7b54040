package status

import (
	appsv1 "k8s.io/api/apps/v1"
	"k8s.io/utils/ptr"
)

// ReplicaCounts is the subset of a workload that readiness depends on.
// A nil field means the platform has not populated it yet.
type ReplicaCounts struct {
	Declared  *int32
	Observed  *int32
	Available *int32
}

// IsReady reports whether a workload with the given counts is ready: every
// count is known, the observed count matches the declared one and at least
// the declared number of replicas is available.
//
// Missing counts are not an error, they just mean "not ready yet".
func IsReady(c ReplicaCounts) bool {
	if c.Declared == nil || c.Observed == nil || c.Available == nil {
		return false
	}
	return *c.Declared == *c.Observed && *c.Declared <= *c.Available
}

// DeploymentReplicaCounts extracts replica counts from a Deployment that may
// be only partially populated. Status counts are treated as unknown until the
// deployment controller has observed the object at least once.
func DeploymentReplicaCounts(dp *appsv1.Deployment) ReplicaCounts {
	if dp == nil {
		return ReplicaCounts{}
	}

	counts := ReplicaCounts{Declared: dp.Spec.Replicas}
	if dp.Status.ObservedGeneration > 0 {
		counts.Observed = ptr.To(dp.Status.Replicas)
		counts.Available = ptr.To(dp.Status.AvailableReplicas)
	}
	return counts
}

// IsDeploymentReady applies IsReady to a Deployment.
func IsDeploymentReady(dp *appsv1.Deployment) bool {
	return IsReady(DeploymentReplicaCounts(dp))
}
