package status

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	appsv1 "k8s.io/api/apps/v1"
	"k8s.io/utils/ptr"
)

func counts(declared, observed, available *int32) ReplicaCounts {
	return ReplicaCounts{Declared: declared, Observed: observed, Available: available}
}

func TestIsReady(t *testing.T) {
	tests := map[string]struct {
		counts ReplicaCounts
		want   bool
	}{
		"all equal": {
			counts: counts(ptr.To[int32](3), ptr.To[int32](3), ptr.To[int32](3)),
			want:   true,
		},
		"observed behind declared": {
			counts: counts(ptr.To[int32](3), ptr.To[int32](2), ptr.To[int32](3)),
			want:   false,
		},
		"available behind declared": {
			counts: counts(ptr.To[int32](3), ptr.To[int32](3), ptr.To[int32](2)),
			want:   false,
		},
		"more available than declared": {
			counts: counts(ptr.To[int32](1), ptr.To[int32](1), ptr.To[int32](2)),
			want:   true,
		},
		"missing declared": {
			counts: counts(nil, ptr.To[int32](3), ptr.To[int32](3)),
			want:   false,
		},
		"missing observed": {
			counts: counts(ptr.To[int32](3), nil, ptr.To[int32](3)),
			want:   false,
		},
		"missing available": {
			counts: counts(ptr.To[int32](3), ptr.To[int32](3), nil),
			want:   false,
		},
		"all missing": {
			counts: ReplicaCounts{},
			want:   false,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if got := IsReady(tc.counts); got != tc.want {
				t.Errorf("IsReady() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDeploymentReplicaCounts(t *testing.T) {
	tests := map[string]struct {
		dp   *appsv1.Deployment
		want ReplicaCounts
	}{
		"nil deployment": {
			dp:   nil,
			want: ReplicaCounts{},
		},
		"freshly created, status not observed": {
			dp: &appsv1.Deployment{
				Spec: appsv1.DeploymentSpec{Replicas: ptr.To[int32](1)},
			},
			want: ReplicaCounts{Declared: ptr.To[int32](1)},
		},
		"observed status": {
			dp: &appsv1.Deployment{
				Spec: appsv1.DeploymentSpec{Replicas: ptr.To[int32](2)},
				Status: appsv1.DeploymentStatus{
					ObservedGeneration: 1,
					Replicas:           2,
					AvailableReplicas:  1,
				},
			},
			want: counts(ptr.To[int32](2), ptr.To[int32](2), ptr.To[int32](1)),
		},
		"observed zero counts are known": {
			dp: &appsv1.Deployment{
				Status: appsv1.DeploymentStatus{ObservedGeneration: 3},
			},
			want: counts(nil, ptr.To[int32](0), ptr.To[int32](0)),
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got := DeploymentReplicaCounts(tc.dp)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("DeploymentReplicaCounts() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestIsDeploymentReady(t *testing.T) {
	ready := &appsv1.Deployment{
		Spec: appsv1.DeploymentSpec{Replicas: ptr.To[int32](1)},
		Status: appsv1.DeploymentStatus{
			ObservedGeneration: 1,
			Replicas:           1,
			AvailableReplicas:  1,
		},
	}
	if !IsDeploymentReady(ready) {
		t.Error("IsDeploymentReady() = false for a fully available deployment")
	}

	unobserved := ready.DeepCopy()
	unobserved.Status = appsv1.DeploymentStatus{}
	if IsDeploymentReady(unobserved) {
		t.Error("IsDeploymentReady() = true for a deployment without observed status")
	}

	if IsDeploymentReady(nil) {
		t.Error("IsDeploymentReady(nil) = true")
	}
}
