package resource

import (
	"maps"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/kdc-operator/kdc-operator/pkg/util/metadata"
)

// Kind describes one object kind to Client.
type Kind[T client.Object] struct {
	// Name is the Kubernetes kind, used in logs and errors.
	Name string
	// New returns an empty object of the kind.
	New func() T
	// Merge copies the fields the operator owns from desired into existing.
	// Fields set by other controllers (e.g. a Service's ClusterIP) must be
	// left alone so that re-applying the same desired state is a no-op.
	Merge func(existing, desired T)
}

// DeploymentKind manages Deployments.
var DeploymentKind = Kind[*appsv1.Deployment]{
	Name: "Deployment",
	New:  func() *appsv1.Deployment { return &appsv1.Deployment{} },
	Merge: func(existing, desired *appsv1.Deployment) {
		mergeMeta(existing, desired)
		existing.Spec = desired.Spec
	},
}

// ServiceKind manages Services.
var ServiceKind = Kind[*corev1.Service]{
	Name: "Service",
	New:  func() *corev1.Service { return &corev1.Service{} },
	Merge: func(existing, desired *corev1.Service) {
		mergeMeta(existing, desired)
		existing.Spec.Type = desired.Spec.Type
		existing.Spec.Selector = desired.Spec.Selector
		existing.Spec.Ports = desired.Spec.Ports
	},
}

// SecretKind manages Secrets.
var SecretKind = Kind[*corev1.Secret]{
	Name: "Secret",
	New:  func() *corev1.Secret { return &corev1.Secret{} },
	Merge: func(existing, desired *corev1.Secret) {
		mergeMeta(existing, desired)
		existing.Type = desired.Type
		existing.Data = desired.Data
	},
}

// mergeMeta applies desired labels and annotations on top of existing ones
// and adopts desired owner references when there are any.
func mergeMeta(existing, desired client.Object) {
	existing.SetLabels(metadata.MergeLabels(desired.GetLabels(), existing.GetLabels()))

	if annotations := desired.GetAnnotations(); len(annotations) > 0 {
		merged := maps.Clone(existing.GetAnnotations())
		if merged == nil {
			merged = map[string]string{}
		}
		maps.Copy(merged, annotations)
		existing.SetAnnotations(merged)
	}

	if refs := desired.GetOwnerReferences(); len(refs) > 0 {
		existing.SetOwnerReferences(refs)
	}
}
