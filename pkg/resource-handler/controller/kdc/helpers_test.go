package kdc

import (
	"time"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"

	kdcv1alpha1 "github.com/kdc-operator/kdc-operator/api/v1alpha1"
	"github.com/kdc-operator/kdc-operator/pkg/config"
	"github.com/kdc-operator/kdc-operator/pkg/secrets"
)

func newScheme() *runtime.Scheme {
	scheme := runtime.NewScheme()
	_ = kdcv1alpha1.AddToScheme(scheme)
	_ = appsv1.AddToScheme(scheme)
	_ = corev1.AddToScheme(scheme)
	return scheme
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Image = "example.com/krb5:1.21"
	return cfg
}

// newTestEngine returns an Engine that polls fast enough for unit tests.
func newTestEngine(c client.Client, scheme *runtime.Scheme, cfg config.Config) *Engine {
	e := NewEngine(c, scheme, cfg, secrets.NewManager(c, scheme, cfg))
	e.readinessInterval = 10 * time.Millisecond
	e.readinessTimeout = 200 * time.Millisecond
	return e
}

// markReady reports a Deployment as fully rolled out, the way the deployment
// controller would.
func markReady(obj client.Object) {
	dp, ok := obj.(*appsv1.Deployment)
	if !ok || dp.Spec.Replicas == nil {
		return
	}
	dp.Status.ObservedGeneration = 1
	dp.Status.Replicas = *dp.Spec.Replicas
	dp.Status.AvailableReplicas = *dp.Spec.Replicas
	dp.Status.ReadyReplicas = *dp.Spec.Replicas
}
