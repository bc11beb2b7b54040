package kdc

import (
	"fmt"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/kdc-operator/kdc-operator/pkg/config"
	"github.com/kdc-operator/kdc-operator/pkg/util/metadata"
	"github.com/kdc-operator/kdc-operator/pkg/util/names"
)

// ResourceName returns the name shared by the Deployment and the Service of
// the Kdc called kdcName. It is the configured prefix joined to the Kdc name,
// hashed down to a valid Service name when needed.
func ResourceName(kdcName string, cfg config.Config) string {
	return names.Join(names.ServiceConstraints, cfg.ResourcePrefix, kdcName)
}

// ServiceDNSName returns the in-cluster DNS name clients use to reach the KDC.
func ServiceDNSName(kdcName, namespace string, cfg config.Config) string {
	return fmt.Sprintf("%s.%s.svc", ResourceName(kdcName, cfg), namespace)
}

// BuildService creates the ClusterIP Service for the Kdc called name.
// Owner references are left to the caller.
func BuildService(name, namespace string, cfg config.Config) *corev1.Service {
	labels := metadata.BuildStandardLabels(name, metadata.ComponentKdc)

	return &corev1.Service{
		ObjectMeta: metav1.ObjectMeta{
			Name:      ResourceName(name, cfg),
			Namespace: namespace,
			Labels:    labels,
		},
		Spec: corev1.ServiceSpec{
			Type:     corev1.ServiceTypeClusterIP,
			Selector: labels,
			Ports:    buildServicePorts(),
		},
	}
}
