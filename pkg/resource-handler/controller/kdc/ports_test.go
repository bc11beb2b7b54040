package kdc

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
)

func TestBuildContainerPorts(t *testing.T) {
	tests := map[string]struct {
		build func() []corev1.ContainerPort
		want  []corev1.ContainerPort
	}{
		"kdc container": {
			build: buildKdcContainerPorts,
			want: []corev1.ContainerPort{
				{Name: "kerberos", ContainerPort: 88, Protocol: corev1.ProtocolTCP},
				{Name: "kerberos-udp", ContainerPort: 88, Protocol: corev1.ProtocolUDP},
			},
		},
		"kadmin container": {
			build: buildKadminContainerPorts,
			want: []corev1.ContainerPort{
				{Name: "kadmin", ContainerPort: 749, Protocol: corev1.ProtocolTCP},
			},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, tc.build()); diff != "" {
				t.Errorf("ports mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildServicePorts(t *testing.T) {
	want := []corev1.ServicePort{
		{
			Name:       "kerberos",
			Port:       88,
			TargetPort: intstr.FromString("kerberos"),
			Protocol:   corev1.ProtocolTCP,
		},
		{
			Name:       "kerberos-udp",
			Port:       88,
			TargetPort: intstr.FromString("kerberos-udp"),
			Protocol:   corev1.ProtocolUDP,
		},
		{
			Name:       "kadmin",
			Port:       749,
			TargetPort: intstr.FromString("kadmin"),
			Protocol:   corev1.ProtocolTCP,
		},
	}

	if diff := cmp.Diff(want, buildServicePorts()); diff != "" {
		t.Errorf("buildServicePorts() mismatch (-want +got):\n%s", diff)
	}
}
