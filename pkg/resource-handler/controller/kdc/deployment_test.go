package kdc

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
	"k8s.io/utils/ptr"

	"github.com/kdc-operator/kdc-operator/pkg/config"
)

func TestBuildDeployment(t *testing.T) {
	selector := map[string]string{
		"app.kubernetes.io/name":       "kerberos",
		"app.kubernetes.io/instance":   "kdc-1",
		"app.kubernetes.io/component":  "kdc",
		"app.kubernetes.io/part-of":    "kerberos",
		"app.kubernetes.io/managed-by": "kdc-operator",
	}
	podLabels := map[string]string{
		"app.kubernetes.io/name":       "kerberos",
		"app.kubernetes.io/instance":   "kdc-1",
		"app.kubernetes.io/component":  "kdc",
		"app.kubernetes.io/part-of":    "kerberos",
		"app.kubernetes.io/managed-by": "kdc-operator",
		"kdc.krb-operator.io/realm":    "EXAMPLE.COM",
	}
	env := []corev1.EnvVar{
		{Name: "KRB5_REALM", Value: "EXAMPLE.COM"},
		{Name: "KRB5_KDC", Value: "kdc-1.krb-ns.svc"},
		{
			Name: "KRB5_PASS",
			ValueFrom: &corev1.EnvVarSource{
				SecretKeyRef: &corev1.SecretKeySelector{
					LocalObjectReference: corev1.LocalObjectReference{Name: "kdc-1-admin-password"},
					Key:                  "password",
				},
			},
		},
		{
			Name: "KRB5_MASTER_PASS",
			ValueFrom: &corev1.EnvVarSource{
				SecretKeyRef: &corev1.SecretKeySelector{
					LocalObjectReference: corev1.LocalObjectReference{Name: "kdc-1-master-key"},
					Key:                  "password",
				},
			},
		},
	}
	mounts := []corev1.VolumeMount{{Name: "kdc-db", MountPath: "/var/lib/krb5kdc"}}
	probe := func(port string) *corev1.Probe {
		return &corev1.Probe{
			ProbeHandler: corev1.ProbeHandler{
				TCPSocket: &corev1.TCPSocketAction{Port: intstr.FromString(port)},
			},
			PeriodSeconds: 5,
		}
	}

	want := &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{
			Name:      "kdc-1",
			Namespace: "krb-ns",
			Labels:    selector,
		},
		Spec: appsv1.DeploymentSpec{
			Replicas: ptr.To(int32(1)),
			Selector: &metav1.LabelSelector{MatchLabels: selector},
			Strategy: appsv1.DeploymentStrategy{Type: appsv1.RecreateDeploymentStrategyType},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{Labels: podLabels},
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{
						{
							Name:           "kdc",
							Image:          "example.com/krb5:1.21",
							Command:        []string{"/bin/sh", "-c", "/usr/sbin/krb5kdc -n -r $(KRB5_REALM)"},
							Env:            env,
							Ports:          buildKdcContainerPorts(),
							VolumeMounts:   mounts,
							ReadinessProbe: probe("kerberos"),
						},
						{
							Name:           "kadmin",
							Image:          "example.com/krb5:1.21",
							Command:        []string{"/bin/sh", "-c", "/usr/sbin/kadmind -nofork -r $(KRB5_REALM)"},
							Env:            env,
							Ports:          buildKadminContainerPorts(),
							VolumeMounts:   mounts,
							ReadinessProbe: probe("kadmin"),
						},
					},
					Volumes: []corev1.Volume{
						{
							Name:         "kdc-db",
							VolumeSource: corev1.VolumeSource{EmptyDir: &corev1.EmptyDirVolumeSource{}},
						},
					},
				},
			},
		},
	}

	got := BuildDeployment("kdc-1", "krb-ns", "EXAMPLE.COM", testConfig())
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("BuildDeployment() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildDeployment_Variants(t *testing.T) {
	tests := map[string]struct {
		realm      string
		mutate     func(cfg *config.Config)
		assertFunc func(t *testing.T, dp *appsv1.Deployment)
	}{
		"prefix applies to workload and kdc address": {
			realm: "EXAMPLE.COM",
			mutate: func(cfg *config.Config) {
				cfg.ResourcePrefix = "krb"
			},
			assertFunc: func(t *testing.T, dp *appsv1.Deployment) {
				if dp.Name != "krb-kdc-1" {
					t.Errorf("Name = %q, want %q", dp.Name, "krb-kdc-1")
				}
				if got := envValue(dp.Spec.Template.Spec.Containers[0], "KRB5_KDC"); got != "krb-kdc-1.krb-ns.svc" {
					t.Errorf("KRB5_KDC = %q, want %q", got, "krb-kdc-1.krb-ns.svc")
				}
			},
		},
		"custom secret references": {
			realm: "EXAMPLE.COM",
			mutate: func(cfg *config.Config) {
				cfg.AdminPassword.SecretName = "kadmin"
				cfg.AdminPassword.SecretKey = "pwd"
			},
			assertFunc: func(t *testing.T, dp *appsv1.Deployment) {
				ref := envSecretRef(dp.Spec.Template.Spec.Containers[1], "KRB5_PASS")
				if ref == nil || ref.Name != "kdc-1-kadmin" || ref.Key != "pwd" {
					t.Errorf("KRB5_PASS secret ref = %+v, want kdc-1-kadmin/pwd", ref)
				}
			},
		},
		"realm not usable as label value": {
			realm: strings.Repeat("A", 70) + ".COM",
			assertFunc: func(t *testing.T, dp *appsv1.Deployment) {
				if _, ok := dp.Spec.Template.Labels["kdc.krb-operator.io/realm"]; ok {
					t.Error("realm label should be omitted for an invalid label value")
				}
				if got := envValue(dp.Spec.Template.Spec.Containers[0], "KRB5_REALM"); got != strings.Repeat("A", 70)+".COM" {
					t.Errorf("KRB5_REALM = %q", got)
				}
			},
		},
		"selector excludes realm": {
			realm: "EXAMPLE.COM",
			assertFunc: func(t *testing.T, dp *appsv1.Deployment) {
				if _, ok := dp.Spec.Selector.MatchLabels["kdc.krb-operator.io/realm"]; ok {
					t.Error("selector must not depend on the realm")
				}
			},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := testConfig()
			if tc.mutate != nil {
				tc.mutate(&cfg)
			}
			tc.assertFunc(t, BuildDeployment("kdc-1", "krb-ns", tc.realm, cfg))
		})
	}
}

func envValue(c corev1.Container, name string) string {
	for _, e := range c.Env {
		if e.Name == name {
			return e.Value
		}
	}
	return ""
}

func envSecretRef(c corev1.Container, name string) *corev1.SecretKeySelector {
	for _, e := range c.Env {
		if e.Name == name && e.ValueFrom != nil {
			return e.ValueFrom.SecretKeyRef
		}
	}
	return nil
}
