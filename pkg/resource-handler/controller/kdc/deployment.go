package kdc

import (
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
	"k8s.io/apimachinery/pkg/util/validation"
	"k8s.io/utils/ptr"

	"github.com/kdc-operator/kdc-operator/pkg/config"
	"github.com/kdc-operator/kdc-operator/pkg/util/metadata"
)

const (
	// DefaultReplicas is the number of KDC replicas. The KDC database lives
	// in the pod, so it cannot be scaled out.
	DefaultReplicas int32 = 1

	// DatabaseVolumeName is the volume shared by krb5kdc and kadmind.
	DatabaseVolumeName = "kdc-db"

	// DatabaseMountPath is where the KDC database is stored.
	DatabaseMountPath = "/var/lib/krb5kdc"

	// Container names.
	KdcContainerName    = "kdc"
	KadminContainerName = "kadmin"
)

// BuildDeployment creates the Deployment for the Kdc called name serving
// realm. The result is deterministic for a given input. Owner references are
// left to the caller.
func BuildDeployment(name, namespace, realm string, cfg config.Config) *appsv1.Deployment {
	labels := metadata.BuildStandardLabels(name, metadata.ComponentKdc)

	podLabels := metadata.MergeLabels(labels, nil)
	if len(validation.IsValidLabelValue(realm)) == 0 {
		podLabels = metadata.AddRealmLabel(podLabels, realm)
	}

	env := buildContainerEnv(name, namespace, realm, cfg)

	return &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{
			Name:      ResourceName(name, cfg),
			Namespace: namespace,
			Labels:    labels,
		},
		Spec: appsv1.DeploymentSpec{
			Replicas: ptr.To(DefaultReplicas),
			Selector: &metav1.LabelSelector{
				MatchLabels: labels,
			},
			// Two pods must never open the same database.
			Strategy: appsv1.DeploymentStrategy{
				Type: appsv1.RecreateDeploymentStrategyType,
			},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels: podLabels,
				},
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{
						buildContainer(KdcContainerName, cfg.Image, cfg.KdcCommand, env,
							buildKdcContainerPorts(), PortNameKerberos),
						buildContainer(KadminContainerName, cfg.Image, cfg.KadminCommand, env,
							buildKadminContainerPorts(), PortNameKadmin),
					},
					Volumes: []corev1.Volume{
						{
							Name: DatabaseVolumeName,
							VolumeSource: corev1.VolumeSource{
								EmptyDir: &corev1.EmptyDirVolumeSource{},
							},
						},
					},
				},
			},
		},
	}
}

// buildContainer creates one of the KDC containers. command is run through
// /bin/sh so that the configured command line can carry arguments.
func buildContainer(
	name, image, command string,
	env []corev1.EnvVar,
	ports []corev1.ContainerPort,
	probePort string,
) corev1.Container {
	return corev1.Container{
		Name:    name,
		Image:   image,
		Command: []string{"/bin/sh", "-c", command},
		Env:     env,
		Ports:   ports,
		VolumeMounts: []corev1.VolumeMount{
			{
				Name:      DatabaseVolumeName,
				MountPath: DatabaseMountPath,
			},
		},
		ReadinessProbe: &corev1.Probe{
			ProbeHandler: corev1.ProbeHandler{
				TCPSocket: &corev1.TCPSocketAction{
					Port: intstr.FromString(probePort),
				},
			},
			PeriodSeconds: 5,
		},
	}
}
