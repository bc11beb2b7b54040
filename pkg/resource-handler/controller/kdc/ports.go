package kdc

import (
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
)

const (
	// KerberosPort is the port krb5kdc serves tickets on, over TCP and UDP.
	KerberosPort int32 = 88

	// KadminPort is the kadmind administration port.
	KadminPort int32 = 749
)

// Port names shared by containers and the Service.
const (
	PortNameKerberos    = "kerberos"
	PortNameKerberosUDP = "kerberos-udp"
	PortNameKadmin      = "kadmin"
)

// buildKdcContainerPorts creates the port definitions for the kdc container.
func buildKdcContainerPorts() []corev1.ContainerPort {
	return []corev1.ContainerPort{
		{
			Name:          PortNameKerberos,
			ContainerPort: KerberosPort,
			Protocol:      corev1.ProtocolTCP,
		},
		{
			Name:          PortNameKerberosUDP,
			ContainerPort: KerberosPort,
			Protocol:      corev1.ProtocolUDP,
		},
	}
}

// buildKadminContainerPorts creates the port definitions for the kadmin container.
func buildKadminContainerPorts() []corev1.ContainerPort {
	return []corev1.ContainerPort{
		{
			Name:          PortNameKadmin,
			ContainerPort: KadminPort,
			Protocol:      corev1.ProtocolTCP,
		},
	}
}

// buildServicePorts creates service ports for the KDC Service.
func buildServicePorts() []corev1.ServicePort {
	return []corev1.ServicePort{
		{
			Name:       PortNameKerberos,
			Port:       KerberosPort,
			TargetPort: intstr.FromString(PortNameKerberos),
			Protocol:   corev1.ProtocolTCP,
		},
		{
			Name:       PortNameKerberosUDP,
			Port:       KerberosPort,
			TargetPort: intstr.FromString(PortNameKerberosUDP),
			Protocol:   corev1.ProtocolUDP,
		},
		{
			Name:       PortNameKadmin,
			Port:       KadminPort,
			TargetPort: intstr.FromString(PortNameKadmin),
			Protocol:   corev1.ProtocolTCP,
		},
	}
}
