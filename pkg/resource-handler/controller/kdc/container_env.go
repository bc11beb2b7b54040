package kdc

import (
	corev1 "k8s.io/api/core/v1"

	"github.com/kdc-operator/kdc-operator/pkg/config"
	"github.com/kdc-operator/kdc-operator/pkg/secrets"
)

// Environment variables read by the krb5 container entrypoints.
const (
	EnvRealm          = "KRB5_REALM"
	EnvKdc            = "KRB5_KDC"
	EnvAdminPassword  = "KRB5_PASS"
	EnvMasterPassword = "KRB5_MASTER_PASS"
)

// buildContainerEnv constructs the environment shared by the kdc and kadmin
// containers. Credentials are referenced from their Secrets, never inlined.
func buildContainerEnv(name, namespace, realm string, cfg config.Config) []corev1.EnvVar {
	return []corev1.EnvVar{
		{
			Name:  EnvRealm,
			Value: realm,
		},
		{
			Name:  EnvKdc,
			Value: ServiceDNSName(name, namespace, cfg),
		},
		secretEnv(EnvAdminPassword, secrets.AdminSecretName(cfg, name), cfg.AdminPassword.SecretKey),
		secretEnv(EnvMasterPassword, secrets.MasterKeySecretName(cfg, name), cfg.MasterKey.SecretKey),
	}
}

func secretEnv(envName, secretName, key string) corev1.EnvVar {
	return corev1.EnvVar{
		Name: envName,
		ValueFrom: &corev1.EnvVarSource{
			SecretKeyRef: &corev1.SecretKeySelector{
				LocalObjectReference: corev1.LocalObjectReference{Name: secretName},
				Key:                  key,
			},
		},
	}
}
