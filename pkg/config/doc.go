// Package config loads the static operator configuration: the KDC image and
// commands, the Secret references used for credentials, naming and
// reconciler tuning.
//
// Configuration is read once at process start. Values come from, in
// increasing precedence:
//
//  1. Built-in defaults (see Default).
//  2. A YAML file. Its path is taken from the KDC_OPERATOR_CONFIG environment
//     variable if set, else from the --config flag, else DefaultPath.
//  3. KDC_OPERATOR_<FIELD> environment variables, one per field.
//
// The merged result is validated; any error is meant to abort startup.
//
// Example file:
//
//	image: ghcr.io/kdc-operator/krb5-server:1.21
//	adminPassword:
//	  secretName: admin-password
//	  secretKey: password
//	reconcilerInterval: 30s
//	resourcePrefix: krb
//	parallelSecretCreation: true
package config
