// Package kdc reconciles Kdc resources into the Kubernetes objects that run a
// Kerberos Key Distribution Center: a Deployment with the krb5kdc and kadmind
// containers, a Service exposing them and the credential Secrets they read.
//
// The Engine holds the idempotent create, wait-for-ready and teardown
// operations. KdcReconciler drives the Engine from the controller-runtime
// control loop and reports progress on the Kdc status.
package kdc
