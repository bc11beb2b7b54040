/*
Copyright 2025.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package v1alpha1 defines the API types for the KDC Operator.
//
// This package contains the Go type definitions for the Custom Resources in the
// kdc.krb-operator.io API group. These types are used by kubebuilder to generate:
//   - CustomResourceDefinitions (CRDs)
//   - DeepCopy methods
//
// # Custom Resources
//
//   - Kdc: a Kerberos Key Distribution Center serving one realm.
//
// # Resource Hierarchy
//
//	Kdc
//	├── Deployment (krb5kdc + kadmind containers)
//	├── Service (kerberos 88 tcp/udp, kadmin 749)
//	├── Secret (kadmin admin password)
//	└── Secret (KDC database master key)
//
// # Versioning
//
// This is the v1alpha1 version, indicating the API is in early development
// and may change in backward-incompatible ways.
package v1alpha1
