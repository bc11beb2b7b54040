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

// Package status provides the readiness policy for KDC workloads and the
// helpers that derive Kdc status phases from it.
package status

import (
	kdcv1alpha1 "github.com/kdc-operator/kdc-operator/api/v1alpha1"
)

// ComputePhase determines the phase of a Kdc based on the readiness of its
// workload. A workload that declares no replicas yet is still initializing.
func ComputePhase(ready bool, declared int32) kdcv1alpha1.Phase {
	if ready {
		return kdcv1alpha1.PhaseReady
	}
	if declared == 0 {
		return kdcv1alpha1.PhaseInitializing
	}
	return kdcv1alpha1.PhaseProgressing
}
