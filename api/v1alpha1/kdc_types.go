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

package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// Phase is a coarse summary of where a Kdc is in its lifecycle.
// +kubebuilder:validation:Enum=Initializing;Progressing;Ready;Failed
type Phase string

const (
	// PhaseInitializing means the operator has not yet created the workload.
	PhaseInitializing Phase = "Initializing"
	// PhaseProgressing means the workload exists but is not yet ready.
	PhaseProgressing Phase = "Progressing"
	// PhaseReady means the workload satisfies the readiness policy.
	PhaseReady Phase = "Ready"
	// PhaseFailed means the last reconcile hit a non-retryable platform error.
	PhaseFailed Phase = "Failed"
)

const (
	// ConditionReady is the condition type reported on every Kdc.
	ConditionReady = "Ready"
)

// KdcSpec defines the desired state of Kdc.
type KdcSpec struct {
	// Realm is the Kerberos realm served by this KDC, e.g. EXAMPLE.COM.
	// +kubebuilder:validation:MinLength=1
	// +kubebuilder:validation:MaxLength=255
	// +required
	Realm string `json:"realm"`
}

// KdcStatus defines the observed state of Kdc.
type KdcStatus struct {
	// Phase summarises the lifecycle state.
	// +optional
	Phase Phase `json:"phase,omitempty"`

	// Ready is true once the KDC workload is available.
	Ready bool `json:"ready"`

	// ObservedGeneration reflects the generation of the most recently observed Kdc spec.
	// +optional
	ObservedGeneration int64 `json:"observedGeneration,omitempty"`

	// Conditions represent the latest available observations of the Kdc's state.
	// +listType=map
	// +listMapKey=type
	// +optional
	Conditions []metav1.Condition `json:"conditions,omitempty"`
}

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:printcolumn:name="Realm",type=string,JSONPath=`.spec.realm`
// +kubebuilder:printcolumn:name="Phase",type=string,JSONPath=`.status.phase`
// +kubebuilder:printcolumn:name="Ready",type=boolean,JSONPath=`.status.ready`
// +kubebuilder:printcolumn:name="Age",type=date,JSONPath=`.metadata.creationTimestamp`

// Kdc is the Schema for the kdcs API
type Kdc struct {
	metav1.TypeMeta `json:",inline"`

	// metadata is a standard object metadata
	// +optional
	metav1.ObjectMeta `json:"metadata,omitempty,omitzero"`

	// spec defines the desired state of Kdc
	// +required
	Spec KdcSpec `json:"spec"`

	// status defines the observed state of Kdc
	// +optional
	Status KdcStatus `json:"status,omitempty,omitzero"`
}

// +kubebuilder:object:root=true

// KdcList contains a list of Kdc
type KdcList struct {
	metav1.TypeMeta `       json:",inline"`
	metav1.ListMeta `       json:"metadata,omitempty"`
	Items           []Kdc `json:"items"`
}

func init() {
	SchemeBuilder.Register(&Kdc{}, &KdcList{})
}
