package metadata

import "maps"

// Standard Kubernetes label keys following kubernetes.io conventions.
//
// See: https://kubernetes.io/docs/concepts/overview/working-with-objects/common-labels/
const (
	// LabelAppName is the standard label key for the application name.
	LabelAppName = "app.kubernetes.io/name"

	// LabelAppInstance is the standard label key for the unique instance name.
	LabelAppInstance = "app.kubernetes.io/instance"

	// LabelAppComponent is the standard label key for the component within the
	// application.
	LabelAppComponent = "app.kubernetes.io/component"

	// LabelAppPartOf is the standard label key for the name of a higher level
	// application this one is part of.
	LabelAppPartOf = "app.kubernetes.io/part-of"

	// LabelAppManagedBy is the standard label key for the tool managing the
	// resource.
	LabelAppManagedBy = "app.kubernetes.io/managed-by"
)

const (
	// AppNameKerberos is the fixed application name for all managed resources.
	AppNameKerberos = "kerberos"

	// ManagedByKdcOperator identifies the operator managing these resources.
	ManagedByKdcOperator = "kdc-operator"
)

const (
	// ComponentKdc identifies the KDC workload and its Service.
	ComponentKdc = "kdc"

	// ComponentAdminPassword identifies the kadmin password Secret.
	ComponentAdminPassword = "admin-password"

	// ComponentMasterKey identifies the KDC database master key Secret.
	ComponentMasterKey = "master-key"
)

const (
	// LabelRealm records the Kerberos realm a resource serves.
	LabelRealm = "kdc.krb-operator.io/realm"
)

// BuildStandardLabels builds the standard Kubernetes labels for a component
// of a Kdc. These labels are applied to all resources managed by the operator
// and double as the pod selector, so they must stay stable.
//
// Standard labels include:
//   - app.kubernetes.io/name: "kerberos"
//   - app.kubernetes.io/instance: <kdcName>
//   - app.kubernetes.io/component: <componentName>
//   - app.kubernetes.io/part-of: "kerberos"
//   - app.kubernetes.io/managed-by: "kdc-operator"
func BuildStandardLabels(kdcName, componentName string) map[string]string {
	return map[string]string{
		LabelAppName:      AppNameKerberos,
		LabelAppInstance:  kdcName,
		LabelAppComponent: componentName,
		LabelAppPartOf:    AppNameKerberos,
		LabelAppManagedBy: ManagedByKdcOperator,
	}
}

// AddRealmLabel adds the realm label to the provided labels map.
//
// Realms are upper case by convention, which is valid in a label value.
func AddRealmLabel(labels map[string]string, realm string) map[string]string {
	labels[LabelRealm] = realm
	return labels
}

// MergeLabels merges custom labels with standard labels.
//
// Note that standard labels take precedence over custom labels to prevent users
// from overriding critical operator-managed labels.
func MergeLabels(standardLabels, customLabels map[string]string) map[string]string {
	merged := make(map[string]string)

	maps.Copy(merged, customLabels)
	maps.Copy(merged, standardLabels)

	return merged
}
