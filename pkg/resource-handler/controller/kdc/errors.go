package kdc

import (
	"errors"
	"fmt"

	"k8s.io/apimachinery/pkg/types"
)

var (
	// ErrConfiguration is returned, wrapped with the offending field, when an
	// operation is called with incomplete input. It is never retried.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrReadinessTimeout is returned when the KDC workload does not become
	// ready within the readiness window. The platform accepted the workload,
	// it just has not converged.
	ErrReadinessTimeout = errors.New("timed out waiting for KDC readiness")
)

// TeardownError reports that deleting the resources of a Kdc did not fully
// succeed. Err aggregates the per-kind failures; every kind was attempted.
type TeardownError struct {
	Key types.NamespacedName
	Err error
}

func (e *TeardownError) Error() string {
	return fmt.Sprintf("teardown of Kdc %s failed: %v", e.Key, e.Err)
}

func (e *TeardownError) Unwrap() error {
	return e.Err
}

func validateIdentity(id types.NamespacedName) error {
	if id.Name == "" {
		return fmt.Errorf("%w: name is required", ErrConfiguration)
	}
	if id.Namespace == "" {
		return fmt.Errorf("%w: namespace is required", ErrConfiguration)
	}
	return nil
}
