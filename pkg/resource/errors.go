package resource

import (
	"fmt"

	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"
)

// Operation names used in PlatformOperationError.
const (
	OpCreateOrReplace = "create-or-replace"
	OpDelete          = "delete"
)

// PlatformOperationError reports an API call that failed or returned a
// result the caller does not accept.
type PlatformOperationError struct {
	Op   string
	Kind string
	Key  types.NamespacedName
	// Result is the create-or-update outcome, if the call got that far.
	Result controllerutil.OperationResult
	Err    error
}

func (e *PlatformOperationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to %s %s %s: %v", e.Op, e.Kind, e.Key, e.Err)
	}
	return fmt.Sprintf("failed to %s %s %s: unexpected result %q", e.Op, e.Kind, e.Key, e.Result)
}

func (e *PlatformOperationError) Unwrap() error {
	return e.Err
}
