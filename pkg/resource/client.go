package resource

import (
	"context"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"
	"sigs.k8s.io/controller-runtime/pkg/log"
)

// Client is a typed find / create-or-replace / delete facade for one kind.
// It holds no state besides the underlying client and is safe for concurrent use.
type Client[T client.Object] struct {
	client client.Client
	kind   Kind[T]
}

// New returns a Client for kind backed by c.
func New[T client.Object](c client.Client, kind Kind[T]) *Client[T] {
	return &Client[T]{client: c, kind: kind}
}

// Kind returns the Kubernetes kind name this client manages.
func (c *Client[T]) Kind() string {
	return c.kind.Name
}

// Find fetches the object with the given key. Any error, NotFound or not,
// is reported as absence: before first creation "missing" is the normal
// state, and a transient read failure must not be confused with a failed
// write.
func (c *Client[T]) Find(ctx context.Context, key types.NamespacedName) (T, bool) {
	obj := c.kind.New()
	if err := c.client.Get(ctx, key, obj); err != nil {
		if !apierrors.IsNotFound(err) {
			log.FromContext(ctx).V(1).Info("Lookup failed, treating as absent",
				"kind", c.kind.Name, "namespace", key.Namespace, "name", key.Name, "error", err.Error())
		}
		var zero T
		return zero, false
	}
	return obj, true
}

// CreateOrReplace creates desired if it does not exist yet and otherwise
// merges it into the live object. Re-applying unchanged desired state is a
// successful no-op. The returned object is the live state after the write.
func (c *Client[T]) CreateOrReplace(ctx context.Context, desired T) (T, error) {
	key := client.ObjectKeyFromObject(desired)

	existing := c.kind.New()
	existing.SetNamespace(key.Namespace)
	existing.SetName(key.Name)

	result, err := controllerutil.CreateOrUpdate(ctx, c.client, existing, func() error {
		c.kind.Merge(existing, desired)
		return nil
	})

	var zero T
	if err != nil {
		return zero, &PlatformOperationError{
			Op: OpCreateOrReplace, Kind: c.kind.Name, Key: key, Result: result, Err: err,
		}
	}

	switch result {
	case controllerutil.OperationResultCreated,
		controllerutil.OperationResultUpdated,
		controllerutil.OperationResultNone:
		log.FromContext(ctx).V(1).Info("Applied object",
			"kind", c.kind.Name, "namespace", key.Namespace, "name", key.Name, "result", string(result))
		return existing, nil
	default:
		return zero, &PlatformOperationError{
			Op: OpCreateOrReplace, Kind: c.kind.Name, Key: key, Result: result,
		}
	}
}

// Delete deletes obj. It returns true only when the API accepted the
// deletion. An object that is already gone yields (false, nil); any other
// failure yields (false, *PlatformOperationError).
func (c *Client[T]) Delete(ctx context.Context, obj T) (bool, error) {
	key := client.ObjectKeyFromObject(obj)
	if err := c.client.Delete(ctx, obj, client.PropagationPolicy(metav1.DeletePropagationBackground)); err != nil {
		if apierrors.IsNotFound(err) {
			return false, nil
		}
		return false, &PlatformOperationError{Op: OpDelete, Kind: c.kind.Name, Key: key, Err: err}
	}
	return true, nil
}
