package kdc

import (
	"context"
	"fmt"
	"time"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/log"

	kdcv1alpha1 "github.com/kdc-operator/kdc-operator/api/v1alpha1"
	"github.com/kdc-operator/kdc-operator/pkg/config"
	"github.com/kdc-operator/kdc-operator/pkg/monitoring"
	"github.com/kdc-operator/kdc-operator/pkg/resource"
	"github.com/kdc-operator/kdc-operator/pkg/secrets"
	"github.com/kdc-operator/kdc-operator/pkg/util/status"
	"github.com/kdc-operator/kdc-operator/pkg/util/wait"
)

const (
	// ReadinessTimeout bounds WaitForReady.
	ReadinessTimeout = time.Minute

	// ReadinessInterval is the fixed delay between readiness checks.
	ReadinessInterval = 2 * time.Second
)

// Engine creates, awaits and tears down the Kubernetes resources of one Kdc
// per call. It keeps no state between calls: every operation re-reads the
// live objects, so calls may be retried freely.
type Engine struct {
	deployments *resource.Client[*appsv1.Deployment]
	services    *resource.Client[*corev1.Service]
	secretObjs  *resource.Client[*corev1.Secret]
	secrets     *secrets.Manager
	scheme      *runtime.Scheme
	cfg         config.Config

	readinessTimeout  time.Duration
	readinessInterval time.Duration
}

// NewEngine returns an Engine backed by c. scheme is used to set owner
// references and secretsManager to locate the credential Secrets on teardown.
func NewEngine(c client.Client, scheme *runtime.Scheme, cfg config.Config, secretsManager *secrets.Manager) *Engine {
	return &Engine{
		deployments:       resource.New(c, resource.DeploymentKind),
		services:          resource.New(c, resource.ServiceKind),
		secretObjs:        resource.New(c, resource.SecretKind),
		secrets:           secretsManager,
		scheme:            scheme,
		cfg:               cfg,
		readinessTimeout:  ReadinessTimeout,
		readinessInterval: ReadinessInterval,
	}
}

// workloadKey is the key of both the Deployment and the Service of a Kdc.
func (e *Engine) workloadKey(id types.NamespacedName) types.NamespacedName {
	return types.NamespacedName{Namespace: id.Namespace, Name: ResourceName(id.Name, e.cfg)}
}

// FindWorkload returns the live Deployment of the Kdc identified by id.
func (e *Engine) FindWorkload(ctx context.Context, id types.NamespacedName) (*appsv1.Deployment, bool) {
	return e.deployments.Find(ctx, e.workloadKey(id))
}

// FindService returns the live Service of the Kdc identified by id.
func (e *Engine) FindService(ctx context.Context, id types.NamespacedName) (*corev1.Service, bool) {
	return e.services.Find(ctx, e.workloadKey(id))
}

// CreateService creates or updates the Service of the Kdc identified by id.
//
// A failed write is tolerated when the Service turns out to exist anyway: a
// retried reconcile commonly races the side effects of its own earlier run.
func (e *Engine) CreateService(ctx context.Context, id types.NamespacedName, owner *kdcv1alpha1.Kdc) (err error) {
	ctx, span := monitoring.StartChildSpan(ctx, "Engine.CreateService")
	defer func() {
		monitoring.RecordSpanError(span, err)
		span.End()
	}()
	logger := log.FromContext(ctx).WithValues("namespace", id.Namespace, "name", id.Name)

	if err := validateIdentity(id); err != nil {
		logger.Error(err, "Refusing to create Service")
		return err
	}

	desired := BuildService(id.Name, id.Namespace, e.cfg)
	if err := e.setOwner(owner, desired); err != nil {
		logger.Error(err, "Failed to build Service")
		return err
	}

	if _, err := e.services.CreateOrReplace(ctx, desired); err != nil {
		if _, ok := e.services.Find(ctx, client.ObjectKeyFromObject(desired)); ok {
			logger.V(1).Info("Service exists despite failed write, ignoring", "error", err.Error())
			return nil
		}
		logger.Error(err, "Failed to create Service")
		return err
	}
	return nil
}

// CreateWorkload creates or updates the Deployment of the Kdc identified by
// id, serving realm. There is no existence pre-check: re-applying the same
// input is a successful no-op.
func (e *Engine) CreateWorkload(
	ctx context.Context,
	id types.NamespacedName,
	realm string,
	owner *kdcv1alpha1.Kdc,
) (err error) {
	ctx, span := monitoring.StartChildSpan(ctx, "Engine.CreateWorkload")
	defer func() {
		monitoring.RecordSpanError(span, err)
		span.End()
	}()
	logger := log.FromContext(ctx).WithValues("namespace", id.Namespace, "name", id.Name)

	if err := validateIdentity(id); err != nil {
		logger.Error(err, "Refusing to create Deployment")
		return err
	}
	if realm == "" {
		err := fmt.Errorf("%w: realm is required", ErrConfiguration)
		logger.Error(err, "Refusing to create Deployment")
		return err
	}

	desired := BuildDeployment(id.Name, id.Namespace, realm, e.cfg)
	if err := e.setOwner(owner, desired); err != nil {
		logger.Error(err, "Failed to build Deployment")
		return err
	}

	if _, err := e.deployments.CreateOrReplace(ctx, desired); err != nil {
		logger.Error(err, "Failed to create Deployment")
		return err
	}
	return nil
}

// WaitForReady polls the Deployment of the Kdc identified by id until it
// satisfies the readiness policy. A missing Deployment counts as not ready.
// It returns an error wrapping ErrReadinessTimeout when the readiness window
// elapses first.
func (e *Engine) WaitForReady(ctx context.Context, id types.NamespacedName) (err error) {
	ctx, span := monitoring.StartChildSpan(ctx, "Engine.WaitForReady")
	defer func() {
		monitoring.RecordSpanError(span, err)
		span.End()
	}()
	logger := log.FromContext(ctx).WithValues("namespace", id.Namespace, "name", id.Name)

	if err := validateIdentity(id); err != nil {
		logger.Error(err, "Refusing to wait for Deployment")
		return err
	}

	key := e.workloadKey(id)
	start := time.Now()
	ready, err := wait.WaitFor(ctx, e.readinessInterval, e.readinessTimeout, func(ctx context.Context) (bool, error) {
		dp, ok := e.deployments.Find(ctx, key)
		if !ok {
			return false, nil
		}
		return status.IsDeploymentReady(dp), nil
	})
	elapsed := time.Since(start)

	switch {
	case err != nil:
		monitoring.ObserveReadinessWait(monitoring.ReadinessError, elapsed)
		logger.Error(err, "Failed waiting for Deployment")
		return fmt.Errorf("failed waiting for Deployment %s: %w", key, err)
	case !ready:
		monitoring.ObserveReadinessWait(monitoring.ReadinessTimeout, elapsed)
		err := fmt.Errorf("%w: Deployment %s not ready after %s", ErrReadinessTimeout, key, e.readinessTimeout)
		logger.Error(err, "Deployment did not become ready")
		return err
	}

	monitoring.ObserveReadinessWait(monitoring.ReadinessReady, elapsed)
	logger.V(1).Info("Deployment is ready", "waited", elapsed.String())
	return nil
}

// Delete removes the Deployment, the Service and the credential Secrets of
// the Kdc identified by id, in that order. Every kind is attempted whatever
// happened to the others. found reports whether anything existed to delete.
// Failures are aggregated into a *TeardownError.
func (e *Engine) Delete(ctx context.Context, id types.NamespacedName) (found bool, err error) {
	ctx, span := monitoring.StartChildSpan(ctx, "Engine.Delete")
	defer func() {
		monitoring.RecordSpanError(span, err)
		span.End()
	}()
	logger := log.FromContext(ctx).WithValues("namespace", id.Namespace, "name", id.Name)

	if err := validateIdentity(id); err != nil {
		logger.Error(err, "Refusing to delete resources")
		return false, err
	}

	var errs []error
	collect := func(ok bool, err error) {
		found = found || ok
		if err != nil {
			errs = append(errs, err)
		}
	}

	dp, ok := e.deployments.Find(ctx, e.workloadKey(id))
	collect(teardown(ctx, e.deployments, dp, ok))

	svc, ok := e.services.Find(ctx, e.workloadKey(id))
	collect(teardown(ctx, e.services, svc, ok))

	admin, ok := e.secrets.FindAdminSecret(ctx, id)
	collect(teardown(ctx, e.secretObjs, admin, ok))

	masterKey, ok := e.secrets.FindMasterKeySecret(ctx, id)
	collect(teardown(ctx, e.secretObjs, masterKey, ok))

	if agg := utilerrors.NewAggregate(errs); agg != nil {
		terr := &TeardownError{Key: id, Err: agg}
		logger.Error(terr, "Teardown incomplete")
		return found, terr
	}

	if found {
		logger.Info("Deleted KDC resources")
	} else {
		logger.Info("No KDC resources found to delete")
	}
	return found, nil
}

// teardown deletes obj when ok and records the outcome. It reports whether
// the object was found.
func teardown[T client.Object](ctx context.Context, c *resource.Client[T], obj T, ok bool) (bool, error) {
	if !ok {
		monitoring.RecordTeardown(c.Kind(), monitoring.TeardownNotFound)
		return false, nil
	}

	deleted, err := c.Delete(ctx, obj)
	switch {
	case err != nil:
		monitoring.RecordTeardown(c.Kind(), monitoring.TeardownFailed)
		log.FromContext(ctx).Error(err, "Failed to delete object",
			"kind", c.Kind(), "namespace", obj.GetNamespace(), "name", obj.GetName())
	case deleted:
		monitoring.RecordTeardown(c.Kind(), monitoring.TeardownDeleted)
	default:
		// Gone between Find and Delete.
		monitoring.RecordTeardown(c.Kind(), monitoring.TeardownNotFound)
	}
	return true, err
}

func (e *Engine) setOwner(owner *kdcv1alpha1.Kdc, obj client.Object) error {
	if owner == nil {
		return nil
	}
	if err := ctrl.SetControllerReference(owner, obj, e.scheme); err != nil {
		return fmt.Errorf("failed to set controller reference: %w", err)
	}
	return nil
}
