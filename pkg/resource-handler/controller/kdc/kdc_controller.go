package kdc

import (
	"context"
	"errors"
	"fmt"
	"slices"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/tools/record"
	"k8s.io/utils/ptr"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller"
	"sigs.k8s.io/controller-runtime/pkg/log"

	kdcv1alpha1 "github.com/kdc-operator/kdc-operator/api/v1alpha1"
	"github.com/kdc-operator/kdc-operator/pkg/config"
	"github.com/kdc-operator/kdc-operator/pkg/monitoring"
	"github.com/kdc-operator/kdc-operator/pkg/secrets"
	"github.com/kdc-operator/kdc-operator/pkg/util/status"
)

const (
	finalizerName = "kdc.krb-operator.io/finalizer"
)

// Event reasons.
const (
	ReasonSynced          = "Synced"
	ReasonReconcileFailed = "ReconcileFailed"
	ReasonTeardownFailed  = "TeardownFailed"
)

// Ready condition reasons.
const (
	reasonWorkloadReady    = "WorkloadReady"
	reasonWorkloadNotReady = "WorkloadNotReady"
	reasonReconcileFailed  = "ReconcileFailed"
)

// KdcReconciler reconciles a Kdc object.
type KdcReconciler struct {
	client.Client
	Scheme   *runtime.Scheme
	Recorder record.EventRecorder
	Engine   *Engine
	Secrets  *secrets.Manager
	Config   config.Config
}

// +kubebuilder:rbac:groups=kdc.krb-operator.io,resources=kdcs,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=kdc.krb-operator.io,resources=kdcs/status,verbs=get;update;patch
// +kubebuilder:rbac:groups=kdc.krb-operator.io,resources=kdcs/finalizers,verbs=update
// +kubebuilder:rbac:groups=apps,resources=deployments,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups="",resources=services;secrets,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups="",resources=events,verbs=create;patch

// Reconcile handles Kdc resource reconciliation.
func (r *KdcReconciler) Reconcile(
	ctx context.Context,
	req ctrl.Request,
) (result ctrl.Result, err error) {
	ctx, span := monitoring.StartReconcileSpan(ctx, "Kdc.Reconcile", req.Name, req.Namespace, "Kdc")
	defer func() {
		monitoring.RecordSpanError(span, err)
		span.End()
	}()
	ctx = monitoring.EnrichLoggerWithTrace(ctx)
	logger := log.FromContext(ctx)

	// Fetch the Kdc instance
	kdc := &kdcv1alpha1.Kdc{}
	if err := r.Get(ctx, req.NamespacedName, kdc); err != nil {
		if apierrors.IsNotFound(err) {
			logger.Info("Kdc resource not found, ignoring")
			monitoring.ForgetKdc(req.Name, req.Namespace)
			return ctrl.Result{}, nil
		}
		logger.Error(err, "Failed to get Kdc")
		return ctrl.Result{}, err
	}

	// Handle deletion
	if !kdc.DeletionTimestamp.IsZero() {
		return r.handleDeletion(ctx, kdc)
	}

	// Add finalizer if not present
	if !slices.Contains(kdc.Finalizers, finalizerName) {
		kdc.Finalizers = append(kdc.Finalizers, finalizerName)
		if err := r.Update(ctx, kdc); err != nil {
			logger.Error(err, "Failed to add finalizer")
			return ctrl.Result{}, err
		}
	}

	interval := r.Config.ReconcilerInterval.Duration

	if err := r.reconcileResources(ctx, kdc); err != nil {
		if errors.Is(err, ErrReadinessTimeout) {
			logger.Info("KDC not ready yet, requeueing", "after", interval.String())
			if statusErr := r.updateStatus(ctx, kdc, err); statusErr != nil {
				logger.Error(statusErr, "Failed to update status")
				return ctrl.Result{}, statusErr
			}
			return ctrl.Result{RequeueAfter: interval}, nil
		}

		r.Recorder.Eventf(kdc, corev1.EventTypeWarning, ReasonReconcileFailed, "Reconcile failed: %v", err)
		if statusErr := r.updateStatus(ctx, kdc, err); statusErr != nil {
			logger.Error(statusErr, "Failed to update status")
		}
		return ctrl.Result{}, err
	}

	if err := r.updateStatus(ctx, kdc, nil); err != nil {
		logger.Error(err, "Failed to update status")
		return ctrl.Result{}, err
	}
	r.Recorder.Event(kdc, corev1.EventTypeNormal, ReasonSynced, "KDC is ready")

	return ctrl.Result{RequeueAfter: interval}, nil
}

// reconcileResources brings the Secrets, Service and Deployment of kdc to
// their desired state, in that order, and waits for the Deployment.
func (r *KdcReconciler) reconcileResources(ctx context.Context, kdc *kdcv1alpha1.Kdc) error {
	id := client.ObjectKeyFromObject(kdc)

	if err := r.Secrets.EnsureSecrets(ctx, id, kdc); err != nil {
		return fmt.Errorf("failed to ensure Secrets: %w", err)
	}
	if err := r.Engine.CreateService(ctx, id, kdc); err != nil {
		return fmt.Errorf("failed to reconcile Service: %w", err)
	}
	if err := r.Engine.CreateWorkload(ctx, id, kdc.Spec.Realm, kdc); err != nil {
		return fmt.Errorf("failed to reconcile Deployment: %w", err)
	}
	return r.Engine.WaitForReady(ctx, id)
}

// handleDeletion tears down the KDC and releases the finalizer.
func (r *KdcReconciler) handleDeletion(
	ctx context.Context,
	kdc *kdcv1alpha1.Kdc,
) (ctrl.Result, error) {
	logger := log.FromContext(ctx)

	if slices.Contains(kdc.Finalizers, finalizerName) {
		found, err := r.Engine.Delete(ctx, client.ObjectKeyFromObject(kdc))
		if err != nil {
			r.Recorder.Eventf(kdc, corev1.EventTypeWarning, ReasonTeardownFailed, "Teardown failed: %v", err)
			return ctrl.Result{}, err
		}
		logger.Info("Cleaned up KDC resources", "found", found)

		// Remove finalizer
		kdc.Finalizers = slices.DeleteFunc(kdc.Finalizers, func(s string) bool {
			return s == finalizerName
		})
		if err := r.Update(ctx, kdc); err != nil {
			logger.Error(err, "Failed to remove finalizer")
			return ctrl.Result{}, err
		}
	}

	monitoring.ForgetKdc(kdc.Name, kdc.Namespace)
	return ctrl.Result{}, nil
}

// updateStatus records the observed Deployment state on kdc. reconcileErr is
// the outcome of the reconcile so far: a readiness timeout keeps the Kdc
// progressing, any other error marks it failed.
func (r *KdcReconciler) updateStatus(
	ctx context.Context,
	kdc *kdcv1alpha1.Kdc,
	reconcileErr error,
) error {
	dp, _ := r.Engine.FindWorkload(ctx, client.ObjectKeyFromObject(kdc))
	counts := status.DeploymentReplicaCounts(dp)
	ready := reconcileErr == nil && status.IsReady(counts)

	phase := status.ComputePhase(ready, ptr.Deref(counts.Declared, 0))
	condition := buildReadyCondition(kdc, ready, reconcileErr)
	switch {
	case reconcileErr == nil:
	case errors.Is(reconcileErr, ErrReadinessTimeout):
		phase = kdcv1alpha1.PhaseProgressing
	default:
		phase = kdcv1alpha1.PhaseFailed
	}

	kdc.Status.Phase = phase
	kdc.Status.Ready = ready
	kdc.Status.ObservedGeneration = kdc.Generation
	meta.SetStatusCondition(&kdc.Status.Conditions, condition)

	monitoring.SetKdcInfo(kdc.Name, kdc.Namespace, string(phase))
	monitoring.SetKdcReplicas(kdc.Name, kdc.Namespace,
		ptr.Deref(counts.Declared, 0), ptr.Deref(counts.Available, 0))

	if err := r.Status().Update(ctx, kdc); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	return nil
}

// buildReadyCondition creates the Ready condition for kdc.
func buildReadyCondition(kdc *kdcv1alpha1.Kdc, ready bool, reconcileErr error) metav1.Condition {
	condition := metav1.Condition{
		Type:               kdcv1alpha1.ConditionReady,
		ObservedGeneration: kdc.Generation,
	}

	switch {
	case ready:
		condition.Status = metav1.ConditionTrue
		condition.Reason = reasonWorkloadReady
		condition.Message = "KDC workload is available"
	case reconcileErr == nil || errors.Is(reconcileErr, ErrReadinessTimeout):
		condition.Status = metav1.ConditionFalse
		condition.Reason = reasonWorkloadNotReady
		condition.Message = "Waiting for the KDC workload to become available"
	default:
		condition.Status = metav1.ConditionFalse
		condition.Reason = reasonReconcileFailed
		condition.Message = reconcileErr.Error()
	}
	return condition
}

// SetupWithManager sets up the controller with the Manager.
func (r *KdcReconciler) SetupWithManager(mgr ctrl.Manager) error {
	return ctrl.NewControllerManagedBy(mgr).
		For(&kdcv1alpha1.Kdc{}).
		Owns(&appsv1.Deployment{}).
		Owns(&corev1.Service{}).
		Owns(&corev1.Secret{}).
		WithOptions(controller.Options{MaxConcurrentReconciles: r.Config.MaxConcurrentReconciles}).
		Complete(r)
}
