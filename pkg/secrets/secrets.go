// Package secrets manages the credential Secrets a KDC needs: the kadmin
// admin password and the KDC database master key.
//
// Secrets are created once and never rewritten: regenerating either
// credential would lock the running KDC out of its own database.
package secrets

import (
	"context"
	"crypto/rand"
	"fmt"

	"golang.org/x/sync/errgroup"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/log"

	kdcv1alpha1 "github.com/kdc-operator/kdc-operator/api/v1alpha1"
	"github.com/kdc-operator/kdc-operator/pkg/config"
	"github.com/kdc-operator/kdc-operator/pkg/resource"
	"github.com/kdc-operator/kdc-operator/pkg/util/metadata"
	"github.com/kdc-operator/kdc-operator/pkg/util/names"
)

// Manager finds and creates the credential Secrets of a Kdc.
type Manager struct {
	client  client.Client
	secrets *resource.Client[*corev1.Secret]
	scheme  *runtime.Scheme
	cfg     config.Config
}

// NewManager returns a Manager. scheme is only used to set owner references.
func NewManager(c client.Client, scheme *runtime.Scheme, cfg config.Config) *Manager {
	return &Manager{
		client:  c,
		secrets: resource.New(c, resource.SecretKind),
		scheme:  scheme,
		cfg:     cfg,
	}
}

// AdminSecretName returns the name of the admin password Secret of a Kdc.
func AdminSecretName(cfg config.Config, kdcName string) string {
	return names.Join(names.DefaultConstraints, kdcName, cfg.AdminPassword.SecretName)
}

// MasterKeySecretName returns the name of the master key Secret of a Kdc.
func MasterKeySecretName(cfg config.Config, kdcName string) string {
	return names.Join(names.DefaultConstraints, kdcName, cfg.MasterKey.SecretName)
}

// AdminSecretName returns the name of the admin password Secret of a Kdc.
func (m *Manager) AdminSecretName(kdcName string) string {
	return AdminSecretName(m.cfg, kdcName)
}

// MasterKeySecretName returns the name of the master key Secret of a Kdc.
func (m *Manager) MasterKeySecretName(kdcName string) string {
	return MasterKeySecretName(m.cfg, kdcName)
}

// FindAdminSecret returns the admin password Secret of the Kdc identified by id.
func (m *Manager) FindAdminSecret(ctx context.Context, id types.NamespacedName) (*corev1.Secret, bool) {
	return m.secrets.Find(ctx, types.NamespacedName{Namespace: id.Namespace, Name: m.AdminSecretName(id.Name)})
}

// FindMasterKeySecret returns the master key Secret of the Kdc identified by id.
func (m *Manager) FindMasterKeySecret(ctx context.Context, id types.NamespacedName) (*corev1.Secret, bool) {
	return m.secrets.Find(ctx, types.NamespacedName{Namespace: id.Namespace, Name: m.MasterKeySecretName(id.Name)})
}

// secretSpec names one credential Secret to ensure.
type secretSpec struct {
	name      string
	key       string
	component string
}

// EnsureSecrets creates the admin password and master key Secrets of the Kdc
// identified by id if they do not exist. Existing Secrets are left untouched.
// owner, when non-nil, becomes the controller owner of new Secrets.
//
// With parallelSecretCreation both Secrets are handled concurrently.
func (m *Manager) EnsureSecrets(ctx context.Context, id types.NamespacedName, owner *kdcv1alpha1.Kdc) error {
	specs := []secretSpec{
		{name: m.AdminSecretName(id.Name), key: m.cfg.AdminPassword.SecretKey, component: metadata.ComponentAdminPassword},
		{name: m.MasterKeySecretName(id.Name), key: m.cfg.MasterKey.SecretKey, component: metadata.ComponentMasterKey},
	}

	if !m.cfg.ParallelSecretCreation {
		for _, spec := range specs {
			if err := m.ensure(ctx, id, spec, owner); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, spec := range specs {
		g.Go(func() error {
			return m.ensure(gctx, id, spec, owner)
		})
	}
	return g.Wait()
}

func (m *Manager) ensure(ctx context.Context, id types.NamespacedName, spec secretSpec, owner *kdcv1alpha1.Kdc) error {
	logger := log.FromContext(ctx).WithValues("namespace", id.Namespace, "secret", spec.name)
	key := types.NamespacedName{Namespace: id.Namespace, Name: spec.name}

	if _, ok := m.secrets.Find(ctx, key); ok {
		return nil
	}

	secret, err := m.build(id, spec, owner)
	if err != nil {
		return err
	}

	if err := m.client.Create(ctx, secret); err != nil {
		if apierrors.IsAlreadyExists(err) {
			// A concurrent reconcile created it first.
			return nil
		}
		logger.Error(err, "Failed to create Secret")
		return &resource.PlatformOperationError{Op: "create", Kind: resource.SecretKind.Name, Key: key, Err: err}
	}

	logger.Info("Created Secret")
	return nil
}

func (m *Manager) build(id types.NamespacedName, spec secretSpec, owner *kdcv1alpha1.Kdc) (*corev1.Secret, error) {
	secret := &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{
			Name:      spec.name,
			Namespace: id.Namespace,
			Labels:    metadata.BuildStandardLabels(id.Name, spec.component),
		},
		Type: corev1.SecretTypeOpaque,
		Data: map[string][]byte{
			spec.key: []byte(rand.Text()),
		},
	}

	if owner != nil {
		if err := ctrl.SetControllerReference(owner, secret, m.scheme); err != nil {
			return nil, fmt.Errorf("failed to set controller reference: %w", err)
		}
	}
	return secret, nil
}
