package secrets_test

import (
	"errors"
	"testing"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	kdcv1alpha1 "github.com/kdc-operator/kdc-operator/api/v1alpha1"
	"github.com/kdc-operator/kdc-operator/pkg/config"
	"github.com/kdc-operator/kdc-operator/pkg/envtestutil"
	"github.com/kdc-operator/kdc-operator/pkg/resource"
	"github.com/kdc-operator/kdc-operator/pkg/secrets"
)

var id = types.NamespacedName{Namespace: "krb-ns", Name: "kdc-1"}

func newScheme() *runtime.Scheme {
	scheme := runtime.NewScheme()
	_ = corev1.AddToScheme(scheme)
	_ = kdcv1alpha1.AddToScheme(scheme)
	return scheme
}

func testConfig(parallel bool) config.Config {
	cfg := config.Default()
	cfg.Image = "example.com/krb5:test"
	cfg.ParallelSecretCreation = parallel
	return cfg
}

func TestManager_Names(t *testing.T) {
	m := secrets.NewManager(nil, nil, testConfig(false))
	if got, want := m.AdminSecretName("kdc-1"), "kdc-1-admin-password"; got != want {
		t.Errorf("AdminSecretName() = %q, want %q", got, want)
	}
	if got, want := m.MasterKeySecretName("kdc-1"), "kdc-1-master-key"; got != want {
		t.Errorf("MasterKeySecretName() = %q, want %q", got, want)
	}
}

func TestManager_EnsureSecrets(t *testing.T) {
	t.Parallel()

	owner := &kdcv1alpha1.Kdc{
		ObjectMeta: metav1.ObjectMeta{Name: id.Name, Namespace: id.Namespace, UID: "uid-1"},
		Spec:       kdcv1alpha1.KdcSpec{Realm: "EXAMPLE.COM"},
	}

	preexisting := &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{Name: "kdc-1-admin-password", Namespace: id.Namespace},
		Data:       map[string][]byte{"password": []byte("keep-me")},
	}

	tests := map[string]struct {
		parallel  bool
		existing  []client.Object
		failure   *envtestutil.FailureConfig
		owner     *kdcv1alpha1.Kdc
		wantErr   bool
		wantAdmin string
	}{
		"sequential creates both": {
			parallel: false,
			owner:    owner,
		},
		"parallel creates both": {
			parallel: true,
			owner:    owner,
		},
		"existing secret is not rewritten": {
			existing:  []client.Object{preexisting.DeepCopy()},
			wantAdmin: "keep-me",
		},
		"lost create race is success": {
			existing: []client.Object{preexisting.DeepCopy()},
			failure: &envtestutil.FailureConfig{
				OnGet: envtestutil.FailGetOnKind[*corev1.Secret](envtestutil.ErrNetworkTimeout),
			},
			wantAdmin: "keep-me",
		},
		"create failure": {
			failure: &envtestutil.FailureConfig{
				OnCreate: envtestutil.FailOnObjectName("kdc-1-master-key", envtestutil.ErrPermissionError),
			},
			wantErr: true,
		},
		"create failure in parallel": {
			parallel: true,
			failure: &envtestutil.FailureConfig{
				OnCreate: envtestutil.FailOnObjectName("kdc-1-master-key", envtestutil.ErrPermissionError),
			},
			wantErr: true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			base := fake.NewClientBuilder().WithScheme(newScheme()).WithObjects(tc.existing...).Build()
			c := client.Client(base)
			if tc.failure != nil {
				c = envtestutil.NewFakeClientWithFailures(base, tc.failure)
			}
			m := secrets.NewManager(c, newScheme(), testConfig(tc.parallel))

			err := m.EnsureSecrets(t.Context(), id, tc.owner)
			if (err != nil) != tc.wantErr {
				t.Fatalf("EnsureSecrets() error = %v, wantErr %v", err, tc.wantErr)
			}
			if tc.wantErr {
				var perr *resource.PlatformOperationError
				if !errors.As(err, &perr) {
					t.Errorf("error = %v, want *PlatformOperationError", err)
				}
				return
			}

			for _, secretName := range []string{"kdc-1-admin-password", "kdc-1-master-key"} {
				s := &corev1.Secret{}
				if err := base.Get(t.Context(), types.NamespacedName{Namespace: id.Namespace, Name: secretName}, s); err != nil {
					t.Fatalf("Secret %s should exist: %v", secretName, err)
				}
				if len(s.Data["password"]) == 0 {
					t.Errorf("Secret %s has no password", secretName)
				}
				if tc.owner != nil {
					if len(s.OwnerReferences) != 1 || s.OwnerReferences[0].UID != tc.owner.UID {
						t.Errorf("Secret %s owner references = %v, want controller ref to %s",
							secretName, s.OwnerReferences, tc.owner.UID)
					}
				}
			}

			if tc.wantAdmin != "" {
				admin, ok := secrets.NewManager(base, nil, testConfig(false)).FindAdminSecret(t.Context(), id)
				if !ok {
					t.Fatal("FindAdminSecret() found nothing")
				}
				if got := string(admin.Data["password"]); got != tc.wantAdmin {
					t.Errorf("admin password = %q, want %q", got, tc.wantAdmin)
				}
			}
		})
	}
}

func TestManager_EnsureSecretsIsIdempotent(t *testing.T) {
	t.Parallel()

	base := fake.NewClientBuilder().WithScheme(newScheme()).Build()
	m := secrets.NewManager(base, newScheme(), testConfig(false))

	if err := m.EnsureSecrets(t.Context(), id, nil); err != nil {
		t.Fatalf("first EnsureSecrets() error = %v", err)
	}
	first, _ := m.FindMasterKeySecret(t.Context(), id)

	if err := m.EnsureSecrets(t.Context(), id, nil); err != nil {
		t.Fatalf("second EnsureSecrets() error = %v", err)
	}
	second, ok := m.FindMasterKeySecret(t.Context(), id)
	if !ok {
		t.Fatal("FindMasterKeySecret() found nothing")
	}
	if string(first.Data["password"]) != string(second.Data["password"]) {
		t.Error("master key changed between reconciles")
	}
}

func TestManager_FindAdminSecretAbsent(t *testing.T) {
	base := fake.NewClientBuilder().WithScheme(newScheme()).Build()
	m := secrets.NewManager(base, newScheme(), testConfig(false))

	if s, ok := m.FindAdminSecret(t.Context(), id); ok || s != nil {
		t.Errorf("FindAdminSecret() = (%v, %v), want (nil, false)", s, ok)
	}
}
