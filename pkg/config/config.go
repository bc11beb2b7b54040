package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/yaml"

	kdcv1alpha1 "github.com/kdc-operator/kdc-operator/api/v1alpha1"
)

const (
	// DefaultPath is where the configuration file is looked up when neither
	// the flag nor PathEnv point elsewhere.
	DefaultPath = "/etc/kdc-operator/config.yaml"

	// PathEnv overrides the configuration file path.
	PathEnv = "KDC_OPERATOR_CONFIG"

	// EnvPrefix prefixes every per-field environment override.
	EnvPrefix = "KDC_OPERATOR_"
)

// Default command lines for the two KDC containers. $(KRB5_REALM) is expanded
// by the kubelet from the container environment.
const (
	DefaultKdcCommand    = "/usr/sbin/krb5kdc -n -r $(KRB5_REALM)"
	DefaultKadminCommand = "/usr/sbin/kadmind -nofork -r $(KRB5_REALM)"
)

// SecretRef names a Secret and the key inside it holding a credential.
// The Secret name is suffixed to the Kdc name, so each KDC gets its own.
type SecretRef struct {
	SecretName string `json:"secretName" validate:"required,hostname_rfc1123"`
	SecretKey  string `json:"secretKey"  validate:"required"`
}

// Config is the static operator configuration.
type Config struct {
	// Image is the container image running krb5kdc and kadmind.
	Image string `json:"image" validate:"required"`

	// KdcCommand is the shell command line of the kdc container.
	KdcCommand string `json:"kdcCommand" validate:"required"`

	// KadminCommand is the shell command line of the kadmin container.
	KadminCommand string `json:"kadminCommand" validate:"required"`

	// AdminPassword references the kadmin/admin password Secret.
	AdminPassword SecretRef `json:"adminPassword"`

	// MasterKey references the KDC database master key Secret.
	MasterKey SecretRef `json:"masterKey"`

	// ReconcilerInterval is how often a Kdc is re-synced after a successful
	// reconcile, and how long to wait before retrying a workload that is not
	// ready yet.
	ReconcilerInterval metav1.Duration `json:"reconcilerInterval"`

	// ResourcePrefix is prepended to the names of the Deployment and Service
	// owned by a Kdc. Empty means the Kdc name is used as is.
	ResourcePrefix string `json:"resourcePrefix,omitempty" validate:"omitempty,hostname_rfc1123"`

	// CRDVersion is the Kdc CRD version the operator serves.
	CRDVersion string `json:"crdVersion" validate:"required"`

	// ParallelSecretCreation creates a Kdc's Secrets concurrently.
	ParallelSecretCreation bool `json:"parallelSecretCreation"`

	// MaxConcurrentReconciles bounds how many Kdc objects are reconciled at once.
	MaxConcurrentReconciles int `json:"maxConcurrentReconciles" validate:"min=1"`
}

// Default returns the built-in configuration. Image has no default and must
// be provided by the file or the environment.
func Default() Config {
	return Config{
		KdcCommand:    DefaultKdcCommand,
		KadminCommand: DefaultKadminCommand,
		AdminPassword: SecretRef{
			SecretName: "admin-password",
			SecretKey:  "password",
		},
		MasterKey: SecretRef{
			SecretName: "master-key",
			SecretKey:  "password",
		},
		ReconcilerInterval:      metav1.Duration{Duration: 30 * time.Second},
		CRDVersion:              kdcv1alpha1.Version,
		MaxConcurrentReconciles: 1,
	}
}

// LookupEnvFunc matches os.LookupEnv.
type LookupEnvFunc func(key string) (string, bool)

// Load resolves the configuration file path, reads the file if present,
// applies environment overrides and validates the result.
//
// flagPath is the value of the --config flag and may be empty. A file that
// was asked for explicitly (via flag or PathEnv) must exist; a missing file
// at DefaultPath is not an error.
func Load(flagPath string, lookupEnv LookupEnvFunc) (Config, error) {
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}

	cfg := Default()

	path, explicit := ResolvePath(flagPath, lookupEnv)
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// Defaults and environment only.
	default:
		return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := applyEnv(&cfg, lookupEnv); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ResolvePath returns the configuration file path and whether it was chosen
// explicitly rather than defaulted.
func ResolvePath(flagPath string, lookupEnv LookupEnvFunc) (string, bool) {
	if p, ok := lookupEnv(PathEnv); ok && p != "" {
		return p, true
	}
	if flagPath != "" {
		return flagPath, true
	}
	return DefaultPath, false
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks that every required field is set and consistent.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid operator configuration: %w", err)
	}
	if c.CRDVersion != kdcv1alpha1.Version {
		return fmt.Errorf("invalid operator configuration: crdVersion %q is not served, want %q",
			c.CRDVersion, kdcv1alpha1.Version)
	}
	if c.ReconcilerInterval.Duration <= 0 {
		return fmt.Errorf("invalid operator configuration: reconcilerInterval must be positive, got %s",
			c.ReconcilerInterval.Duration)
	}
	return nil
}

// envField binds one KDC_OPERATOR_<NAME> variable to a setter.
type envField struct {
	name string
	set  func(c *Config, v string) error
}

func setString(dst func(c *Config) *string) func(*Config, string) error {
	return func(c *Config, v string) error {
		*dst(c) = v
		return nil
	}
}

var envFields = []envField{
	{"IMAGE", setString(func(c *Config) *string { return &c.Image })},
	{"KDC_COMMAND", setString(func(c *Config) *string { return &c.KdcCommand })},
	{"KADMIN_COMMAND", setString(func(c *Config) *string { return &c.KadminCommand })},
	{"ADMIN_PASSWORD_SECRET_NAME", setString(func(c *Config) *string { return &c.AdminPassword.SecretName })},
	{"ADMIN_PASSWORD_SECRET_KEY", setString(func(c *Config) *string { return &c.AdminPassword.SecretKey })},
	{"MASTER_KEY_SECRET_NAME", setString(func(c *Config) *string { return &c.MasterKey.SecretName })},
	{"MASTER_KEY_SECRET_KEY", setString(func(c *Config) *string { return &c.MasterKey.SecretKey })},
	{"RESOURCE_PREFIX", setString(func(c *Config) *string { return &c.ResourcePrefix })},
	{"CRD_VERSION", setString(func(c *Config) *string { return &c.CRDVersion })},
	{"RECONCILER_INTERVAL", func(c *Config, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		c.ReconcilerInterval = metav1.Duration{Duration: d}
		return nil
	}},
	{"PARALLEL_SECRET_CREATION", func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		c.ParallelSecretCreation = b
		return nil
	}},
	{"MAX_CONCURRENT_RECONCILES", func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		c.MaxConcurrentReconciles = n
		return nil
	}},
}

func applyEnv(cfg *Config, lookupEnv LookupEnvFunc) error {
	for _, f := range envFields {
		v, ok := lookupEnv(EnvPrefix + f.name)
		if !ok {
			continue
		}
		if err := f.set(cfg, v); err != nil {
			return fmt.Errorf("invalid value for %s%s: %w", EnvPrefix, f.name, err)
		}
	}
	return nil
}
