// Package envtestutil provides a failure-injecting wrapper around the
// controller-runtime fake client for controller and engine tests.
package envtestutil

import (
	"context"
	"errors"
	"sync"

	"sigs.k8s.io/controller-runtime/pkg/client"
)

// FailureConfig configures when the fake client should return errors.
// Hooks run before the wrapped call; a non-nil error fails the call without
// reaching the underlying client. Hooks may be called concurrently.
type FailureConfig struct {
	// OnGet is called before Get. obj is the (empty) destination object,
	// which tells the hook which kind is being read.
	OnGet func(key client.ObjectKey, obj client.Object) error

	// AfterGet is called after a successful Get with the populated object.
	// It may mutate obj to simulate state the platform would report, such as
	// a Deployment status written by the deployment controller.
	AfterGet func(key client.ObjectKey, obj client.Object)

	// OnCreate is called before Create.
	OnCreate func(obj client.Object) error

	// OnUpdate is called before Update.
	OnUpdate func(obj client.Object) error

	// OnDelete is called before Delete.
	OnDelete func(obj client.Object) error

	// OnStatusUpdate is called before Status().Update().
	OnStatusUpdate func(obj client.Object) error
}

// fakeClientWithFailures wraps a real fake client and injects failures based on configuration.
type fakeClientWithFailures struct {
	client.Client
	config *FailureConfig
}

// NewFakeClientWithFailures creates a fake client that can be configured to fail operations.
func NewFakeClientWithFailures(baseClient client.Client, config *FailureConfig) client.Client {
	if config == nil {
		config = &FailureConfig{}
	}
	return &fakeClientWithFailures{
		Client: baseClient,
		config: config,
	}
}

func (c *fakeClientWithFailures) Get(
	ctx context.Context,
	key client.ObjectKey,
	obj client.Object,
	opts ...client.GetOption,
) error {
	if c.config.OnGet != nil {
		if err := c.config.OnGet(key, obj); err != nil {
			return err
		}
	}
	if err := c.Client.Get(ctx, key, obj, opts...); err != nil {
		return err
	}
	if c.config.AfterGet != nil {
		c.config.AfterGet(key, obj)
	}
	return nil
}

func (c *fakeClientWithFailures) Create(
	ctx context.Context,
	obj client.Object,
	opts ...client.CreateOption,
) error {
	if c.config.OnCreate != nil {
		if err := c.config.OnCreate(obj); err != nil {
			return err
		}
	}
	return c.Client.Create(ctx, obj, opts...)
}

func (c *fakeClientWithFailures) Update(
	ctx context.Context,
	obj client.Object,
	opts ...client.UpdateOption,
) error {
	if c.config.OnUpdate != nil {
		if err := c.config.OnUpdate(obj); err != nil {
			return err
		}
	}
	return c.Client.Update(ctx, obj, opts...)
}

func (c *fakeClientWithFailures) Delete(
	ctx context.Context,
	obj client.Object,
	opts ...client.DeleteOption,
) error {
	if c.config.OnDelete != nil {
		if err := c.config.OnDelete(obj); err != nil {
			return err
		}
	}
	return c.Client.Delete(ctx, obj, opts...)
}

func (c *fakeClientWithFailures) Status() client.StatusWriter {
	return &statusWriterWithFailures{
		StatusWriter: c.Client.Status(),
		config:       c.config,
	}
}

type statusWriterWithFailures struct {
	client.StatusWriter
	config *FailureConfig
}

func (s *statusWriterWithFailures) Update(
	ctx context.Context,
	obj client.Object,
	opts ...client.SubResourceUpdateOption,
) error {
	if s.config.OnStatusUpdate != nil {
		if err := s.config.OnStatusUpdate(obj); err != nil {
			return err
		}
	}
	return s.StatusWriter.Update(ctx, obj, opts...)
}

// Helper functions for common failure scenarios

// FailOnKind returns err for every object of type T, e.g.
// FailOnKind[*appsv1.Deployment](ErrInjected).
func FailOnKind[T client.Object](err error) func(client.Object) error {
	return func(obj client.Object) error {
		if _, ok := obj.(T); ok {
			return err
		}
		return nil
	}
}

// FailGetOnKind is FailOnKind for OnGet.
func FailGetOnKind[T client.Object](err error) func(client.ObjectKey, client.Object) error {
	match := FailOnKind[T](err)
	return func(_ client.ObjectKey, obj client.Object) error {
		return match(obj)
	}
}

// FailOnObjectName returns an error if the object name matches.
func FailOnObjectName(name string, err error) func(client.Object) error {
	return func(obj client.Object) error {
		if obj.GetName() == name {
			return err
		}
		return nil
	}
}

// FailOnKeyName returns an error if the key name matches.
func FailOnKeyName(name string, err error) func(client.ObjectKey, client.Object) error {
	return func(key client.ObjectKey, _ client.Object) error {
		if key.Name == name {
			return err
		}
		return nil
	}
}

// FailObjAfterNCalls returns an Object failure function that fails every
// call after the first n.
func FailObjAfterNCalls(n int, err error) func(client.Object) error {
	var mu sync.Mutex
	count := 0
	return func(client.Object) error {
		mu.Lock()
		defer mu.Unlock()
		count++
		if count > n {
			return err
		}
		return nil
	}
}

// Common errors for testing
var (
	ErrInjected        = errors.New("injected test error")
	ErrNetworkTimeout  = errors.New("network timeout")
	ErrPermissionError = errors.New("permission denied")
)
