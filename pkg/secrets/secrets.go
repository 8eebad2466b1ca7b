// Package secrets expands secret references found in credential fields.
//
// A value is a reference when it starts with one of the known prefixes:
//
//	op://vault/item/field   1Password, via a service account token
//	keyring:service/key     the OS keyring
//	env:NAME                an environment variable
//
// Anything else is a literal and is returned unchanged.
package secrets

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Scheme identifies the backend a reference is resolved with.
type Scheme string

const (
	SchemeOnePassword Scheme = "op"
	SchemeKeyring     Scheme = "keyring"
	SchemeEnv         Scheme = "env"
)

// DefaultTimeout bounds a single resolution.
const DefaultTimeout = 5 * time.Second

// Backend resolves a reference of a single scheme. The reference passed in is
// the full value, prefix included.
type Backend interface {
	Resolve(ctx context.Context, reference string) (string, error)
}

// BackendFactory creates a backend on first use.
type BackendFactory func(ctx context.Context) (Backend, error)

// ParseScheme returns the scheme of value and whether it is a reference.
func ParseScheme(value string) (Scheme, bool) {
	switch {
	case strings.HasPrefix(value, "op://"):
		return SchemeOnePassword, true
	case strings.HasPrefix(value, "keyring:"):
		return SchemeKeyring, true
	case strings.HasPrefix(value, "env:"):
		return SchemeEnv, true
	default:
		return "", false
	}
}

// IsReference reports whether value should be resolved rather than used literally.
func IsReference(value string) bool {
	_, ok := ParseScheme(value)
	return ok
}

// Resolver dispatches references to backends, creating each backend lazily.
type Resolver struct {
	mu        sync.Mutex
	factories map[Scheme]BackendFactory
	backends  map[Scheme]Backend
	timeout   time.Duration
}

// NewResolver returns a resolver wired to the 1Password, keyring and
// environment backends.
func NewResolver() *Resolver {
	return NewResolverWithFactories(map[Scheme]BackendFactory{
		SchemeOnePassword: func(ctx context.Context) (Backend, error) { return NewOnePasswordBackend(ctx) },
		SchemeKeyring:     func(context.Context) (Backend, error) { return NewKeyringBackend(), nil },
		SchemeEnv:         func(context.Context) (Backend, error) { return NewEnvBackend(nil), nil },
	})
}

// NewResolverWithFactories returns a resolver using the given factories.
func NewResolverWithFactories(factories map[Scheme]BackendFactory) *Resolver {
	return &Resolver{
		factories: factories,
		backends:  make(map[Scheme]Backend),
		timeout:   DefaultTimeout,
	}
}

// Resolve returns the secret behind value. Literals are returned unchanged.
func (r *Resolver) Resolve(ctx context.Context, value string) (string, error) {
	scheme, ok := ParseScheme(value)
	if !ok {
		return value, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	backend, err := r.backend(ctx, scheme)
	if err != nil {
		return "", err
	}

	secret, err := backend.Resolve(ctx, value)
	if err != nil {
		return "", fmt.Errorf("resolve %s reference: %w", scheme, err)
	}
	return secret, nil
}

func (r *Resolver) backend(ctx context.Context, scheme Scheme) (Backend, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if b, ok := r.backends[scheme]; ok {
		return b, nil
	}

	factory, ok := r.factories[scheme]
	if !ok {
		return nil, fmt.Errorf("no backend configured for %s references", scheme)
	}

	b, err := factory(ctx)
	if err != nil {
		return nil, fmt.Errorf("create %s backend: %w", scheme, err)
	}
	r.backends[scheme] = b
	return b, nil
}
