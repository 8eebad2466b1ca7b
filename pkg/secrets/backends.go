package secrets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/1password/onepassword-sdk-go"
	"github.com/zalando/go-keyring"

	"github.com/huanfeng/signcfg/internal/version"
)

// OnePasswordTokenEnv holds the service account token for op:// references.
const OnePasswordTokenEnv = "OP_SERVICE_ACCOUNT_TOKEN"

// OPSecretsService is the part of the 1Password client we use.
type OPSecretsService interface {
	Resolve(ctx context.Context, secretReference string) (string, error)
}

// OnePasswordBackend resolves op:// references.
type OnePasswordBackend struct {
	service OPSecretsService
}

// NewOnePasswordBackend creates a 1Password client from OP_SERVICE_ACCOUNT_TOKEN.
func NewOnePasswordBackend(ctx context.Context) (*OnePasswordBackend, error) {
	token := strings.TrimSpace(os.Getenv(OnePasswordTokenEnv))
	if token == "" {
		return nil, fmt.Errorf("%s is not set", OnePasswordTokenEnv)
	}

	client, err := onepassword.NewClient(
		ctx,
		onepassword.WithServiceAccountToken(token),
		onepassword.WithIntegrationInfo("signcfg", version.Short()),
	)
	if err != nil {
		return nil, fmt.Errorf("error creating 1Password client: %w", err)
	}

	return &OnePasswordBackend{service: client.Secrets}, nil
}

// NewOnePasswordBackendWithService is used by tests to inject a fake service.
func NewOnePasswordBackendWithService(service OPSecretsService) *OnePasswordBackend {
	return &OnePasswordBackend{service: service}
}

// Resolve implements Backend.
func (b *OnePasswordBackend) Resolve(ctx context.Context, reference string) (string, error) {
	if !strings.HasPrefix(reference, "op://") {
		return "", fmt.Errorf("invalid 1Password reference: %s", reference)
	}
	return b.service.Resolve(ctx, reference)
}

// KeyringBackend resolves keyring:service/key references.
type KeyringBackend struct {
	get func(service, key string) (string, error)
}

// NewKeyringBackend returns a backend reading the OS keyring.
func NewKeyringBackend() *KeyringBackend {
	return &KeyringBackend{get: keyring.Get}
}

// Resolve implements Backend.
func (b *KeyringBackend) Resolve(_ context.Context, reference string) (string, error) {
	service, key, err := splitKeyringReference(reference)
	if err != nil {
		return "", err
	}

	secret, err := b.get(service, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", fmt.Errorf("no keyring entry for service %q key %q", service, key)
	}
	if err != nil {
		return "", err
	}
	return secret, nil
}

func splitKeyringReference(reference string) (string, string, error) {
	rest := strings.TrimPrefix(reference, "keyring:")
	service, key, ok := strings.Cut(rest, "/")
	if !ok || service == "" || key == "" {
		return "", "", fmt.Errorf("invalid keyring reference %q, expected keyring:<service>/<key>", reference)
	}
	return service, key, nil
}

// EnvBackend resolves env:NAME references.
type EnvBackend struct {
	lookup func(string) (string, bool)
}

// NewEnvBackend returns an environment backend. A nil lookup uses os.LookupEnv.
func NewEnvBackend(lookup func(string) (string, bool)) *EnvBackend {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return &EnvBackend{lookup: lookup}
}

// Resolve implements Backend. An unset variable is an error; an empty one is not.
func (b *EnvBackend) Resolve(_ context.Context, reference string) (string, error) {
	name := strings.TrimPrefix(reference, "env:")
	if name == "" {
		return "", fmt.Errorf("invalid env reference %q", reference)
	}
	value, ok := b.lookup(name)
	if !ok {
		return "", fmt.Errorf("environment variable %s is not set", name)
	}
	return value, nil
}
