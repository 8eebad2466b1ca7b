package secrets

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

type fakeOPService struct {
	secrets map[string]string
	calls   int
}

func (f *fakeOPService) Resolve(_ context.Context, ref string) (string, error) {
	f.calls++
	if v, ok := f.secrets[ref]; ok {
		return v, nil
	}
	return "", errors.New("item not found")
}

func TestParseScheme(t *testing.T) {
	tests := []struct {
		value  string
		scheme Scheme
		ok     bool
	}{
		{"op://vault/android/store", SchemeOnePassword, true},
		{"keyring:signcfg/store", SchemeKeyring, true},
		{"env:STORE_PASSWORD", SchemeEnv, true},
		{"plain-password", "", false},
		{"op:/not-quite", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			scheme, ok := ParseScheme(tt.value)
			assert.Equal(t, tt.scheme, scheme)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.ok, IsReference(tt.value))
		})
	}
}

func TestResolver_LiteralPassesThroughWithoutBackend(t *testing.T) {
	r := NewResolverWithFactories(nil)
	got, err := r.Resolve(context.Background(), "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "hunter2", got)
}

func TestResolver_OnePasswordIsCreatedOnce(t *testing.T) {
	svc := &fakeOPService{secrets: map[string]string{"op://ci/android/store": "from-1password"}}
	created := 0
	r := NewResolverWithFactories(map[Scheme]BackendFactory{
		SchemeOnePassword: func(context.Context) (Backend, error) {
			created++
			return NewOnePasswordBackendWithService(svc), nil
		},
	})

	for i := 0; i < 2; i++ {
		got, err := r.Resolve(context.Background(), "op://ci/android/store")
		require.NoError(t, err)
		assert.Equal(t, "from-1password", got)
	}
	assert.Equal(t, 1, created)
	assert.Equal(t, 2, svc.calls)

	_, err := r.Resolve(context.Background(), "op://ci/android/missing")
	assert.ErrorContains(t, err, "item not found")
}

func TestResolver_FactoryError(t *testing.T) {
	r := NewResolverWithFactories(map[Scheme]BackendFactory{
		SchemeOnePassword: func(context.Context) (Backend, error) {
			return nil, errors.New("OP_SERVICE_ACCOUNT_TOKEN is not set")
		},
	})
	_, err := r.Resolve(context.Background(), "op://ci/android/store")
	assert.ErrorContains(t, err, "create op backend")
}

func TestResolver_UnconfiguredScheme(t *testing.T) {
	r := NewResolverWithFactories(map[Scheme]BackendFactory{})
	_, err := r.Resolve(context.Background(), "env:HOME")
	assert.ErrorContains(t, err, "no backend configured for env references")
}

func TestOnePasswordBackend_RejectsOtherReferences(t *testing.T) {
	b := NewOnePasswordBackendWithService(&fakeOPService{})
	_, err := b.Resolve(context.Background(), "vault/item")
	assert.ErrorContains(t, err, "invalid 1Password reference")
}

func TestNewOnePasswordBackend_MissingToken(t *testing.T) {
	t.Setenv(OnePasswordTokenEnv, "")
	_, err := NewOnePasswordBackend(context.Background())
	assert.ErrorContains(t, err, "OP_SERVICE_ACCOUNT_TOKEN is not set")
}

func TestEnvBackend(t *testing.T) {
	env := map[string]string{"STORE_PASSWORD": "from-env", "EMPTY": ""}
	b := NewEnvBackend(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})

	got, err := b.Resolve(context.Background(), "env:STORE_PASSWORD")
	require.NoError(t, err)
	assert.Equal(t, "from-env", got)

	got, err = b.Resolve(context.Background(), "env:EMPTY")
	require.NoError(t, err)
	assert.Equal(t, "", got)

	_, err = b.Resolve(context.Background(), "env:UNSET")
	assert.ErrorContains(t, err, "UNSET is not set")

	_, err = b.Resolve(context.Background(), "env:")
	assert.Error(t, err)
}

func TestKeyringBackend(t *testing.T) {
	keyring.MockInit()
	require.NoError(t, keyring.Set("signcfg", "store", "from-keyring"))

	b := NewKeyringBackend()

	got, err := b.Resolve(context.Background(), "keyring:signcfg/store")
	require.NoError(t, err)
	assert.Equal(t, "from-keyring", got)

	_, err = b.Resolve(context.Background(), "keyring:signcfg/absent")
	assert.ErrorContains(t, err, "no keyring entry")

	_, err = b.Resolve(context.Background(), "keyring:noslash")
	assert.ErrorContains(t, err, "invalid keyring reference")
}
