package resolve

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	dserrors "github.com/systmms/valt/internal/errors"
	"github.com/systmms/valt/internal/providers"
	"github.com/systmms/valt/pkg/provider"
	"github.com/systmms/valt/tests/fakes"
)

const mutateConfig = `
version: 1
defaults:
  profile: dev
  vault:
    - provider: aws
      secret: app
env:
  DB_PASS:
    vault: [{provider: aws, key: password}]
  LOCAL_ONLY:
    vault: [{provider: aws, enabled: false}, {provider: dotenv, file: .env}]
  HIDDEN:
    policy: ignore
`

func approve(changes *[]Change, answer bool) Confirmer {
	return ConfirmFunc(func(c Change) (bool, error) {
		*changes = append(*changes, c)
		return answer, nil
	})
}

func newMutateResolver(t *testing.T, client *fakes.FakeSecretsManagerClient) *Resolver {
	t.Helper()

	r := newTestResolver(t, mutateConfig, "")
	r.RegisterProvider(providers.NewSecretStore(providers.WithSecretsManagerClient(client)))
	return r
}

func TestSetWritesAfterConfirmation(t *testing.T) {
	t.Parallel()

	client := fakes.NewFakeSecretsManagerClient().
		AddSecretString("app", `{"password":"old","user":"admin"}`)
	r := newMutateResolver(t, client)

	var changes []Change
	require.NoError(t, r.Set(context.Background(), "DB_PASS", strPtr("new"), approve(&changes, true)))

	require.Len(t, changes, 1)
	assert.Equal(t, provider.Reference{Provider: "aws", Source: "app", Key: "password"}, changes[0].Ref)
	require.NotNil(t, changes[0].Before)
	assert.Equal(t, "old", *changes[0].Before)
	assert.Equal(t, "new", *changes[0].After)

	stored, _ := client.SecretString("app")
	assert.JSONEq(t, `{"password":"new","user":"admin"}`, stored)

	// a fresh process reads the written value back
	fresh := newMutateResolver(t, client)
	report, err := fresh.Show(context.Background())
	require.Error(t, err) // LOCAL_ONLY has no value
	assert.Equal(t, "new", report.Values[0].Value)
	assert.Equal(t, KindStore, report.Values[0].Kind)
}

func TestSetUnset(t *testing.T) {
	t.Parallel()

	client := fakes.NewFakeSecretsManagerClient().
		AddSecretString("app", `{"password":"old","user":"admin"}`)
	r := newMutateResolver(t, client)

	var changes []Change
	require.NoError(t, r.Set(context.Background(), "DB_PASS", nil, approve(&changes, true)))
	assert.Nil(t, changes[0].After)

	stored, _ := client.SecretString("app")
	assert.JSONEq(t, `{"user":"admin"}`, stored)
}

func TestSetBeforeUnsetWhenKeyAbsent(t *testing.T) {
	t.Parallel()

	client := fakes.NewFakeSecretsManagerClient()
	r := newMutateResolver(t, client)

	var changes []Change
	require.NoError(t, r.Set(context.Background(), "DB_PASS", strPtr("v"), approve(&changes, true)))
	assert.Nil(t, changes[0].Before)

	stored, _ := client.SecretString("app")
	assert.JSONEq(t, `{"password":"v"}`, stored)
}

func TestSetCancelled(t *testing.T) {
	t.Parallel()

	client := fakes.NewFakeSecretsManagerClient().
		AddSecretString("app", `{"password":"old"}`)
	r := newMutateResolver(t, client)

	var changes []Change
	err := r.Set(context.Background(), "DB_PASS", strPtr("new"), approve(&changes, false))
	require.Error(t, err)
	assert.ErrorIs(t, err, dserrors.ErrSecretWriteCancelled)
	assert.Empty(t, client.PutCalls)
}

func TestSetFailures(t *testing.T) {
	t.Parallel()

	never := ConfirmFunc(func(Change) (bool, error) {
		t.Error("confirmation must not be requested")
		return false, nil
	})

	tests := []struct {
		name    string
		setup   func(*fakes.FakeSecretsManagerClient)
		varName string
		confirm Confirmer
		wantErr error
		message string
	}{
		{
			name:    "unknown variable",
			varName: "NOPE",
			confirm: never,
			wantErr: dserrors.ErrVariableUnknown,
		},
		{
			name:    "ignored variable",
			varName: "HIDDEN",
			confirm: never,
			wantErr: dserrors.ErrVariableIgnored,
		},
		{
			name:    "no aws descriptor",
			varName: "LOCAL_ONLY",
			confirm: never,
			wantErr: dserrors.ErrSecretWrite,
			message: "No aws provider and secret found for LOCAL_ONLY",
		},
		{
			name: "fetch failure",
			setup: func(c *fakes.FakeSecretsManagerClient) {
				c.AddError("app", errors.New("connection refused"))
			},
			varName: "DB_PASS",
			confirm: never,
			wantErr: dserrors.ErrSecretFetch,
		},
		{
			name: "confirmation error",
			setup: func(c *fakes.FakeSecretsManagerClient) {
				c.AddSecretString("app", `{}`)
			},
			varName: "DB_PASS",
			confirm: ConfirmFunc(func(Change) (bool, error) {
				return false, dserrors.ErrSecretWriteCancelled
			}),
			wantErr: dserrors.ErrSecretWriteCancelled,
		},
		{
			name: "write failure",
			setup: func(c *fakes.FakeSecretsManagerClient) {
				c.AddSecretString("app", `{}`).AddPutError("app", errors.New("AccessDeniedException"))
			},
			varName: "DB_PASS",
			confirm: ConfirmFunc(func(Change) (bool, error) { return true, nil }),
			wantErr: dserrors.ErrSecretWrite,
			message: "Failed to set secret: app",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := fakes.NewFakeSecretsManagerClient()
			if tt.setup != nil {
				tt.setup(client)
			}
			r := newMutateResolver(t, client)

			err := r.Set(context.Background(), tt.varName, strPtr("x"), tt.confirm)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.message != "" {
				message, _, _ := dserrors.Parts(err)
				assert.Equal(t, tt.message, message)
			}
			assert.Empty(t, client.PutCalls)
		})
	}
}

func TestSetRequiresWriter(t *testing.T) {
	t.Parallel()

	r := newTestResolver(t, mutateConfig, "")
	r.RegisterProvider(readOnly{fakes.NewFakeProvider("aws")})

	err := r.Set(context.Background(), "DB_PASS", strPtr("x"), ConfirmFunc(func(Change) (bool, error) { return true, nil }))
	require.Error(t, err)
	assert.ErrorIs(t, err, dserrors.ErrSecretWrite)
}

// readOnly hides the Writer methods of a provider.
type readOnly struct {
	p provider.Provider
}

func (r readOnly) Name() string { return r.p.Name() }

func (r readOnly) Resolve(ctx context.Context, ref provider.Reference) (provider.SecretValue, error) {
	return r.p.Resolve(ctx, ref)
}

func TestSetThroughWriterInterface(t *testing.T) {
	t.Parallel()

	r := newTestResolver(t, mutateConfig, "")
	fake := fakes.NewFakeProvider("aws").WithValue("app", "password", "old")
	r.RegisterProvider(fake)
	approveAll := ConfirmFunc(func(Change) (bool, error) { return true, nil })

	require.NoError(t, r.Set(context.Background(), "DB_PASS", strPtr("new"), approveAll))
	stored, ok := fake.Value("app", "password")
	require.True(t, ok)
	assert.Equal(t, "new", stored)
	assert.Equal(t, 1, fake.GetCallCount("Write"))

	fake.WithWriteError(errors.New("denied"))
	err := r.Set(context.Background(), "DB_PASS", strPtr("newer"), approveAll)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "denied")

	stored, _ = fake.Value("app", "password")
	assert.Equal(t, "new", stored)
}
