package providers

import (
	"context"
	"os"

	"github.com/systmms/valt/pkg/provider"
)

// EnvironmentProvider reads the process environment. Only ref.Key is used.
type EnvironmentProvider struct {
	lookup func(string) (string, bool)
}

// NewEnvironmentProvider reads from os.LookupEnv, or from lookup when given.
func NewEnvironmentProvider(lookup func(string) (string, bool)) *EnvironmentProvider {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return &EnvironmentProvider{lookup: lookup}
}

// Name returns the provider tag
func (p *EnvironmentProvider) Name() string {
	return "env"
}

// Resolve returns the environment variable named ref.Key. An unset variable
// is a NotFoundError; a set but empty one is a value.
func (p *EnvironmentProvider) Resolve(_ context.Context, ref provider.Reference) (provider.SecretValue, error) {
	value, ok := p.lookup(ref.Key)
	if !ok {
		return provider.SecretValue{}, &provider.NotFoundError{Provider: p.Name(), Source: "environment", Key: ref.Key}
	}
	return provider.SecretValue{
		Value:    value,
		Metadata: map[string]string{"provider": p.Name()},
	}, nil
}
