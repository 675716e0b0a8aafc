package provider

import (
	"context"
	"testing"
)

// ContractTest defines a standard test suite that all providers must pass
type ContractTest struct {
	// CreateProvider creates a new instance of the provider to test
	CreateProvider func(t *testing.T) Provider

	// Present is a reference that must resolve to Want.
	Present Reference
	Want    string

	// Absent is a reference that must produce a NotFoundError. Leave the
	// provider empty to skip the check.
	Absent Reference
}

// RunContractTests runs the standard provider contract test suite
func RunContractTests(t *testing.T, contract ContractTest) {
	t.Run("Contract", func(t *testing.T) {
		t.Run("Name", func(t *testing.T) {
			p := contract.CreateProvider(t)
			if p.Name() == "" {
				t.Error("provider name must not be empty")
			}
			if p.Name() != contract.Present.Provider {
				t.Errorf("provider name %q does not match reference provider %q", p.Name(), contract.Present.Provider)
			}
		})

		t.Run("Resolve", func(t *testing.T) {
			p := contract.CreateProvider(t)
			got, err := p.Resolve(context.Background(), contract.Present)
			if err != nil {
				t.Fatalf("Resolve(%s) failed: %v", contract.Present, err)
			}
			if got.Value != contract.Want {
				t.Errorf("Resolve(%s) = %q, want %q", contract.Present, got.Value, contract.Want)
			}
		})

		if contract.Absent.Provider != "" {
			t.Run("ResolveNotFound", func(t *testing.T) {
				p := contract.CreateProvider(t)
				_, err := p.Resolve(context.Background(), contract.Absent)
				if !IsNotFound(err) {
					t.Errorf("Resolve(%s) error = %v, want NotFoundError", contract.Absent, err)
				}
			})
		}

		t.Run("ContextCancellation", func(t *testing.T) {
			p := contract.CreateProvider(t)
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			// Providers may answer from local state even when cancelled, but
			// must not hang or panic.
			_, _ = p.Resolve(ctx, contract.Present)
		})
	})
}
