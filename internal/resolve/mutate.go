package resolve

import (
	"context"
	"fmt"

	"github.com/systmms/valt/internal/config"
	dserrors "github.com/systmms/valt/internal/errors"
	"github.com/systmms/valt/pkg/provider"
)

// Change describes a pending write for confirmation.
type Change struct {
	Name string
	Ref  provider.Reference

	// Before is the stored value, nil when the key is unset.
	Before *string
	// After is the new value, nil when the key is removed.
	After *string
}

// Confirmer approves a change before it is written.
type Confirmer interface {
	Confirm(change Change) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(change Change) (bool, error)

// Confirm calls f.
func (f ConfirmFunc) Confirm(change Change) (bool, error) {
	return f(change)
}

// Set writes value (nil removes the key) to the secret field backing name,
// after confirm approves the change. Nothing is written on any failure.
func (r *Resolver) Set(ctx context.Context, name string, value *string, confirm Confirmer) error {
	d, err := r.Resolve(name)
	if err != nil {
		return err
	}

	if d.AWS == nil {
		return dserrors.UserError{
			Message:    fmt.Sprintf("No aws provider and secret found for %s", name),
			Suggestion: "Add a vault entry with provider 'aws' and a secret for this variable or in defaults",
			Err:        dserrors.ErrSecretWrite,
		}
	}

	p, exists := r.GetProvider(config.ProviderAWS)
	if !exists {
		return dserrors.UserError{
			Message: "No aws provider registered",
			Err:     dserrors.ErrSecretWrite,
		}
	}
	writer, ok := p.(provider.Writer)
	if !ok {
		return dserrors.UserError{
			Message: fmt.Sprintf("Provider %s does not support writes", p.Name()),
			Err:     dserrors.ErrSecretWrite,
		}
	}

	current, found, err := writer.Current(ctx, *d.AWS)
	if err != nil {
		return err
	}

	change := Change{Name: name, Ref: *d.AWS, After: value}
	if found {
		change.Before = &current
	}

	approved, err := confirm.Confirm(change)
	if err != nil {
		return err
	}
	if !approved {
		return dserrors.UserError{
			Message: "Cancelled",
			Err:     dserrors.ErrSecretWriteCancelled,
		}
	}

	if err := writer.Write(ctx, *d.AWS, value); err != nil {
		return err
	}
	r.logger.Debug("Updated %s in %s", d.AWS.Key, d.AWS.Source)
	return nil
}
