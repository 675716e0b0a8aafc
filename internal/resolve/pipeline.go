package resolve

import (
	"context"
	"strings"

	"github.com/systmms/valt/internal/config"
	dserrors "github.com/systmms/valt/internal/errors"
	"github.com/systmms/valt/pkg/provider"
)

// Report is the result of resolving every in-scope variable.
type Report struct {
	Profile string

	// Values holds one entry per variable, in declaration order.
	Values []Value

	// Violations names the required variables left without a value.
	Violations []string

	// LastFailure is the last store failure seen, kept for debugging.
	LastFailure error
}

// Err returns the aggregated required-variables error, or nil.
func (r *Report) Err() error {
	if len(r.Violations) == 0 {
		return nil
	}

	ue := dserrors.UserError{
		Message:    "required variables are missing: " + strings.Join(r.Violations, ", "),
		Suggestion: "Provide a value in a dotenv file, AWS Secrets Manager or a default, or mark the variable optional",
		Err:        dserrors.ErrRequiredMissing,
	}
	if r.LastFailure != nil {
		message, hint, debug := dserrors.Parts(r.LastFailure)
		ue.Details = message
		if debug != "" {
			ue.Details += ": " + debug
		}
		if hint != "" {
			ue.Suggestion = hint
		}
	}
	return ue
}

// Show resolves every in-scope variable in declaration order. Per-variable
// failures are collected in the report; the returned error is the report's
// aggregated error, or a fatal error that stopped resolution.
func (r *Resolver) Show(ctx context.Context) (*Report, error) {
	report := &Report{Profile: r.profile}

	for _, name := range r.Variables() {
		d, err := r.Resolve(name)
		if err != nil {
			return report, err
		}

		value := r.resolveValue(ctx, d, report)
		if value.Kind == KindMissing {
			report.Violations = append(report.Violations, name)
		}
		report.Values = append(report.Values, value)
	}

	if len(report.Violations) > 0 {
		r.logger.Debug("%d required variables are missing", len(report.Violations))
	}
	return report, report.Err()
}

// Plan returns the descriptors of every in-scope variable without fetching
// any value.
func (r *Resolver) Plan() ([]Descriptor, error) {
	names := r.Variables()
	out := make([]Descriptor, 0, len(names))
	for _, name := range names {
		d, err := r.Resolve(name)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// resolveValue consults dotenv, then the store, then the default, then the
// process environment.
func (r *Resolver) resolveValue(ctx context.Context, d Descriptor, report *Report) Value {
	if d.Dotenv != nil {
		if v, ok := r.fetch(ctx, *d.Dotenv); ok {
			return Value{Kind: KindDotenv, Name: d.Name, Value: v, Source: d.Dotenv}
		}
	}

	if d.AWS != nil {
		p, exists := r.GetProvider(config.ProviderAWS)
		if !exists {
			r.logger.Debug("No aws provider registered, skipping %s", d.AWS)
		} else {
			fetchCtx, cancel := r.withProviderTimeout(ctx)
			secret, err := p.Resolve(fetchCtx, *d.AWS)
			cancel()
			if err == nil {
				return Value{Kind: KindStore, Name: d.Name, Value: secret.Value, Source: d.AWS}
			}
			err = timeoutError(err, d.AWS.Source, r.timeout)
			report.LastFailure = err
			if d.Required() {
				return Value{Kind: KindMissing, Name: d.Name, Err: err}
			}
			r.logger.Debug("Ignoring failure for optional %s: %v", d.Name, err)
		}
	}

	if d.Default != nil && *d.Default != "" {
		return Value{Kind: KindDefault, Name: d.Name, Value: *d.Default}
	}

	if r.envFallback {
		if v, ok := r.fetch(ctx, provider.Reference{Provider: "env", Source: "environment", Key: d.Name}); ok {
			return Value{Kind: KindEnv, Name: d.Name, Value: v}
		}
	}

	if d.Required() {
		return Value{Kind: KindMissing, Name: d.Name}
	}
	return Value{Kind: KindEmpty, Name: d.Name}
}

// fetch asks a local provider for a non-empty value. Absence and read errors
// both fall through to the next tier.
func (r *Resolver) fetch(ctx context.Context, ref provider.Reference) (string, bool) {
	p, exists := r.GetProvider(ref.Provider)
	if !exists {
		return "", false
	}

	secret, err := p.Resolve(ctx, ref)
	if err != nil {
		if !provider.IsNotFound(err) {
			r.logger.Warn("Failed to read %s from %s: %v", ref.Key, ref.Provider, err)
		}
		return "", false
	}
	if secret.Value == "" {
		return "", false
	}
	return secret.Value, true
}
