package resolve

import (
	"context"
	"errors"
	"fmt"
	"time"

	dserrors "github.com/systmms/valt/internal/errors"
)

// SetTimeout bounds each secret store call. Zero means no limit.
func (r *Resolver) SetTimeout(d time.Duration) {
	r.timeout = d
}

// withProviderTimeout creates a context with timeout for provider operations
func (r *Resolver) withProviderTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}

// timeoutError replaces a deadline error with one that names the secret.
func timeoutError(err error, secret string, timeout time.Duration) error {
	if !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return dserrors.UserError{
		Message:    fmt.Sprintf("Failed to get secret: %s", secret),
		Details:    fmt.Sprintf("Operation exceeded %s timeout", timeout),
		Suggestion: "Check AWS connectivity and credentials, or raise --timeout",
		Err:        errors.Join(dserrors.ErrSecretFetch, err),
	}
}
