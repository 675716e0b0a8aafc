package provider

import (
	"context"
	"errors"
)

// Provider yields a value for a resolved reference, or a NotFoundError when
// the source defines no value for it.
type Provider interface {
	// Name returns the provider tag used in configuration, e.g. "aws".
	Name() string

	// Resolve fetches the value addressed by ref.
	Resolve(ctx context.Context, ref Reference) (SecretValue, error)
}

// Writer is implemented by providers whose values can be changed.
type Writer interface {
	// Current returns the value stored under ref, and false when unset.
	Current(ctx context.Context, ref Reference) (string, bool, error)

	// Write stores value under ref. A nil value removes the key.
	Write(ctx context.Context, ref Reference, value *string) error
}

// Reference addresses a single value.
type Reference struct {
	// Provider is the provider tag.
	Provider string

	// Source is the container holding the value: a secret id or a file path.
	Source string

	// Key is the field within the source.
	Key string
}

// String renders the reference as "source:key".
func (r Reference) String() string {
	return r.Source + ":" + r.Key
}

// SecretValue is a fetched value with provenance metadata.
type SecretValue struct {
	Value string

	// Metadata holds provider specific details such as the secret ARN.
	Metadata map[string]string
}

// NotFoundError reports a defined absence.
type NotFoundError struct {
	Provider string
	Source   string
	Key      string
}

func (e *NotFoundError) Error() string {
	return "value not found: " + e.Key + " in " + e.Source + " (" + e.Provider + ")"
}

// AuthError reports missing or rejected credentials.
type AuthError struct {
	Provider string
	Message  string
}

func (e AuthError) Error() string {
	return "authentication failed for " + e.Provider + ": " + e.Message
}

// IsNotFound reports whether err is a defined absence.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
