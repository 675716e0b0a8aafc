package resolve

import "github.com/systmms/valt/pkg/provider"

// Kind classifies where a value came from, or why there is none.
type Kind int

const (
	// KindStore is a value read from AWS Secrets Manager.
	KindStore Kind = iota
	// KindDotenv is a value read from a dotenv file.
	KindDotenv
	// KindDefault is the rule's static default.
	KindDefault
	// KindEnv is a value taken from the process environment.
	KindEnv
	// KindEmpty is an absent optional variable.
	KindEmpty
	// KindMissing is an absent required variable.
	KindMissing
)

func (k Kind) String() string {
	switch k {
	case KindStore:
		return "aws"
	case KindDotenv:
		return "dotenv"
	case KindDefault:
		return "default"
	case KindEnv:
		return "env"
	case KindEmpty:
		return "empty"
	case KindMissing:
		return "missing"
	default:
		return "unknown"
	}
}

// Value is the classified outcome of resolving one variable.
type Value struct {
	Kind  Kind
	Name  string
	Value string

	// Source is set for store and dotenv values.
	Source *provider.Reference

	// Err is the store failure that left a required variable missing, if any.
	Err error
}

// Present reports whether the variable has a value.
func (v Value) Present() bool {
	return v.Kind != KindEmpty && v.Kind != KindMissing
}

// Provider returns the provider tag shown to users, or "" for absent values.
func (v Value) Provider() string {
	if !v.Present() {
		return ""
	}
	return v.Kind.String()
}

// Info describes where the value was read from, e.g. "app/prod:password".
func (v Value) Info() string {
	if v.Source == nil {
		return ""
	}
	return v.Source.String()
}
