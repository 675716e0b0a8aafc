package config

import (
	"gopkg.in/yaml.v3"
)

// Scoped is a configuration value that is either a literal T applying to every
// profile, or a mapping from profile name to T. The zero value is "absent".
type Scoped[T any] struct {
	literal   T
	byProfile map[string]T
	kind      scopedKind
}

type scopedKind uint8

const (
	scopedAbsent scopedKind = iota
	scopedLiteral
	scopedByProfile
)

// Literal returns a Scoped holding v for every profile.
func Literal[T any](v T) Scoped[T] {
	return Scoped[T]{literal: v, kind: scopedLiteral}
}

// ByProfile returns a Scoped holding a value per profile.
func ByProfile[T any](m map[string]T) Scoped[T] {
	return Scoped[T]{byProfile: m, kind: scopedByProfile}
}

// IsZero reports whether the value is absent. yaml.v3 consults it for omitempty.
func (s Scoped[T]) IsZero() bool {
	return s.kind == scopedAbsent
}

// IsProfileScoped reports whether the value is a per-profile mapping.
func (s Scoped[T]) IsProfileScoped() bool {
	return s.kind == scopedByProfile
}

// Lookup returns the value that applies to profile. A profile missing from a
// per-profile mapping yields false; it never falls through to another profile.
func (s Scoped[T]) Lookup(profile string) (T, bool) {
	switch s.kind {
	case scopedLiteral:
		return s.literal, true
	case scopedByProfile:
		v, ok := s.byProfile[profile]
		return v, ok
	}
	var zero T
	return zero, false
}

// Resolve is Lookup with a fallback for the absent case.
func (s Scoped[T]) Resolve(profile string, fallback T) T {
	if v, ok := s.Lookup(profile); ok {
		return v
	}
	return fallback
}

// Profiles returns the profile names of a per-profile mapping.
func (s Scoped[T]) Profiles() []string {
	names := make([]string, 0, len(s.byProfile))
	for name := range s.byProfile {
		names = append(names, name)
	}
	return names
}

// UnmarshalYAML decodes either shape. None of the literal types used in the
// document is itself a mapping, so a mapping node always means per-profile.
func (s *Scoped[T]) UnmarshalYAML(node *yaml.Node) error {
	if node.Tag == "!!null" {
		*s = Scoped[T]{}
		return nil
	}

	if node.Kind == yaml.MappingNode {
		m := make(map[string]T)
		if err := node.Decode(&m); err != nil {
			return err
		}
		*s = ByProfile(m)
		return nil
	}

	var v T
	if err := node.Decode(&v); err != nil {
		return err
	}
	*s = Literal(v)
	return nil
}

// MarshalYAML writes the value back in the shape it was declared with.
func (s Scoped[T]) MarshalYAML() (interface{}, error) {
	switch s.kind {
	case scopedLiteral:
		return s.literal, nil
	case scopedByProfile:
		return s.byProfile, nil
	}
	return nil, nil
}
