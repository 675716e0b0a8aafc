package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Policy is the presence requirement of a variable for a profile.
type Policy string

const (
	PolicyRequired Policy = "required"
	PolicyOptional Policy = "optional"
	PolicyIgnore   Policy = "ignore"
)

// Provider tags of vault declarations.
const (
	ProviderAWS    = "aws"
	ProviderDotenv = "dotenv"
)

// Definition represents the valt.yaml structure
type Definition struct {
	Version  int       `yaml:"version"`
	Defaults *Defaults `yaml:"defaults,omitempty"`
	Env      Env       `yaml:"env"`
}

// Defaults holds the global rules applied before every variable's own rules.
type Defaults struct {
	Profile     string             `yaml:"profile,omitempty"`
	EnvFallback *bool              `yaml:"envFallback,omitempty"`
	Vault       Scoped[VaultChain] `yaml:"vault,omitempty"`
}

// Rule is the per-variable configuration.
type Rule struct {
	Vault   Scoped[VaultChain] `yaml:"vault,omitempty"`
	Default Scoped[string]     `yaml:"default,omitempty"`
	Policy  Scoped[Policy]     `yaml:"policy,omitempty"`
}

// VaultChain is an ordered list of partial source declarations. Later entries
// override earlier ones field by field.
type VaultChain []VaultDeclaration

// VaultDeclaration is one layer of a vault chain. Empty fields inherit from
// earlier layers.
type VaultDeclaration struct {
	Provider string `yaml:"provider"`

	// aws
	Secret string `yaml:"secret,omitempty"`
	Key    string `yaml:"key,omitempty"`

	// dotenv
	File     string `yaml:"file,omitempty"`
	Variable string `yaml:"variable,omitempty"`

	Enabled *bool `yaml:"enabled,omitempty"`
}

// DefaultProfile returns defaults.profile, or "" when unset.
func (d *Definition) DefaultProfile() string {
	if d.Defaults == nil {
		return ""
	}
	return d.Defaults.Profile
}

// GlobalVault returns the global vault declarations.
func (d *Definition) GlobalVault() Scoped[VaultChain] {
	if d.Defaults == nil {
		return Scoped[VaultChain]{}
	}
	return d.Defaults.Vault
}

// EnvFallback reports whether the process environment may be consulted as the
// last resolution tier. It defaults to true.
func (d *Definition) EnvFallback() bool {
	if d.Defaults == nil || d.Defaults.EnvFallback == nil {
		return true
	}
	return *d.Defaults.EnvFallback
}

// Env maps variable names to rules and remembers declaration order.
type Env struct {
	names []string
	rules map[string]Rule
}

// NewEnv returns an empty Env ready for Set.
func NewEnv() *Env {
	return &Env{rules: make(map[string]Rule)}
}

// Set adds or replaces a rule. New names are appended to the order.
func (e *Env) Set(name string, rule Rule) *Env {
	if e.rules == nil {
		e.rules = make(map[string]Rule)
	}
	if _, ok := e.rules[name]; !ok {
		e.names = append(e.names, name)
	}
	e.rules[name] = rule
	return e
}

// Get returns the rule for name.
func (e Env) Get(name string) (Rule, bool) {
	r, ok := e.rules[name]
	return r, ok
}

// Names returns variable names in declaration order.
func (e Env) Names() []string {
	out := make([]string, len(e.names))
	copy(out, e.names)
	return out
}

// Len returns the number of declared variables.
func (e Env) Len() int {
	return len(e.names)
}

// UnmarshalYAML reads the mapping node pair by pair to keep declaration order.
func (e *Env) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: env must be a mapping", node.Line)
	}

	*e = Env{rules: make(map[string]Rule, len(node.Content)/2)}
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]

		var rule Rule
		if valueNode.Tag != "!!null" {
			if err := valueNode.Decode(&rule); err != nil {
				return fmt.Errorf("env.%s: %w", keyNode.Value, err)
			}
		}
		e.Set(keyNode.Value, rule)
	}
	return nil
}

// MarshalYAML emits the mapping in declaration order.
func (e Env) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, name := range e.names {
		var value yaml.Node
		if err := value.Encode(e.rules[name]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name},
			&value,
		)
	}
	return node, nil
}
