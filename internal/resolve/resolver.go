package resolve

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/systmms/valt/internal/config"
	dserrors "github.com/systmms/valt/internal/errors"
	"github.com/systmms/valt/internal/logging"
	"github.com/systmms/valt/pkg/provider"
)

// Resolver turns configuration rules into source descriptors for one profile
// and runs the resolution pipeline over them.
type Resolver struct {
	config      *config.Config
	profile     string
	providers   map[string]provider.Provider
	logger      *logging.Logger
	envFallback bool
	timeout     time.Duration
	mu          sync.RWMutex // Protects providers map
}

// New creates a resolver for profile, or for the config's default profile when
// profile is empty.
func New(cfg *config.Config, profile string) (*Resolver, error) {
	if cfg.Definition == nil {
		return nil, dserrors.UserError{
			Message:    "Configuration not loaded",
			Suggestion: "This is an internal error. Please report it",
		}
	}
	if profile == "" {
		profile = cfg.Definition.DefaultProfile()
	}
	if profile == "" {
		return nil, dserrors.UserError{
			Message:    "No profile specified",
			Suggestion: "Please specify a profile in the config file or as an argument.",
			Err:        dserrors.ErrNoProfile,
		}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.New(false, true)
	}

	return &Resolver{
		config:      cfg,
		profile:     profile,
		providers:   make(map[string]provider.Provider),
		logger:      logger,
		envFallback: cfg.Definition.EnvFallback(),
	}, nil
}

// Profile returns the active profile.
func (r *Resolver) Profile() string {
	return r.profile
}

// RegisterProvider registers a provider under its tag
func (r *Resolver) RegisterProvider(p provider.Provider) {
	r.mu.Lock()
	r.providers[p.Name()] = p
	r.mu.Unlock()
	r.logger.Debug("Registered provider: %s", p.Name())
}

// GetProvider returns a registered provider by tag
func (r *Resolver) GetProvider(name string) (provider.Provider, bool) {
	r.mu.RLock()
	p, exists := r.providers[name]
	r.mu.RUnlock()
	return p, exists
}

// SetEnvFallback switches the process environment tier on or off.
func (r *Resolver) SetEnvFallback(enabled bool) {
	r.envFallback = enabled
}

// EnvFallback reports whether the process environment tier is consulted.
func (r *Resolver) EnvFallback() bool {
	return r.envFallback
}

// Policy returns the variable's policy for the active profile. A policy
// mapping without an entry for the profile means required.
func (r *Resolver) Policy(name string) (config.Policy, error) {
	rule, err := r.config.GetRule(name)
	if err != nil {
		return "", err
	}
	return rule.Policy.Resolve(r.profile, config.PolicyRequired), nil
}

// Variables lists the variables not ignored under the active profile, in
// declaration order.
func (r *Resolver) Variables() []string {
	names := r.config.Definition.Env.Names()
	out := make([]string, 0, len(names))
	for _, name := range names {
		rule, _ := r.config.Definition.Env.Get(name)
		if rule.Policy.Resolve(r.profile, config.PolicyRequired) == config.PolicyIgnore {
			continue
		}
		out = append(out, name)
	}
	return out
}

// Descriptor is the effective source description of one variable.
type Descriptor struct {
	Name    string
	AWS     *provider.Reference
	Dotenv  *provider.Reference
	Default *string
	Policy  config.Policy
}

// Required reports whether a missing value is a violation.
func (d Descriptor) Required() bool {
	return d.Policy == config.PolicyRequired
}

// String renders a descriptor for plan output.
func (d Descriptor) String() string {
	var parts []string
	if d.Dotenv != nil {
		parts = append(parts, fmt.Sprintf("dotenv(%s)", d.Dotenv))
	}
	if d.AWS != nil {
		parts = append(parts, fmt.Sprintf("aws(%s)", d.AWS))
	}
	if d.Default != nil {
		parts = append(parts, "default")
	}
	if len(parts) == 0 {
		return "<none>"
	}
	return strings.Join(parts, " → ")
}

// layer accumulates the folded fields of one provider.
type layer struct {
	source  string
	key     string
	enabled bool
}

func (l layer) reference(providerName string) *provider.Reference {
	if !l.enabled || l.source == "" || l.key == "" {
		return nil
	}
	return &provider.Reference{Provider: providerName, Source: l.source, Key: l.key}
}

// Resolve merges the global and local vault chains of name for the active
// profile, and resolves its default and policy.
func (r *Resolver) Resolve(name string) (Descriptor, error) {
	rule, err := r.config.GetRule(name)
	if err != nil {
		return Descriptor{}, err
	}

	policy := rule.Policy.Resolve(r.profile, config.PolicyRequired)
	if policy == config.PolicyIgnore {
		return Descriptor{}, dserrors.UserError{
			Message:    fmt.Sprintf("Environment '%s' is disabled in '%s'", name, r.config.DisplayPath()),
			Suggestion: "This environment variable is ignored by the config.",
			Err:        dserrors.ErrVariableIgnored,
		}
	}

	global, _ := r.config.Definition.GlobalVault().Lookup(r.profile)
	local, _ := rule.Vault.Lookup(r.profile)

	chain := make(config.VaultChain, 0, len(global)+len(local))
	chain = append(chain, global...)
	chain = append(chain, local...)

	aws := layer{key: name, enabled: true}
	dotenv := layer{key: name, enabled: true}
	for _, decl := range chain {
		switch decl.Provider {
		case config.ProviderAWS:
			fold(&aws, decl.Secret, decl.Key, decl.Enabled)
		case config.ProviderDotenv:
			fold(&dotenv, decl.File, decl.Variable, decl.Enabled)
		default:
			r.logger.Debug("Ignoring unknown provider '%s' for %s", decl.Provider, name)
		}
	}

	d := Descriptor{
		Name:   name,
		AWS:    aws.reference(config.ProviderAWS),
		Dotenv: dotenv.reference(config.ProviderDotenv),
		Policy: policy,
	}
	if v, ok := rule.Default.Lookup(r.profile); ok {
		d.Default = &v
	}
	return d, nil
}

func fold(l *layer, source, key string, enabled *bool) {
	if source != "" {
		l.source = source
	}
	if key != "" {
		l.key = key
	}
	if enabled != nil {
		l.enabled = *enabled
	}
}
