// Package testutil provides test utilities and helpers for valt tests.
//
// This package contains shared test infrastructure: a configuration builder,
// environment helpers and a capturing logger.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/systmms/valt/internal/config"
	"gopkg.in/yaml.v3"
)

// TestConfigBuilder provides a fluent API for building test configurations.
//
// It builds a valt.yaml document programmatically and writes it into the
// test's temporary directory.
//
// Example usage:
//
//	path := NewTestConfig(t).
//	    WithDefaultProfile("dev").
//	    WithGlobalVault(config.Literal(config.VaultChain{{Provider: "aws", Secret: "base"}})).
//	    WithVariable("DB_PASS", config.Rule{Default: config.Literal("x")}).
//	    Write()
type TestConfigBuilder struct {
	config  *config.Definition
	tempDir string
	t       *testing.T
}

// NewTestConfig creates a new TestConfigBuilder with an empty version 1 document.
func NewTestConfig(t *testing.T) *TestConfigBuilder {
	t.Helper()

	return &TestConfigBuilder{
		config: &config.Definition{
			Version: 1,
			Env:     *config.NewEnv(),
		},
		tempDir: t.TempDir(),
		t:       t,
	}
}

func (b *TestConfigBuilder) defaults() *config.Defaults {
	if b.config.Defaults == nil {
		b.config.Defaults = &config.Defaults{}
	}
	return b.config.Defaults
}

// WithDefaultProfile sets defaults.profile.
func (b *TestConfigBuilder) WithDefaultProfile(profile string) *TestConfigBuilder {
	b.defaults().Profile = profile
	return b
}

// WithGlobalVault sets defaults.vault.
func (b *TestConfigBuilder) WithGlobalVault(chain config.Scoped[config.VaultChain]) *TestConfigBuilder {
	b.defaults().Vault = chain
	return b
}

// WithEnvFallback sets defaults.envFallback.
func (b *TestConfigBuilder) WithEnvFallback(enabled bool) *TestConfigBuilder {
	b.defaults().EnvFallback = &enabled
	return b
}

// WithVariable appends a variable rule. Declaration order is kept.
func (b *TestConfigBuilder) WithVariable(name string, rule config.Rule) *TestConfigBuilder {
	b.config.Env.Set(name, rule)
	return b
}

// Build returns the in-memory Definition.
func (b *TestConfigBuilder) Build() *config.Definition {
	return b.config
}

// Dir returns the temporary directory the config is written to.
func (b *TestConfigBuilder) Dir() string {
	return b.tempDir
}

// Write writes the configuration to valt.yaml in the temporary directory and
// returns its path.
func (b *TestConfigBuilder) Write() string {
	b.t.Helper()

	path := filepath.Join(b.tempDir, config.DefaultPath)
	data, err := yaml.Marshal(b.config)
	if err != nil {
		b.t.Fatalf("Failed to marshal test config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		b.t.Fatalf("Failed to write test config: %v", err)
	}
	return path
}

// WriteTestConfig writes a YAML string to valt.yaml in a fresh temporary
// directory and returns its path.
//
// Example:
//
//	path := WriteTestConfig(t, `
//	version: 1
//	env:
//	  API_KEY:
//	    default: test-key
//	`)
func WriteTestConfig(t *testing.T, yamlContent string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), config.DefaultPath)
	if err := os.WriteFile(path, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return path
}

// WriteFile writes content next to the config, e.g. a dotenv file, and
// returns its path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

// LoadTestConfig loads and validates a configuration, failing the test on error.
func LoadTestConfig(t *testing.T, path string) *config.Config {
	t.Helper()

	cfg := &config.Config{Path: path, Logger: NewTestLogger(t).Logger}
	if err := cfg.Load(); err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}
