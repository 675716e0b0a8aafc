package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	dserrors "github.com/systmms/valt/internal/errors"
	"github.com/systmms/valt/internal/logging"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// DefaultPath is used when --config is not given.
const DefaultPath = "valt.yaml"

//go:embed schema.json
var schemaJSON []byte

var schemaLoader = gojsonschema.NewBytesLoader(schemaJSON)

// Config holds the runtime configuration
type Config struct {
	Path           string
	Logger         *logging.Logger
	NonInteractive bool
	Definition     *Definition
}

// Load reads, validates and parses the configuration file. The Definition is
// only set once the document passed schema validation.
func (c *Config) Load() error {
	path := c.Path
	if path == "" {
		path = DefaultPath
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	if _, err := os.Stat(absPath); err != nil {
		if os.IsNotExist(err) {
			return dserrors.UserError{
				Message:    fmt.Sprintf("Config file not found at %s", absPath),
				Suggestion: "Please create a config file (valt.yaml) or specify a valid path with --config",
				Err:        dserrors.ErrConfigNotFound,
			}
		}
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return dserrors.UserError{
			Message:    fmt.Sprintf("Failed to read config: %s", absPath),
			Details:    err.Error(),
			Suggestion: "Check file permissions and path",
			Err:        dserrors.ErrConfigUnreadable,
		}
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return dserrors.UserError{
			Message:    fmt.Sprintf("Config file is empty: %s", absPath),
			Suggestion: "Please check the config file for errors",
			Err:        dserrors.ErrConfigUnreadable,
		}
	}

	def, err := Parse(data, absPath)
	if err != nil {
		return err
	}

	if c.Logger != nil {
		c.Logger.Debug("Loaded %s with %d variables", absPath, def.Env.Len())
	}
	c.Definition = def
	return nil
}

// Parse decodes and validates a configuration document. source only appears
// in error messages.
func Parse(data []byte, source string) (*Definition, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, dserrors.UserError{
			Message:    fmt.Sprintf("Failed to parse config: %s", source),
			Details:    err.Error(),
			Suggestion: "Check for indentation errors, missing quotes, or invalid characters",
			Err:        dserrors.ErrConfigInvalid,
		}
	}

	if err := validate(&root); err != nil {
		return nil, dserrors.UserError{
			Message:    fmt.Sprintf("Validation failed: %s", source),
			Details:    err.Error(),
			Suggestion: "Please check the config file for errors",
			Err:        err,
		}
	}

	var def Definition
	if err := root.Decode(&def); err != nil {
		return nil, dserrors.UserError{
			Message:    fmt.Sprintf("Failed to parse config: %s", source),
			Details:    err.Error(),
			Suggestion: "Please check the config file for errors",
			Err:        dserrors.ErrConfigInvalid,
		}
	}

	return &def, nil
}

// validate checks the raw document against the embedded JSON schema. Schema
// violations are reported as a ConfigError naming the first offending field.
func validate(root *yaml.Node) error {
	var raw interface{}
	if err := root.Decode(&raw); err != nil {
		return errors.Join(dserrors.ErrConfigInvalid, err)
	}

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(raw))
	if err != nil {
		return errors.Join(dserrors.ErrConfigInvalid, fmt.Errorf("schema validation error: %w", err))
	}

	if result.Valid() {
		return nil
	}

	var errorMessages []string
	for _, desc := range result.Errors() {
		errorMessages = append(errorMessages, desc.String())
	}
	first := result.Errors()[0]
	return dserrors.ConfigError{
		Field:   first.Field(),
		Message: strings.Join(errorMessages, "; "),
		Err:     dserrors.ErrConfigInvalid,
	}
}

// GetRule returns the rule for a variable, failing with a variable-unknown
// error that names the config file.
func (c *Config) GetRule(name string) (Rule, error) {
	if c.Definition == nil {
		return Rule{}, dserrors.UserError{
			Message:    "Configuration not loaded",
			Suggestion: "This is an internal error. Please report it",
		}
	}

	rule, ok := c.Definition.Env.Get(name)
	if !ok {
		return Rule{}, dserrors.UserError{
			Message:    fmt.Sprintf("Environment '%s' not found in '%s'", name, c.DisplayPath()),
			Suggestion: "Please check the config file for the correct environment name",
			Err:        dserrors.ErrVariableUnknown,
		}
	}
	return rule, nil
}

// DisplayPath is the config path as the user gave it.
func (c *Config) DisplayPath() string {
	if c.Path == "" {
		return DefaultPath
	}
	return c.Path
}
