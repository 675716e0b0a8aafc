package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. They are carried in UserError.Err so callers can classify
// failures with errors.Is.
var (
	ErrConfigNotFound       = errors.New("config not found")
	ErrConfigUnreadable     = errors.New("config unreadable")
	ErrConfigInvalid        = errors.New("config invalid")
	ErrNoProfile            = errors.New("no profile specified")
	ErrVariableUnknown      = errors.New("variable unknown")
	ErrVariableIgnored      = errors.New("variable ignored")
	ErrSecretFetch          = errors.New("secret fetch failed")
	ErrSecretKeyMissing     = errors.New("secret key missing")
	ErrSecretMalformed      = errors.New("secret document malformed")
	ErrSecretWrite          = errors.New("secret write failed")
	ErrSecretWriteCancelled = errors.New("secret write cancelled")
	ErrRequiredMissing      = errors.New("required variable missing")
)

// UserError represents an error that should be shown to the user with helpful context.
// Message is always shown, Suggestion is the actionable hint and Details carries the
// raw underlying cause, which the CLI only prints in debug mode.
type UserError struct {
	Message    string
	Suggestion string
	Details    string
	Err        error
}

func (e UserError) Error() string {
	var parts []string

	if e.Message != "" {
		parts = append(parts, e.Message)
	} else if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}

	if e.Details != "" {
		parts = append(parts, "\n  Details: "+e.Details)
	}

	if e.Suggestion != "" {
		parts = append(parts, "\n  💡 Try: "+e.Suggestion)
	}

	return strings.Join(parts, "")
}

func (e UserError) Unwrap() error {
	return e.Err
}

// ConfigError represents a configuration error with helpful context
type ConfigError struct {
	Field      string
	Value      interface{}
	Message    string
	Suggestion string
	Err        error
}

func (e ConfigError) Error() string {
	msg := "Configuration error"
	if e.Field != "" {
		msg += fmt.Sprintf(" in field '%s'", e.Field)
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	msg += ": " + e.Message

	if e.Suggestion != "" {
		msg += "\n  💡 " + e.Suggestion
	}

	return msg
}

func (e ConfigError) Unwrap() error {
	return e.Err
}

// Parts splits any error into the three pieces the CLI prints: a short
// message, an optional hint and an optional debug string.
func Parts(err error) (message, hint, debug string) {
	var ue UserError
	if errors.As(err, &ue) {
		message = ue.Message
		if message == "" && ue.Err != nil {
			message = ue.Err.Error()
		}
		return message, ue.Suggestion, ue.Details
	}

	var ce ConfigError
	if errors.As(err, &ce) {
		message = ce.Message
		if ce.Field != "" {
			message = fmt.Sprintf("%s: %s", ce.Field, ce.Message)
		}
		if ce.Value != nil {
			message += fmt.Sprintf(" (%v)", ce.Value)
		}
		return message, ce.Suggestion, ""
	}

	return err.Error(), "", ""
}

// ProviderError wraps a secret store failure with the secret it concerns and a
// hint derived from the underlying error. The raw error ends up in Details.
func ProviderError(provider, operation, secret string, kind, err error) error {
	return UserError{
		Message:    fmt.Sprintf("Failed to %s secret: %s", operation, secret),
		Suggestion: getProviderSuggestion(provider, operation, err),
		Details:    err.Error(),
		Err:        errors.Join(kind, err),
	}
}

// getProviderSuggestion returns helpful suggestions based on provider and error
func getProviderSuggestion(provider, operation string, err error) string {
	errStr := err.Error()

	switch provider {
	case "aws":
		if strings.Contains(errStr, "AccessDenied") {
			if operation == "set" {
				return "Check IAM permissions for secretsmanager:PutSecretValue"
			}
			return "Check IAM permissions for secretsmanager:GetSecretValue"
		}
		if strings.Contains(errStr, "credentials") || strings.Contains(errStr, "authorization") {
			return "Configure AWS credentials: 'aws configure' or set AWS_PROFILE"
		}
		if strings.Contains(errStr, "ResourceNotFoundException") {
			return "Verify the secret name and region. List secrets with: 'aws secretsmanager list-secrets'"
		}
		if strings.Contains(errStr, "ThrottlingException") {
			return "AWS rate limit exceeded. Wait a moment and try again"
		}
	}

	if strings.Contains(errStr, "timeout") {
		return "The operation timed out. Check your network connection and try again"
	}
	if strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "no such host") {
		return "Unable to connect. Check your network and region configuration"
	}

	if operation == "set" {
		return "Check if you have the right permissions"
	}
	return "Check if the secret exists in AWS Secrets Manager and if you have the right permissions"
}
