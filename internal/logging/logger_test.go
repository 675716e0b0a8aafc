package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSecretRedaction(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "secret is redacted",
			input:    "my-secret-password",
			expected: "[REDACTED]",
		},
		{
			name:     "empty secret is still redacted",
			input:    "",
			expected: "[REDACTED]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Secret(tt.input).String())
			assert.Equal(t, tt.expected, Secret(tt.input).GoString())
		})
	}
}

func TestLoggerRedactsSecretArguments(t *testing.T) {
	var buf bytes.Buffer
	logger := New(true, true).WithWriter(&buf)

	logger.Info("Retrieved secret: %s", Secret("super-secret-password-12345"))
	logger.Debug("Processing secret: %#v", Secret("debug-secret-api-key-67890"))

	out := buf.String()
	assert.Contains(t, out, "✓ Retrieved secret: [REDACTED]")
	assert.Contains(t, out, "[DEBUG] Processing secret: [REDACTED]")
	assert.NotContains(t, out, "super-secret-password-12345")
	assert.NotContains(t, out, "debug-secret-api-key-67890")
}

func TestLoggerDebugGating(t *testing.T) {
	var buf bytes.Buffer
	New(false, true).WithWriter(&buf).Debug("hidden")
	assert.Empty(t, buf.String())

	buf.Reset()
	New(true, true).WithWriter(&buf).Debug("shown")
	assert.Equal(t, "[DEBUG] shown\n", buf.String())
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := New(false, true).WithWriter(&buf)

	logger.Info("info %d", 1)
	logger.Warn("warn %d", 2)
	logger.Error("error %d", 3)
	logger.Plain("plain %d", 4)

	assert.Equal(t, "✓ info 1\n⚠ warn 2\n✗ error 3\nplain 4\n", buf.String())
}

func TestLoggerColor(t *testing.T) {
	t.Setenv("NO_COLOR", "")

	var buf bytes.Buffer
	logger := New(false, false).WithWriter(&buf)
	logger.Error("boom")

	assert.False(t, logger.Color())
	assert.Equal(t, "✗ boom\n", buf.String())
}

// TestRedactFunction tests the Redact utility function
func TestRedactFunction(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		secrets  []string
		expected string
	}{
		{
			name:     "single secret redacted",
			input:    "The password is secret123",
			secrets:  []string{"secret123"},
			expected: "The password is [REDACTED]",
		},
		{
			name:     "empty secret ignored",
			input:    "This has no secrets",
			secrets:  []string{""},
			expected: "This has no secrets",
		},
		{
			name:     "short secret ignored",
			input:    "Short secret: ab",
			secrets:  []string{"ab"},
			expected: "Short secret: ab",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Redact(tt.input, tt.secrets))
		})
	}
}
