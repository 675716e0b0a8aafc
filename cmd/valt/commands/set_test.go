package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	dserrors "github.com/systmms/valt/internal/errors"
)

func TestSetCommand_ConfirmedWrite(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		stdin string
	}{
		{"exact", "yes\n"},
		{"surrounding whitespace", "  yes \n"},
		{"no trailing newline", "yes"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newCommandFixture(t, appConfig)
			f.secrets.AddSecretString("app/dev", `{"password":"old","user":"admin"}`)

			res := execute(t, NewSetCommand(f.cfg, f.opts), tt.stdin, "VALT_TEST_DB_PASS", "new")
			require.NoError(t, res.err)

			stored, _ := f.secrets.SecretString("app/dev")
			assert.JSONEq(t, `{"password":"new","user":"admin"}`, stored)

			assert.Contains(t, res.stderr, "Changing secret value for 'password' in 'app/dev'")
			assert.Contains(t, res.stderr, "Are you sure (only 'yes' will be accepted): ")
			assert.NotContains(t, res.stderr, "old")
			f.logger.AssertContains(t, "Secret value changed")
		})
	}
}

func TestSetCommand_Cancelled(t *testing.T) {
	t.Parallel()

	for _, answer := range []string{"no\n", "y\n", "YES\n", ""} {
		answer := answer
		t.Run(answer, func(t *testing.T) {
			t.Parallel()

			f := newCommandFixture(t, appConfig)
			f.secrets.AddSecretString("app/dev", `{"password":"old"}`)

			res := execute(t, NewSetCommand(f.cfg, f.opts), answer, "VALT_TEST_DB_PASS", "new")
			require.Error(t, res.err)
			assert.ErrorIs(t, res.err, dserrors.ErrSecretWriteCancelled)
			assert.Empty(t, f.secrets.PutCalls)
			f.logger.AssertNotContains(t, "Secret value changed")
		})
	}
}

func TestSetCommand_NonInteractive(t *testing.T) {
	t.Parallel()

	f := newCommandFixture(t, appConfig)
	f.secrets.AddSecretString("app/dev", `{"password":"old"}`)
	f.cfg.NonInteractive = true

	res := execute(t, NewSetCommand(f.cfg, f.opts), "yes\n", "VALT_TEST_DB_PASS", "new")
	require.Error(t, res.err)
	assert.ErrorIs(t, res.err, dserrors.ErrSecretWriteCancelled)
	assert.NotContains(t, res.stderr, "Are you sure")
	assert.Empty(t, f.secrets.PutCalls)
	f.logger.AssertContains(t, "non-interactive")
}

func TestSetCommand_ShowRevealsValues(t *testing.T) {
	t.Parallel()

	f := newCommandFixture(t, appConfig)
	f.secrets.AddSecretString("app/dev", `{"password":"old"}`)
	f.opts.Show = true

	res := execute(t, NewSetCommand(f.cfg, f.opts), "no\n", "VALT_TEST_DB_PASS", "new")
	require.Error(t, res.err)
	assert.Contains(t, res.stderr, "old")
	assert.Contains(t, res.stderr, "new")
}

func TestSetCommand_FromFile(t *testing.T) {
	t.Parallel()

	f := newCommandFixture(t, appConfig)
	f.secrets.AddSecretString("app/dev", `{}`)
	keyFile := f.writeFile(t, "server.key", "line1\nline2\n")

	res := execute(t, NewSetCommand(f.cfg, f.opts), "yes\n", "VALT_TEST_DB_PASS", "--file", keyFile)
	require.NoError(t, res.err)

	stored, _ := f.secrets.SecretString("app/dev")
	assert.JSONEq(t, `{"password":"line1\nline2\n"}`, stored)
	assert.Contains(t, res.stderr, "<unset>")
	assert.Contains(t, res.stderr, "**** (3 lines)")
}

func TestSetCommand_Unset(t *testing.T) {
	t.Parallel()

	f := newCommandFixture(t, appConfig)
	f.secrets.AddSecretString("app/dev", `{"password":"old","user":"admin"}`)

	res := execute(t, NewSetCommand(f.cfg, f.opts), "yes\n", "VALT_TEST_DB_PASS", "--unset")
	require.NoError(t, res.err)

	stored, _ := f.secrets.SecretString("app/dev")
	assert.JSONEq(t, `{"user":"admin"}`, stored)
}

func TestSetCommand_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		wantErr error
		message string
	}{
		{
			name:    "no value",
			args:    []string{"VALT_TEST_DB_PASS"},
			message: "No value given",
		},
		{
			name:    "unset with value",
			args:    []string{"VALT_TEST_DB_PASS", "x", "--unset"},
			message: "--unset cannot be combined with a value or --file",
		},
		{
			name:    "value and file",
			args:    []string{"VALT_TEST_DB_PASS", "x", "--file", "value.txt"},
			message: "Both a value and --file were given",
		},
		{
			name:    "unreadable file",
			args:    []string{"VALT_TEST_DB_PASS", "--file", "/nonexistent/value.txt"},
			message: "Failed to read value from /nonexistent/value.txt",
		},
		{
			name:    "unknown variable",
			args:    []string{"NOPE", "x"},
			wantErr: dserrors.ErrVariableUnknown,
		},
		{
			name:    "variable without aws source",
			args:    []string{"VALT_TEST_PORT", "x"},
			wantErr: dserrors.ErrSecretWrite,
			message: "No aws provider and secret found for VALT_TEST_PORT",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newCommandFixture(t, appConfig)
			res := execute(t, NewSetCommand(f.cfg, f.opts), "yes\n", tt.args...)
			require.Error(t, res.err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, res.err, tt.wantErr)
			}
			if tt.message != "" {
				message, _, _ := dserrors.Parts(res.err)
				assert.Equal(t, tt.message, message)
			}
			assert.NotContains(t, res.stderr, "Are you sure")
			assert.Empty(t, f.secrets.PutCalls)
		})
	}
}

func TestSetCommand_TooManyArgs(t *testing.T) {
	t.Parallel()

	f := newCommandFixture(t, appConfig)
	res := execute(t, NewSetCommand(f.cfg, f.opts), "", "A", "B", "C")
	require.Error(t, res.err)
}
