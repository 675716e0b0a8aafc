package commands

import (
	"os/exec"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	dserrors "github.com/systmms/valt/internal/errors"
	"github.com/systmms/valt/internal/execenv"
)

func shellPath(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	path, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	return path
}

func TestExecCommand_InjectsValues(t *testing.T) {
	t.Parallel()
	sh := shellPath(t)

	f := newCommandFixture(t, appConfig)
	f.secrets.AddSecretString("app/dev", `{"password":"pw","VALT_TEST_API_KEY":"k"}`)

	res := execute(t, NewExecCommand(f.cfg, f.opts), "", "--no-env-fallback", "--", sh, "-c",
		`printf '%s|%s|%s|%s' "$VALT_TEST_DB_PASS" "$VALT_TEST_API_KEY" "$VALT_TEST_PORT" "${VALT_TEST_TOKEN-unset}"`)
	require.NoError(t, res.err)
	assert.Equal(t, "pw|k|8080|unset", res.stdout)
}

func TestExecCommand_ExitCode(t *testing.T) {
	t.Parallel()
	sh := shellPath(t)

	f := newCommandFixture(t, appConfig)
	f.secrets.AddSecretString("app/dev", `{"password":"pw","VALT_TEST_API_KEY":"k"}`)

	res := execute(t, NewExecCommand(f.cfg, f.opts), "", "--no-env-fallback", "--", sh, "-c", "exit 7")
	require.Error(t, res.err)

	var exitErr execenv.ExitError
	require.ErrorAs(t, res.err, &exitErr)
	assert.Equal(t, 7, ExitCode(res.err))
}

func TestExecCommand_RequiredMissingDoesNotRun(t *testing.T) {
	t.Parallel()
	sh := shellPath(t)

	f := newCommandFixture(t, appConfig)
	f.secrets.AddSecretString("app/dev", `{}`)

	res := execute(t, NewExecCommand(f.cfg, f.opts), "", "--no-env-fallback", "--", sh, "-c", "echo ran")
	require.Error(t, res.err)
	assert.ErrorIs(t, res.err, dserrors.ErrRequiredMissing)
	assert.NotContains(t, res.stdout, "ran")
	assert.Equal(t, 1, ExitCode(res.err))
}

func TestExecCommand_NoCommand(t *testing.T) {
	t.Parallel()

	f := newCommandFixture(t, appConfig)
	res := execute(t, NewExecCommand(f.cfg, f.opts), "")
	require.Error(t, res.err)
	message, _, _ := dserrors.Parts(res.err)
	assert.Equal(t, "No command specified", message)
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(assert.AnError))
	assert.Equal(t, 42, ExitCode(execenv.ExitError{Code: 42}))
}
