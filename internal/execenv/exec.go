// Package execenv runs a child process with resolved variables added to its
// environment.
package execenv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"

	dserrors "github.com/systmms/valt/internal/errors"
	"github.com/systmms/valt/internal/logging"
)

// Var is one variable passed to the child.
type Var struct {
	Name  string
	Value string
}

// ExitError carries a non-zero exit code of the child process.
type ExitError struct {
	Code int
}

func (e ExitError) Error() string {
	return fmt.Sprintf("command exited with status %d", e.Code)
}

// Executor handles running commands with ephemeral environment variables
type Executor struct {
	logger  *logging.Logger
	environ func() []string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// New creates an executor attached to the process's standard streams.
func New(logger *logging.Logger) *Executor {
	return &Executor{
		logger:  logger,
		environ: os.Environ,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
}

// Options configures command execution
type Options struct {
	Command []string
	Vars    []Var

	// KeepExisting leaves variables already set in the parent environment
	// untouched instead of overwriting them.
	KeepExisting bool
	WorkingDir   string
}

// Exec runs the command and waits for it. A non-zero exit is returned as
// ExitError.
func (e *Executor) Exec(ctx context.Context, opts Options) error {
	if len(opts.Command) == 0 {
		return dserrors.UserError{
			Message:    "No command specified",
			Suggestion: "Provide a command after -- (e.g., valt exec -- npm start)",
		}
	}

	name := opts.Command[0]
	if _, err := exec.LookPath(name); err != nil {
		return dserrors.UserError{
			Message:    fmt.Sprintf("Command not found: %s", name),
			Details:    err.Error(),
			Suggestion: "Check that the command is installed and in your PATH",
		}
	}

	cmd := exec.CommandContext(ctx, name, opts.Command[1:]...)
	cmd.Env = e.buildEnvironment(opts.Vars, opts.KeepExisting)
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr
	cmd.Dir = opts.WorkingDir

	values := make([]string, 0, len(opts.Vars))
	for _, v := range opts.Vars {
		values = append(values, v.Value)
	}
	e.logger.Debug("Executing command: %s", logging.Redact(strings.Join(opts.Command, " "), values))
	e.logger.Debug("Environment variables set: %d", len(opts.Vars))

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code := exitErr.ExitCode()
			if code < 0 {
				code = 1
			}
			return ExitError{Code: code}
		}
		return dserrors.UserError{
			Message:    fmt.Sprintf("Failed to run %s", name),
			Details:    err.Error(),
			Suggestion: "Check the command output above for details",
		}
	}
	return nil
}

// buildEnvironment merges vars into the parent environment.
func (e *Executor) buildEnvironment(vars []Var, keepExisting bool) []string {
	envMap := make(map[string]string)
	for _, kv := range e.environ() {
		if name, value, ok := strings.Cut(kv, "="); ok {
			envMap[name] = value
		}
	}

	for _, v := range vars {
		if _, exists := envMap[v.Name]; exists && keepExisting {
			e.logger.Debug("Keeping %s from the parent environment", v.Name)
			continue
		}
		envMap[v.Name] = v.Value
	}

	result := make([]string, 0, len(envMap))
	for name, value := range envMap {
		result = append(result, name+"="+value)
	}
	sort.Strings(result)
	return result
}
