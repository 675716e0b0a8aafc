package commands

import (
	"github.com/spf13/cobra"
	"github.com/systmms/valt/internal/config"
	dserrors "github.com/systmms/valt/internal/errors"
	"github.com/systmms/valt/internal/execenv"
)

func NewExecCommand(cfg *config.Config, opts *Options) *cobra.Command {
	var (
		keepExisting  bool
		noEnvFallback bool
		workingDir    string
	)

	cmd := &cobra.Command{
		Use:   "exec -- <command> [args...]",
		Short: "Execute command with resolved environment variables",
		Long: `Execute a command with the variables of the profile added to its
environment. Values are injected into the child process and never written
to disk. The command does not run when a required variable is missing.

The command must be separated from valt arguments with '--'.

Examples:
  valt exec -- npm start
  valt exec -p prod -- docker compose up`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return dserrors.UserError{
					Message:    "No command specified",
					Suggestion: "Use: valt exec -- <command> [args...]",
				}
			}

			resolver, err := loadResolver(cfg, opts)
			if err != nil {
				return err
			}
			if noEnvFallback {
				resolver.SetEnvFallback(false)
			}

			report, err := resolver.Show(cmd.Context())
			if err != nil {
				return err
			}

			vars := make([]execenv.Var, 0, len(report.Values))
			for _, v := range report.Values {
				if v.Present() {
					vars = append(vars, execenv.Var{Name: v.Name, Value: v.Value})
				}
			}

			executor := execenv.New(cfg.Logger)
			executor.Stdin = cmd.InOrStdin()
			executor.Stdout = cmd.OutOrStdout()
			executor.Stderr = cmd.ErrOrStderr()

			return executor.Exec(cmd.Context(), execenv.Options{
				Command:      args,
				Vars:         vars,
				KeepExisting: keepExisting,
				WorkingDir:   workingDir,
			})
		},
	}

	cmd.Flags().BoolVar(&keepExisting, "keep-existing", false, "Do not overwrite variables already set in the environment")
	cmd.Flags().BoolVar(&noEnvFallback, "no-env-fallback", false, "Do not read missing values from the process environment")
	cmd.Flags().StringVar(&workingDir, "working-dir", "", "Working directory for the command")

	return cmd
}
