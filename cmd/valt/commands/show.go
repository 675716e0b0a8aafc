package commands

import (
	"errors"
	"time"

	"github.com/spf13/cobra"
	"github.com/systmms/valt/internal/config"
	dserrors "github.com/systmms/valt/internal/errors"
	"github.com/systmms/valt/internal/output"
)

// NewShowCommand creates the show command. The root command runs it when no
// subcommand is given.
func NewShowCommand(cfg *config.Config, opts *Options) *cobra.Command {
	var (
		format        string
		noEnvFallback bool
		timeout       time.Duration
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Resolve and print every variable of a profile",
		Long: `Show resolves each variable declared in the config for the active profile.

Sources are consulted in order: dotenv file, AWS Secrets Manager, the
configured default and finally the process environment. Values are masked
in the table unless --show is given.

With --format auto a table is printed when stdout is a terminal, and
NAME=value lines otherwise, so the output can be redirected into a .env file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := output.ParseFormat(format)
			if err != nil {
				return err
			}

			resolver, err := loadResolver(cfg, opts)
			if err != nil {
				return err
			}
			if noEnvFallback {
				resolver.SetEnvFallback(false)
			}
			resolver.SetTimeout(timeout)

			report, err := resolver.Show(cmd.Context())
			if err != nil && !errors.Is(err, dserrors.ErrRequiredMissing) {
				return err
			}

			stdout := cmd.OutOrStdout()
			switch f.Resolve(isTerminal(stdout)) {
			case output.FormatTable:
				newPrinter(cfg, cmd.ErrOrStderr()).Table(report, opts.Show)
			default:
				output.Dotenv(stdout, report.Values)
			}

			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(output.FormatAuto), "Output format (table, dotenv, auto)")
	cmd.Flags().BoolVar(&noEnvFallback, "no-env-fallback", false, "Do not read missing values from the process environment")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Timeout for each secret fetch (0 disables)")

	return cmd
}
