package commands

import (
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/systmms/valt/internal/config"
	dserrors "github.com/systmms/valt/internal/errors"
	"github.com/systmms/valt/internal/execenv"
	"github.com/systmms/valt/internal/logging"
	"github.com/systmms/valt/internal/providers"
)

// NewRootCommand creates the valt command tree. Running it without a
// subcommand behaves like show.
func NewRootCommand(cfg *config.Config, opts *Options, version string) *cobra.Command {
	var (
		configFile string
		noColor    bool
		debug      bool
	)

	show := NewShowCommand(cfg, opts)

	rootCmd := &cobra.Command{
		Use:   "valt",
		Short: "Manage secrets and parameters with AWS Secrets Manager",
		Long: `valt resolves the environment variables declared in valt.yaml from dotenv
files, AWS Secrets Manager and defaults, per profile, and prints them as a
table or as .env lines.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger := logging.New(debug, noColor).WithWriter(cmd.ErrOrStderr())

			cfg.Path = configFile
			cfg.Logger = logger
			if opts.AWS == (providers.AWSOptions{}) {
				opts.AWS = AWSOptionsFromEnv(os.LookupEnv)
			}
		},
		RunE: show.RunE,
	}

	rootCmd.Flags().AddFlagSet(show.Flags())

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configFile, "config", "c", config.DefaultPath, "Config file path")
	flags.StringVarP(&opts.Profile, "profile", "p", "", "Profile name (defaults.profile when omitted)")
	flags.BoolVarP(&opts.Show, "show", "s", false, "Show secret values instead of masking them")
	flags.BoolVar(&noColor, "no-color", false, "Disable colored output")
	flags.BoolVar(&debug, "debug", false, "Enable debug logging")
	flags.BoolVar(&cfg.NonInteractive, "non-interactive", false, "Never prompt; changes are refused")

	rootCmd.AddCommand(
		show,
		NewSetCommand(cfg, opts),
		NewPlanCommand(cfg, opts),
		NewDoctorCommand(cfg, opts),
		NewExecCommand(cfg, opts),
		NewCompletionCommand(),
	)

	return rootCmd
}

// ReportError prints err the way the CLI shows failures: the message, the
// hint, and the underlying cause when debug logging is on.
func ReportError(w io.Writer, logger *logging.Logger, err error) {
	if logger == nil {
		logger = logging.New(false, false)
	}
	logger = logger.WithWriter(w)

	var exitErr execenv.ExitError
	if errors.As(err, &exitErr) {
		logger.Debug("%v", exitErr)
		return
	}

	if errors.Is(err, dserrors.ErrSecretWriteCancelled) {
		logger.Plain("🚫 Cancelled")
		return
	}

	message, hint, debug := dserrors.Parts(err)
	logger.Error("Error: %s", message)
	if hint != "" {
		logger.Plain("  💡 %s", hint)
	}
	if debug != "" {
		logger.Debug("%s", debug)
	}
}

// ExitCode is the process exit status for err. A failed child of exec passes
// its own status through.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr execenv.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}
