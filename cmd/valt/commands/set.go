package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/systmms/valt/internal/config"
	dserrors "github.com/systmms/valt/internal/errors"
	"github.com/systmms/valt/internal/resolve"
)

// NewSetCommand creates the set command, which changes the secret field
// backing one variable.
func NewSetCommand(cfg *config.Config, opts *Options) *cobra.Command {
	var (
		file  string
		unset bool
	)

	cmd := &cobra.Command{
		Use:   "set NAME [VALUE]",
		Short: "Change the secret value behind a variable",
		Long: `Set writes a new value to the AWS Secrets Manager field that NAME resolves to.

The value is taken from the VALUE argument or from --file. --unset removes
the field from the secret instead. A Before/After table is shown and the
change is only written after answering 'yes'.`,
		Example: `  valt set DB_PASSWORD s3cr3t
  valt set TLS_KEY --file ./server.key -p prod
  valt set OLD_TOKEN --unset`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := newValue(args[1:], file, unset)
			if err != nil {
				return err
			}

			resolver, err := loadResolver(cfg, opts)
			if err != nil {
				return err
			}

			printer := newPrinter(cfg, cmd.ErrOrStderr())
			confirm := resolve.ConfirmFunc(func(change resolve.Change) (bool, error) {
				printer.Change(change, opts.Show)
				if cfg.NonInteractive {
					cfg.Logger.Warn("Not changing secrets in non-interactive mode")
					return false, nil
				}
				return promptYes(cmd.Context(), cmd.InOrStdin(), cmd.ErrOrStderr())
			})

			if err := resolver.Set(cmd.Context(), args[0], value, confirm); err != nil {
				return err
			}

			cfg.Logger.Info("Secret value changed")
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Read the value from a file")
	cmd.Flags().BoolVar(&unset, "unset", false, "Remove the value from the secret")

	return cmd
}

// newValue picks the value to write from the arguments. nil means unset.
func newValue(args []string, file string, unset bool) (*string, error) {
	given := len(args)
	if file != "" {
		given++
	}

	switch {
	case unset && given > 0:
		return nil, dserrors.UserError{
			Message:    "--unset cannot be combined with a value or --file",
			Suggestion: "Pass either a value, --file or --unset",
		}
	case unset:
		return nil, nil
	case given == 0:
		return nil, dserrors.UserError{
			Message:    "No value given",
			Suggestion: "Pass a value, --file PATH, or --unset to remove the value",
		}
	case given > 1:
		return nil, dserrors.UserError{
			Message:    "Both a value and --file were given",
			Suggestion: "Pass either a value or --file",
		}
	}

	if file == "" {
		return &args[0], nil
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return nil, dserrors.UserError{
			Message:    fmt.Sprintf("Failed to read value from %s", file),
			Details:    err.Error(),
			Suggestion: "Check file permissions and path",
		}
	}
	value := string(data)
	return &value, nil
}
