package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/systmms/valt/internal/config"
)

func NewPlanCommand(cfg *config.Config, opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show where each variable will be resolved from (no values shown)",
		Long: `Plan shows which sources each variable of the profile resolves to,
without fetching any value. This is useful for debugging layered vault
declarations and profile-scoped rules.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver, err := loadResolver(cfg, opts)
			if err != nil {
				return err
			}

			descriptors, err := resolver.Plan()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			newPrinter(cfg, out).Plan(resolver.Profile(), descriptors)

			required := 0
			for _, d := range descriptors {
				if d.Required() {
					required++
				}
			}
			_, _ = fmt.Fprintf(out, "\nTotal variables: %d (%d required)\n", len(descriptors), required)
			return nil
		},
	}

	return cmd
}
