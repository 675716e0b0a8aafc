package commands

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"github.com/systmms/valt/internal/config"
	"github.com/systmms/valt/internal/resolve"
)

func NewDoctorCommand(cfg *config.Config, opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration and AWS credentials",
		Long: `Verify that valt is ready to resolve the profile.

This command checks:
- Configuration file validity
- The active profile and its variables
- Referenced dotenv files
- AWS credentials (sts:GetCallerIdentity), when any variable uses aws`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Logger.Info("Checking valt configuration...")
			if err := cfg.Load(); err != nil {
				return err
			}
			cfg.Logger.Info("Configuration loaded from %s", cfg.DisplayPath())

			resolver, err := loadResolver(cfg, opts)
			if err != nil {
				return err
			}

			descriptors, err := resolver.Plan()
			if err != nil {
				return err
			}

			summary := summarize(descriptors)
			cfg.Logger.Info("Profile %s: %d variables (%d required, %d ignored)",
				resolver.Profile(), len(descriptors), summary.required,
				cfg.Definition.Env.Len()-len(descriptors))

			for _, file := range summary.dotenvFiles {
				if _, err := os.Stat(file); err != nil {
					cfg.Logger.Warn("Dotenv file %s not found, its values will be skipped", file)
				}
			}

			problems := 0
			if summary.aws > 0 {
				identity, err := newIdentityChecker(opts).Check(cmd.Context())
				if err != nil {
					return err
				}
				cfg.Logger.Info("AWS credentials valid for %s (account %s)", identity.Arn, identity.Account)
			} else {
				cfg.Logger.Debug("No variable uses aws, skipping credential check")
			}

			if summary.unsourced > 0 {
				if resolver.EnvFallback() {
					cfg.Logger.Warn("%d required variables rely on the process environment", summary.unsourced)
				} else {
					cfg.Logger.Error("%d required variables have no source or default", summary.unsourced)
					problems++
				}
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\nSummary: %d aws, %d dotenv, %d default\n",
				summary.aws, summary.dotenv, summary.defaults)
			if problems > 0 {
				return errors.New("some checks reported problems")
			}

			cfg.Logger.Info("All systems operational!")
			return nil
		},
	}

	return cmd
}

type planSummary struct {
	aws, dotenv, defaults int
	required, unsourced   int
	dotenvFiles           []string
}

func summarize(descriptors []resolve.Descriptor) planSummary {
	var s planSummary
	files := make(map[string]bool)
	for _, d := range descriptors {
		if d.AWS != nil {
			s.aws++
		}
		if d.Dotenv != nil {
			s.dotenv++
			files[d.Dotenv.Source] = true
		}
		if d.Default != nil {
			s.defaults++
		}
		if d.Required() {
			s.required++
			if d.AWS == nil && d.Dotenv == nil && d.Default == nil {
				s.unsourced++
			}
		}
	}
	for file := range files {
		s.dotenvFiles = append(s.dotenvFiles, file)
	}
	sort.Strings(s.dotenvFiles)
	return s
}
