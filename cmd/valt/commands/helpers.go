package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/systmms/valt/internal/config"
	"github.com/systmms/valt/internal/output"
	"github.com/systmms/valt/internal/providers"
	"github.com/systmms/valt/internal/resolve"
)

// Options holds the global flags shared by every command and the AWS clients
// to use instead of real ones.
type Options struct {
	Profile string
	Show    bool
	AWS     providers.AWSOptions

	SecretsClient providers.SecretsManagerClientAPI
	STSClient     providers.STSClientAPI
}

// AWSOptionsFromEnv reads the VALT_AWS_* overrides.
func AWSOptionsFromEnv(lookup func(string) (string, bool)) providers.AWSOptions {
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}
	return providers.AWSOptions{
		Region:          get("VALT_AWS_REGION"),
		Endpoint:        get("VALT_AWS_ENDPOINT"),
		AccessKeyID:     get("VALT_AWS_ACCESS_KEY_ID"),
		SecretAccessKey: get("VALT_AWS_SECRET_ACCESS_KEY"),
	}
}

// loadResolver loads the config and builds a resolver with the aws, dotenv
// and env providers registered.
func loadResolver(cfg *config.Config, opts *Options) (*resolve.Resolver, error) {
	if cfg.Definition == nil {
		if err := cfg.Load(); err != nil {
			return nil, err
		}
	}

	resolver, err := resolve.New(cfg, opts.Profile)
	if err != nil {
		return nil, err
	}

	storeOpts := []providers.SecretStoreOption{
		providers.WithAWSOptions(opts.AWS),
		providers.WithLogger(cfg.Logger),
	}
	if opts.SecretsClient != nil {
		storeOpts = append(storeOpts, providers.WithSecretsManagerClient(opts.SecretsClient))
	}

	resolver.RegisterProvider(providers.NewSecretStore(storeOpts...))
	resolver.RegisterProvider(providers.NewDotenvProvider("", cfg.Logger))
	resolver.RegisterProvider(providers.NewEnvironmentProvider(nil))

	cfg.Logger.Debug("Using profile %s", resolver.Profile())
	return resolver, nil
}

// newIdentityChecker returns the STS checker used by doctor.
func newIdentityChecker(opts *Options) *providers.IdentityChecker {
	if opts.STSClient != nil {
		return providers.NewIdentityChecker(opts.AWS, providers.WithSTSClient(opts.STSClient))
	}
	return providers.NewIdentityChecker(opts.AWS)
}

// newPrinter creates a table printer sized to w when w is a terminal.
func newPrinter(cfg *config.Config, w io.Writer) *output.Printer {
	width := 0
	if f, ok := w.(*os.File); ok {
		width = output.TerminalWidth(f)
	}
	return output.NewPrinter(w, cfg.Logger.Color(), width)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && output.IsTerminal(f)
}

// promptYes asks for confirmation. Only an exact "yes" is accepted.
func promptYes(ctx context.Context, in io.Reader, out io.Writer) (bool, error) {
	_, _ = fmt.Fprint(out, "Are you sure (only 'yes' will be accepted): ")

	answer := make(chan string, 1)
	go func() {
		line, _ := bufio.NewReader(in).ReadString('\n')
		answer <- line
	}()

	select {
	case <-ctx.Done():
		_, _ = fmt.Fprintln(out)
		return false, ctx.Err()
	case line := <-answer:
		return strings.TrimSpace(line) == "yes", nil
	}
}
