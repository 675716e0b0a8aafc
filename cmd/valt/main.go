package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/systmms/valt/cmd/valt/commands"
	"github.com/systmms/valt/internal/config"
	"github.com/systmms/valt/internal/secure"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	code := run()
	secure.Purge()
	os.Exit(code)
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := &config.Config{}
	opts := &commands.Options{}

	rootCmd := commands.NewRootCommand(cfg, opts, fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date))
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		commands.ReportError(os.Stderr, cfg.Logger, err)
		return commands.ExitCode(err)
	}
	return 0
}
