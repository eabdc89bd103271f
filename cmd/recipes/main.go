package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
)

const (
	name           = "recipes"
	versionDefault = "dev"
)

// overridden during build with ldflags
var version = versionDefault

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cli.Command {
	return &cli.Command{
		Name:    name,
		Version: version,
		Usage:   "Recipe CRUD service",
		Description: `Serves the recipe API over HTTP.

Configuration is read from RECIPES_* environment variables (and a .env file
when present). Run without a subcommand to start the server.`,
		Flags:  []cli.Flag{shutdownTimeoutFlag()},
		Action: runServe,
		Commands: []*cli.Command{
			serveCmd(),
			migrateCmd(),
		},
	}
}
