package main

import (
	"context"
	"fmt"
	"time"

	"github.com/deppfellow/recipe-service/internal/config"
	"github.com/deppfellow/recipe-service/internal/database"
	"github.com/deppfellow/recipe-service/internal/logger"
	"github.com/urfave/cli/v3"
)

func migrateCmd() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Create the recipe collection indexes and exit",
		Description: `Ensures the unique title index exists on the recipes collection.

Safe to run repeatedly: existing indexes are left untouched.`,
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "timeout",
				Value: time.Minute,
				Usage: "Maximum time to wait for the document store",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			log := logger.NewLogger(cfg.Observability)

			ctx, cancel := context.WithTimeout(ctx, cmd.Duration("timeout"))
			defer cancel()

			if err := database.Migrate(ctx, &log, cfg); err != nil {
				log.Error().Err(err).Msg("migration failed")
				return err
			}
			return nil
		},
	}
}
