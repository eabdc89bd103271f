package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/recipe-service/internal/config"
	"github.com/deppfellow/recipe-service/internal/handler"
	"github.com/deppfellow/recipe-service/internal/logger"
	"github.com/deppfellow/recipe-service/internal/repository"
	"github.com/deppfellow/recipe-service/internal/router"
	"github.com/deppfellow/recipe-service/internal/server"
	"github.com/deppfellow/recipe-service/internal/service"
	"github.com/urfave/cli/v3"
)

const defaultShutdownTimeout = 30 * time.Second

func shutdownTimeoutFlag() cli.Flag {
	return &cli.DurationFlag{
		Name:  "shutdown-timeout",
		Value: defaultShutdownTimeout,
		Usage: "Time allowed for in-flight requests to finish on SIGINT/SIGTERM",
	}
}

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Start the HTTP server (default)",
		Flags:  []cli.Flag{shutdownTimeoutFlag()},
		Action: runServe,
	}
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	loggerService, nrErr := logger.NewLoggerService(cfg.Observability)
	defer loggerService.Shutdown()

	log := logger.NewLoggerWithService(cfg.Observability, loggerService)
	if nrErr != nil {
		log.Warn().Err(nrErr).Msg("continuing without New Relic")
	}

	srv, err := server.New(cfg, &log, loggerService)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize server")
		return err
	}

	repos := repository.NewRepositories(srv)

	services, err := service.NewServices(srv, repos)
	if err != nil {
		log.Error().Err(err).Msg("could not create services")
		return err
	}

	handlers := handler.NewHandlers(srv, services)
	r := router.NewRouter(srv, handlers)

	srv.SetupHTTPServer(r)

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			log.Error().Err(err).Msg("failed to start server")
			_ = srv.Shutdown(context.Background())
			return err
		}
	case <-ctx.Done():
	}

	timeout := cmd.Duration("shutdown-timeout")
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	log.Info().Dur("timeout", timeout).Msg("shutting down server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		return err
	}

	log.Info().Msg("server exited properly")
	return nil
}
