package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/deionjtulcidas/ServerlessContactForm/internal/app"
	"github.com/deionjtulcidas/ServerlessContactForm/internal/config"
	"github.com/deionjtulcidas/ServerlessContactForm/internal/observability"
	"github.com/deionjtulcidas/ServerlessContactForm/internal/server"
)

func main() {
	bootLogger := observability.NewLogger(&observability.ObservabilityConfig{
		ServiceName: "contactform",
		Environment: "local",
	})
	cfg := config.MustLoadConfig(bootLogger)
	logger := observability.NewLogger(cfg.Observability)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("could not build handler")
		os.Exit(1)
	}
	defer a.Close()

	// Local S3-compatible endpoints start empty.
	if cfg.AWS.EndpointURL != "" || cfg.AWS.ArchiveEndpoint != "" {
		if err := a.Archive.EnsureBucket(ctx); err != nil {
			logger.Warn().Err(err).Msg("ensure archive bucket failed (archive writes may fail)")
		}
	}

	srv := server.New(cfg, a.Handler, a.Archive, logger)
	if err := srv.Start(ctx); err != nil {
		logger.Error().Err(err).Msg("server exited")
		os.Exit(1)
	}
}
