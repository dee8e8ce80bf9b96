package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/deionjtulcidas/ServerlessContactForm/internal/app"
	"github.com/deionjtulcidas/ServerlessContactForm/internal/config"
	"github.com/deionjtulcidas/ServerlessContactForm/internal/observability"
)

func main() {
	bootLogger := observability.NewLogger(observability.DefaultObservabilityConfig())
	cfg := config.MustLoadConfig(bootLogger)
	logger := observability.NewLogger(cfg.Observability)

	a, err := app.Build(context.Background(), cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("could not build handler")
		os.Exit(1)
	}
	defer a.Close()

	lambda.Start(a.Handler.HandleEvent)
}
