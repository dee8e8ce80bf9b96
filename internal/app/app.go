// Package app wires the downstream clients into a handler. Clients are built
// once per process and reused across invocations.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/deionjtulcidas/ServerlessContactForm/internal/awsclient"
	"github.com/deionjtulcidas/ServerlessContactForm/internal/config"
	"github.com/deionjtulcidas/ServerlessContactForm/internal/database"
	"github.com/deionjtulcidas/ServerlessContactForm/internal/handler"
	"github.com/deionjtulcidas/ServerlessContactForm/internal/metrics"
	"github.com/deionjtulcidas/ServerlessContactForm/internal/notify"
	"github.com/deionjtulcidas/ServerlessContactForm/internal/observability"
	"github.com/deionjtulcidas/ServerlessContactForm/internal/repository"
	"github.com/deionjtulcidas/ServerlessContactForm/internal/storage"
)

const flushTimeout = 5 * time.Second

// App is the wired handler plus what must be released on exit.
type App struct {
	Handler *handler.SubmissionHandler
	Archive *storage.ArchiveClient
	closers []func()
}

// Close releases pools and flushes the New Relic agent.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// Build constructs every client named by cfg. Missing downstream names are
// not an error here: the handler reports them per request.
func Build(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*App, error) {
	a := &App{}

	nrApp, err := observability.NewRelicApp(cfg.Observability, logger)
	if err != nil {
		return nil, err
	}
	if nrApp != nil {
		a.closers = append(a.closers, func() { nrApp.Shutdown(flushTimeout) })
	}

	awsCfg, err := awsclient.Load(ctx, cfg.AWS)
	if err != nil {
		return nil, err
	}

	var store repository.SubmissionStore
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		if cfg.DatabaseURL == "" {
			break
		}
		if err := database.RunMigrations(ctx, cfg.DatabaseURL); err != nil {
			return nil, fmt.Errorf("migrations: %w", err)
		}
		pool, err := database.NewPool(ctx, cfg.DatabaseURL, database.PoolOptions{
			Logger:   logger,
			NewRelic: nrApp != nil,
		})
		if err != nil {
			return nil, fmt.Errorf("database pool: %w", err)
		}
		a.closers = append(a.closers, pool.Close)
		store = repository.NewPostgresStore(pool)
	default:
		store = repository.NewDynamoStore(repository.NewDynamoClient(awsCfg), cfg.Downstream.TableName)
	}

	var s3Client storage.S3API
	if cfg.AWS.ArchiveEndpoint != "" {
		s3Client = storage.NewStaticS3Client(cfg.AWS.ArchiveEndpoint, cfg.AWS.Region, cfg.AWS.ArchiveAccessKey, cfg.AWS.ArchiveSecretKey)
	} else {
		s3Client = storage.NewS3Client(awsCfg, cfg.AWS.EndpointURL)
	}
	a.Archive = storage.NewArchiveClient(s3Client, cfg.Downstream.Bucket, cfg.ArchivePrefix)

	sink := metrics.Multi{metrics.NewCloudWatchSink(metrics.NewCloudWatchClient(awsCfg), cfg.Downstream.MetricNamespace)}
	if nrApp != nil {
		sink = append(sink, metrics.NewNewRelicSink(nrApp))
	}

	a.Handler = handler.New(cfg, handler.Deps{
		Store:    store,
		Archive:  a.Archive,
		Notifier: notify.NewSNSNotifier(notify.NewSNSClient(awsCfg), cfg.Downstream.TopicARN),
		Metrics:  sink,
		NewRelic: nrApp,
		Logger:   logger,
	})
	return a, nil
}
