// Package platform composes the full service stack from configuration.
// Both cmd/apiserver and the CLI serve command run through RunServer so
// the wiring lives in one place.
package platform

import (
	"context"
	"fmt"
	"os"

	"github.com/turtacn/DocLens-Intelligence/internal/analysis"
	app "github.com/turtacn/DocLens-Intelligence/internal/application/analysis"
	"github.com/turtacn/DocLens-Intelligence/internal/config"
	"github.com/turtacn/DocLens-Intelligence/internal/infrastructure/database/postgres"
	"github.com/turtacn/DocLens-Intelligence/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/DocLens-Intelligence/internal/infrastructure/database/redis"
	"github.com/turtacn/DocLens-Intelligence/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/DocLens-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DocLens-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/DocLens-Intelligence/internal/infrastructure/search/opensearch"
	"github.com/turtacn/DocLens-Intelligence/internal/infrastructure/storage/minio"
	httpserver "github.com/turtacn/DocLens-Intelligence/internal/interfaces/http"
	"github.com/turtacn/DocLens-Intelligence/internal/interfaces/http/handlers"
)

// LoadConfig reads the config file when it exists and otherwise falls back
// to DOCLENS_* environment variables.
func LoadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config.LoadFromEnv()
	}
	return config.Load(path)
}

// NewLogger builds the process logger from the application log settings.
func NewLogger(cfg config.LogConfig) (logging.Logger, error) {
	format := "json"
	if cfg.Format == "text" {
		format = "console"
	}
	outputs := []string{"stdout"}
	if cfg.Output != "" {
		outputs = []string{cfg.Output}
	}
	return logging.NewLogger(logging.LogConfig{
		Level:       cfg.Level,
		Format:      format,
		OutputPaths: outputs,
	})
}

// RunServer wires the infrastructure, starts the HTTP API, and blocks
// until ctx is cancelled, then drains in-flight requests.
func RunServer(ctx context.Context, cfg *config.Config, logger logging.Logger) error {
	metrics := prometheus.NewAppMetrics()

	// PostgreSQL: pool, migrations, repository.
	conn, err := postgres.NewConnection(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := postgres.RunMigrations(postgres.BuildDSN(cfg.Database), cfg.Database.MigrationPath); err != nil {
		return err
	}
	repo := repositories.NewAnalysisRepository(conn.Pool(), logger)

	// Redis result cache.
	redisClient, err := redis.NewClient(ctx, cfg.Redis, logger)
	if err != nil {
		return err
	}
	defer redisClient.Close()
	cache := redis.NewCache(redisClient, logger,
		redis.WithPrefix(cfg.Redis.KeyPrefix),
		redis.WithDefaultTTL(cfg.Redis.DefaultTTL))

	// MinIO document text store.
	minioClient, err := minio.NewClient(cfg.MinIO, logger)
	if err != nil {
		return err
	}
	texts := minio.NewTextStore(minioClient, logger)

	// OpenSearch is optional: the API degrades to repository listing when
	// the cluster is unreachable at startup.
	var (
		indexer  app.ResultIndexer
		searcher app.Searcher
	)
	osHealth := func(context.Context) error { return fmt.Errorf("opensearch not configured") }
	if osClient, osErr := opensearch.NewClient(cfg.OpenSearch, logger); osErr != nil {
		logger.Warn("opensearch unavailable, search disabled", logging.Err(osErr))
	} else {
		idx := opensearch.NewIndexer(osClient, logger)
		if err := idx.EnsureIndex(ctx); err != nil {
			logger.Warn("opensearch index setup failed", logging.Err(err))
		}
		indexer = idx
		searcher = opensearch.NewSearcher(osClient, logger)
		osHealth = osClient.Ping
	}

	// Kafka producer for async submissions.
	producer, err := kafka.NewProducer(cfg.Kafka, "apiserver", logger, prometheus.NewEventMetrics(metrics))
	if err != nil {
		return err
	}
	defer producer.Close()

	engine := analysis.NewEngine(
		analysis.WithLogger(logger),
		analysis.WithMetrics(prometheus.NewAnalysisMetrics(metrics)),
	)

	svc := app.NewService(app.Deps{
		Repo:      repo,
		Engine:    engine,
		Cache:     cache,
		Texts:     texts,
		Publisher: producer,
		Indexer:   indexer,
		Searcher:  searcher,
		Metrics:   prometheus.NewUsageMetrics(metrics),
		Config:    cfg.Analysis,
		Logger:    logger,
	})

	router := httpserver.NewRouter(httpserver.RouterConfig{
		AnalysisHandler: handlers.NewAnalysisHandler(svc, logger),
		HealthHandler: handlers.NewHealthHandler(map[string]handlers.HealthCheck{
			"postgres":   conn.HealthCheck,
			"redis":      redisClient.HealthCheck,
			"minio":      minioClient.HealthCheck,
			"opensearch": osHealth,
		}),
		Logger:        logger,
		Metrics:       metrics,
		Server:        cfg.Server,
		MetricsConfig: cfg.Metrics,
	})

	srv := httpserver.NewServer(cfg.Server, router, logger)
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	return srv.Shutdown(context.Background())
}
