// Background analysis worker entry point for DocLens-Intelligence.
// Consumes document.submitted events and runs the analysis pipeline.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/turtacn/DocLens-Intelligence/internal/analysis"
	app "github.com/turtacn/DocLens-Intelligence/internal/application/analysis"
	"github.com/turtacn/DocLens-Intelligence/internal/infrastructure/database/postgres"
	"github.com/turtacn/DocLens-Intelligence/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/DocLens-Intelligence/internal/infrastructure/database/redis"
	"github.com/turtacn/DocLens-Intelligence/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/DocLens-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DocLens-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/DocLens-Intelligence/internal/infrastructure/search/opensearch"
	"github.com/turtacn/DocLens-Intelligence/internal/infrastructure/storage/minio"
	"github.com/turtacn/DocLens-Intelligence/internal/platform"
	"github.com/turtacn/DocLens-Intelligence/internal/worker"
)

const defaultConfigPath = "configs/config.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	metricsPort := flag.Int("metrics-port", 9091, "port for the metrics and health endpoint")
	flag.Parse()

	cfg, err := platform.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logger, err := platform.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}
	logger = logger.Named("worker")
	logging.SetDefault(logger)

	metrics := prometheus.NewAppMetrics()
	eventMetrics := prometheus.NewEventMetrics(metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conn, err := postgres.NewConnection(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("postgres connection failed", logging.Err(err))
	}
	defer conn.Close()
	repo := repositories.NewAnalysisRepository(conn.Pool(), logger)

	redisClient, err := redis.NewClient(ctx, cfg.Redis, logger)
	if err != nil {
		logger.Fatal("redis connection failed", logging.Err(err))
	}
	defer redisClient.Close()
	cache := redis.NewCache(redisClient, logger,
		redis.WithPrefix(cfg.Redis.KeyPrefix),
		redis.WithDefaultTTL(cfg.Redis.DefaultTTL))

	minioClient, err := minio.NewClient(cfg.MinIO, logger)
	if err != nil {
		logger.Fatal("minio connection failed", logging.Err(err))
	}
	texts := minio.NewTextStore(minioClient, logger)

	var indexer app.ResultIndexer
	if osClient, osErr := opensearch.NewClient(cfg.OpenSearch, logger); osErr != nil {
		logger.Warn("opensearch unavailable, results will not be indexed", logging.Err(osErr))
	} else {
		idx := opensearch.NewIndexer(osClient, logger)
		if err := idx.EnsureIndex(ctx); err != nil {
			logger.Warn("opensearch index setup failed", logging.Err(err))
		}
		indexer = idx
	}

	producer, err := kafka.NewProducer(cfg.Kafka, "worker", logger, eventMetrics)
	if err != nil {
		logger.Fatal("kafka producer setup failed", logging.Err(err))
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
		Metrics:   prometheus.NewUsageMetrics(metrics),
		Config:    cfg.Analysis,
		Logger:    logger,
	})

	w := worker.New(svc, cfg.Worker, logger, prometheus.NewWorkerMetrics(metrics))

	concurrency := cfg.Worker.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	logger.Info("starting consumers",
		logging.Int("concurrency", concurrency),
		logging.String("group_id", cfg.Kafka.GroupID))

	g, gctx := errgroup.WithContext(ctx)
	consumers := make([]*kafka.Consumer, 0, concurrency)
	for i := 0; i < concurrency; i++ {
		consumer, err := kafka.NewConsumer(cfg.Kafka, kafka.TopicDocumentSubmitted, logger, eventMetrics)
		if err != nil {
			logger.Fatal("kafka consumer setup failed", logging.Err(err))
		}
		consumers = append(consumers, consumer)
		g.Go(func() error {
			return consumer.Run(gctx, w.Handler())
		})
	}

	if cfg.Metrics.Enabled {
		g.Go(func() error {
			return serveMetrics(gctx, *metricsPort, cfg.Metrics.Path, metrics, conn, logger)
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("worker stopped with error", logging.Err(err))
	}
	for _, c := range consumers {
		if err := c.Close(); err != nil {
			logger.Warn("consumer close failed", logging.Err(err))
		}
	}
	logger.Info("stopped")
}

// serveMetrics exposes the Prometheus endpoint and a liveness probe on a
// dedicated port.
func serveMetrics(ctx context.Context, port int, path string, metrics *prometheus.AppMetrics, conn *postgres.Connection, logger logging.Logger) error {
	if path == "" {
		path = "/metrics"
	}

	mux := http.NewServeMux()
	mux.Handle(path, metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := conn.HealthCheck(r.Context()); err != nil {
			http.Error(w, "degraded", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("metrics endpoint listening", logging.Int("port", port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

