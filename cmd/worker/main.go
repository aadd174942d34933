package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/fuelstation-microservice/internal/config"
	"github.com/fuelstation-microservice/internal/dedup"
	"github.com/fuelstation-microservice/internal/domain/repository"
	"github.com/fuelstation-microservice/internal/normalize"
	"github.com/fuelstation-microservice/internal/pkg/logger"
	"github.com/fuelstation-microservice/internal/pkg/metrics"
	"github.com/fuelstation-microservice/internal/repository/cache"
	"github.com/fuelstation-microservice/internal/repository/feedfile"
	"github.com/fuelstation-microservice/internal/repository/feedhttp"
	"github.com/fuelstation-microservice/internal/repository/kafka"
	"github.com/fuelstation-microservice/internal/repository/postgres"
	redisRepo "github.com/fuelstation-microservice/internal/repository/redis"
	"github.com/fuelstation-microservice/internal/repository/sqlite"
	"github.com/fuelstation-microservice/internal/snapshot"
	"github.com/fuelstation-microservice/internal/usecase"
	"github.com/fuelstation-microservice/internal/worker"
	"github.com/fuelstation-microservice/internal/worker/ingest"
)

func main() {
	app := &cli.App{
		Name:  "fuelstation-worker",
		Usage: "Ingest fuel station feeds and build query snapshots",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "feed",
				Usage: "Feed source override: kafka, file or http",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Consume the feed continuously and build snapshots",
				Action: runAction,
			},
			{
				Name:   "once",
				Usage:  "Fetch and ingest a single feed batch, then exit",
				Action: onceAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runAction(c *cli.Context) error {
	p, err := newPipeline(c)
	if err != nil {
		return err
	}
	defer p.Close()

	ingestWorker := ingest.NewIngestWorker(
		p.source,
		p.ingest,
		p.cfg.Worker.FlushSize,
		p.cfg.Worker.FlushInterval,
		p.cfg.Worker.PollInterval,
		clockwork.NewRealClock(),
		p.metrics,
		p.log,
	)

	workerManager := worker.NewWorkerManager(p.log)
	workerManager.Register(ingestWorker)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := workerManager.Start(ctx); err != nil {
		return fmt.Errorf("failed to start workers: %w", err)
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	p.log.Info("Received shutdown signal")

	// Контекст не отменяем до Stop: остановка через StopChan даёт
	// воркеру дослать накопленную пачку
	if err := workerManager.Stop(); err != nil {
		p.log.Error("Error stopping workers", zap.Error(err))
	}

	p.log.Info("Worker shutdown complete")
	return nil
}

func onceAction(c *cli.Context) error {
	p, err := newPipeline(c)
	if err != nil {
		return err
	}
	defer p.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	raws, err := p.source.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("fetch feed: %w", err)
	}
	if len(raws) == 0 {
		p.log.Info("Feed returned no records, nothing to ingest")
		return nil
	}

	summary, err := p.ingest.IngestBatch(ctx, p.source.Name(), raws)
	if err != nil {
		return fmt.Errorf("ingest batch: %w", err)
	}

	p.log.Info("Feed batch ingested",
		zap.String("generation", summary.Generation),
		zap.Int("received", summary.Received),
		zap.Int("rejected", summary.Rejected),
		zap.Int("merged_groups", summary.MergedGroups),
		zap.Int("indexed", summary.Indexed),
	)
	return nil
}

// pipeline - конвейер инжеста вместе со своей инфраструктурой
type pipeline struct {
	cfg     *config.Config
	log     *zap.Logger
	metrics *metrics.Metrics
	store   repository.SnapshotStore
	redis   *cache.Redis
	source  repository.FeedSource
	ingest  *usecase.IngestUseCase
}

func newPipeline(c *cli.Context) (*pipeline, error) {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if override := c.String("feed"); override != "" {
		cfg.Feed.Source = override
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	log.Info("Starting Fuel Station Ingest Worker")
	log.Info("Configuration loaded",
		zap.String("feed_source", cfg.Feed.Source),
		zap.String("store_backend", cfg.Store.Backend),
		zap.Int("flush_size", cfg.Worker.FlushSize),
		zap.Duration("flush_interval", cfg.Worker.FlushInterval),
		zap.Int("keep_generations", cfg.Worker.KeepGenerations))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// 3. Connect the snapshot store
	store, err := newSnapshotStore(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize snapshot store: %w", err)
	}

	// 4. Connect Redis for snapshot events and shared cache invalidation
	var redisClient *cache.Redis
	var streamRepo repository.StreamRepository
	var queryCache repository.QueryCache
	if cfg.Cache.Backend == "redis" {
		redisClient, err = cache.NewRedis(&cfg.Redis, log)
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		streamRepo = redisRepo.NewStreamRepository(redisClient.Client(), log)
		queryCache = cache.NewQueryCache(redisClient)
		log.Info("Redis connected")
	} else {
		// Без Redis сборки доезжают до API периодическим опросом стора
		log.Info("Running without Redis, snapshot events disabled")
	}

	// 5. Build the ingest pipeline
	m := metrics.NewMetrics()
	clock := clockwork.NewRealClock()

	snapshots := snapshot.NewManager(queryCache, log, m)
	normalizer := normalize.NewNormalizer(clock, log, m)
	deduper := dedup.NewDeduplicator(dedup.Config{
		CellSize:  cfg.Dedup.CellSize,
		Threshold: cfg.Dedup.Threshold,
	}, log, m)
	builder := snapshot.NewBuilder(cfg.Index.CellSize, clock, log, m)

	ingestUC := usecase.NewIngestUseCase(
		normalizer,
		deduper,
		builder,
		snapshots,
		store,
		streamRepo,
		log,
		cfg.Worker.KeepGenerations,
	)

	// 6. Open the feed source
	source, err := newFeedSource(cfg, log)
	if err != nil {
		if redisClient != nil {
			redisClient.Close()
		}
		store.Close()
		return nil, err
	}
	log.Info("Feed source ready", zap.String("source", source.Name()))

	return &pipeline{
		cfg:     cfg,
		log:     log,
		metrics: m,
		store:   store,
		redis:   redisClient,
		source:  source,
		ingest:  ingestUC,
	}, nil
}

func (p *pipeline) Close() {
	if err := p.source.Close(); err != nil {
		p.log.Error("Failed to close feed source", zap.Error(err))
	}
	if p.redis != nil {
		if err := p.redis.Close(); err != nil {
			p.log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}
	if err := p.store.Close(); err != nil {
		p.log.Error("Failed to close snapshot store", zap.Error(err))
	}
	p.log.Sync()
}

// newSnapshotStore - выбор бэкенда стора генераций
func newSnapshotStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (repository.SnapshotStore, error) {
	switch cfg.Store.Backend {
	case "postgres":
		db, err := postgres.New(&cfg.Database, log)
		if err != nil {
			return nil, err
		}
		return postgres.NewSnapshotStore(ctx, db, log)
	default:
		return sqlite.New(cfg.Store.SQLitePath, log)
	}
}

// newFeedSource - выбор источника фида
func newFeedSource(cfg *config.Config, log *zap.Logger) (repository.FeedSource, error) {
	switch cfg.Feed.Source {
	case "kafka":
		return kafka.NewFeedSource(&cfg.Feed, log), nil
	case "http":
		return feedhttp.NewFeedSource(&cfg.Feed, log), nil
	case "file":
		return feedfile.NewFeedSource(&cfg.Feed, log)
	default:
		return nil, fmt.Errorf("unknown feed source %q", cfg.Feed.Source)
	}
}
