package main

// @title Fuel Station Microservice API
// @version 1.0.0
// @description Микросервис пространственного индексирования топливных станций. Держит сводный датасет в памяти в виде иммутабельных снапшотов и отвечает на радиусные, атрибутные и текстовые запросы без обращения к базе на горячем пути.
// @description
// @description Основные возможности:
// @description - Поиск станций в радиусе от точки, одиночный и batch
// @description - Фильтрация по штату, городу, бренду и потолкам цен
// @description - Текстовый поиск по названию, адресу, району и городу
// @description - Метаданные снапшота: штаты, города, бренды, статистика цен

// @contact.name API Support
// @contact.email support@fuelstation-microservice.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	_ "github.com/fuelstation-microservice/docs/swagger"
	"github.com/fuelstation-microservice/internal/config"
	"github.com/fuelstation-microservice/internal/dedup"
	httpDelivery "github.com/fuelstation-microservice/internal/delivery/http"
	"github.com/fuelstation-microservice/internal/delivery/http/handler"
	"github.com/fuelstation-microservice/internal/domain/repository"
	"github.com/fuelstation-microservice/internal/normalize"
	"github.com/fuelstation-microservice/internal/pkg/logger"
	"github.com/fuelstation-microservice/internal/pkg/metrics"
	"github.com/fuelstation-microservice/internal/repository/cache"
	"github.com/fuelstation-microservice/internal/repository/postgres"
	redisRepo "github.com/fuelstation-microservice/internal/repository/redis"
	"github.com/fuelstation-microservice/internal/repository/sqlite"
	"github.com/fuelstation-microservice/internal/snapshot"
	"github.com/fuelstation-microservice/internal/usecase"
	"github.com/fuelstation-microservice/internal/worker"
	"github.com/fuelstation-microservice/internal/worker/rebuild"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Fuel Station Microservice")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("store_backend", cfg.Store.Backend),
		zap.String("cache_backend", cfg.Cache.Backend),
		zap.String("index_strategy", cfg.Index.Strategy),
	)

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStart()

	// 3. Connect the snapshot store
	store, err := newSnapshotStore(startCtx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize snapshot store", zap.Error(err))
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("Failed to close snapshot store", zap.Error(err))
		}
	}()
	log.Info("Snapshot store connected", zap.String("backend", cfg.Store.Backend))

	// 4. Connect the query cache
	var queryCache repository.QueryCache
	var redisClient *cache.Redis
	switch cfg.Cache.Backend {
	case "redis":
		redisClient, err = cache.NewRedis(&cfg.Redis, log)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Failed to close Redis connection", zap.Error(err))
			}
		}()
		queryCache = cache.NewQueryCache(redisClient)
		log.Info("Redis connected")
	case "off":
		log.Info("Query cache disabled")
	default:
		queryCache = cache.NewMemoryCache(cfg.Query.CacheTTL, log)
	}

	// 5. Health checks
	if err := store.Health(startCtx); err != nil {
		log.Fatal("Snapshot store health check failed", zap.Error(err))
	}
	if redisClient != nil {
		if err := redisClient.Health(startCtx); err != nil {
			log.Fatal("Redis health check failed", zap.Error(err))
		}
	}
	log.Info("All connections healthy")

	// 6. Initialize the snapshot pipeline
	m := metrics.NewMetrics()
	clock := clockwork.NewRealClock()

	snapshots := snapshot.NewManager(queryCache, log, m)
	normalizer := normalize.NewNormalizer(clock, log, m)
	deduper := dedup.NewDeduplicator(dedup.Config{
		CellSize:  cfg.Dedup.CellSize,
		Threshold: cfg.Dedup.Threshold,
	}, log, m)
	builder := snapshot.NewBuilder(cfg.Index.CellSize, clock, log, m)

	// Без Redis события о сборках недоступны, воркер живёт на опросе стора
	var streamRepo repository.StreamRepository
	if redisClient != nil {
		streamRepo = redisRepo.NewStreamRepository(redisClient.Client(), log)
	}

	// 7. Initialize use cases
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
	queryUC := usecase.NewQueryUseCase(snapshots, queryCache, log, m, cfg.Index.Strategy, cfg.Query.CacheTTL)
	metaUC := usecase.NewMetaUseCase(snapshots, queryCache, log, m, cfg.Index.Strategy, cfg.Query.CacheTTL)

	log.Info("Use cases initialized")

	// 8. Warm start from the latest stored generation
	if err := ingestUC.RestoreLatest(startCtx); err != nil {
		// Старт без снапшота допустим: ручки ответят SNAPSHOT_UNAVAILABLE до первой сборки
		log.Warn("Failed to restore snapshot on startup", zap.Error(err))
	}
	cancelStart()

	// 9. Start the snapshot rebuild worker
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	rebuildWorker := rebuild.NewRebuildWorker(
		streamRepo,
		ingestUC,
		cfg.Worker.ConsumerGroup,
		cfg.Worker.PollInterval,
		clock,
		log,
	)

	workerManager := worker.NewWorkerManager(log)
	workerManager.Register(rebuildWorker)

	if err := workerManager.Start(workerCtx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	// 10. Initialize HTTP handlers and server
	queryHandler := handler.NewQueryHandler(queryUC, log)
	metaHandler := handler.NewMetaHandler(metaUC, log)
	stationHandler := handler.NewStationHandler(metaUC, log)

	server := httpDelivery.NewServer(
		cfg,
		log,
		queryHandler,
		metaHandler,
		stationHandler,
		snapshots,
		store,
		queryCache,
	)

	log.Info("HTTP server initialized")

	// 11. Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 12. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	cancelWorkers()
	if err := workerManager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}

	log.Info("Server stopped successfully")
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
