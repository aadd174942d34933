package http

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"

	"github.com/fuelstation-microservice/internal/config"
	"github.com/fuelstation-microservice/internal/delivery/http/handler"
	"github.com/fuelstation-microservice/internal/delivery/http/middleware"
	"github.com/fuelstation-microservice/internal/domain/repository"
	apperrors "github.com/fuelstation-microservice/internal/pkg/errors"
	"github.com/fuelstation-microservice/internal/pkg/utils"
	"github.com/fuelstation-microservice/internal/snapshot"
)

const appName = "Fuel Station Microservice"

// Server - HTTP сервер на основе Fiber
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger

	// Handlers
	queryHandler   *handler.QueryHandler
	metaHandler    *handler.MetaHandler
	stationHandler *handler.StationHandler
	indexHandler   *handler.IndexHandler

	// Зависимости health check, store и cache могут отсутствовать
	snapshots *snapshot.Manager
	store     repository.SnapshotStore
	cache     repository.QueryCache
}

// NewServer - создание нового HTTP сервера
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	queryHandler *handler.QueryHandler,
	metaHandler *handler.MetaHandler,
	stationHandler *handler.StationHandler,
	snapshots *snapshot.Manager,
	store repository.SnapshotStore,
	cache repository.QueryCache,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      appName,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:            app,
		config:         cfg,
		logger:         logger,
		queryHandler:   queryHandler,
		metaHandler:    metaHandler,
		stationHandler: stationHandler,
		indexHandler:   handler.NewIndexHandler(appName),
		snapshots:      snapshots,
		store:          store,
		cache:          cache,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// setupMiddlewares - настройка middleware
func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery())
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS())
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

// setupRoutes - настройка маршрутов
func (s *Server) setupRoutes() {
	// Swagger documentation route
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	// Каталог методов API
	s.app.Get("/", s.indexHandler.Index)

	// Health check
	s.app.Get("/health", s.healthCheck)

	// Prometheus metrics
	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Query routes
	s.app.Get("/query/nearby", s.queryHandler.Nearby)
	s.app.Get("/query/filter", s.queryHandler.Filter)
	s.app.Get("/query/search", s.queryHandler.Search)
	s.app.Post("/query/batch", s.queryHandler.BatchNearby)

	// Station routes
	s.app.Get("/stations/:id", s.stationHandler.GetByID)

	// Meta routes
	s.app.Get("/meta/status", s.metaHandler.Status)
	s.app.Get("/meta/states", s.metaHandler.States)
	s.app.Get("/meta/cities/:state", s.metaHandler.Cities)
	s.app.Get("/meta/brands", s.metaHandler.Brands)
	s.app.Get("/meta/stats", s.metaHandler.Stats)
}

// healthCheck - состояние сервиса и его зависимостей
func (s *Server) healthCheck(c *fiber.Ctx) error {
	checks := fiber.Map{}
	healthy := true

	if s.snapshots != nil && s.snapshots.Ready() {
		checks["snapshot"] = "ready"
	} else {
		// Пустой снапшот не валит health: процесс жив, данные появятся после первого инжеста
		checks["snapshot"] = "empty"
	}

	if s.store != nil {
		if err := s.store.Health(c.Context()); err != nil {
			checks["store"] = "unavailable"
			healthy = false
		} else {
			checks["store"] = "ok"
		}
	}

	if s.cache != nil {
		if err := s.cache.Health(c.Context()); err != nil {
			checks["cache"] = "unavailable"
			healthy = false
		} else {
			checks["cache"] = "ok"
		}
	}

	status := "healthy"
	code := fiber.StatusOK
	if !healthy {
		status = "degraded"
		code = fiber.StatusServiceUnavailable
	}

	return c.Status(code).JSON(fiber.Map{
		"status": status,
		"checks": checks,
		"time":   time.Now(),
	})
}

// Start - запуск HTTP сервера
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown HTTP сервера
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// customErrorHandler - кастомный обработчик ошибок
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return c.Status(appErr.StatusCode).JSON(utils.ErrorResponse{Error: appErr})
		}

		code := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		logger.Error("HTTP Error",
			zap.String("path", c.Path()),
			zap.Int("status", code),
			zap.Error(err),
		)

		return c.Status(code).JSON(utils.ErrorResponse{
			Error: apperrors.New("INTERNAL_SERVER_ERROR", err.Error(), code),
		})
	}
}
