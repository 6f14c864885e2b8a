package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"github.com/waste-report-service/internal/config"
	"github.com/waste-report-service/internal/delivery/http/handler"
	"github.com/waste-report-service/internal/delivery/http/middleware"
	"go.uber.org/zap"
)

// HealthChecker - зависимость, умеющая отвечать на health-пробу
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Server - HTTP сервер на основе Fiber
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger

	// Handlers
	reportHandler       *handler.ReportHandler
	userHandler         *handler.UserHandler
	notificationHandler *handler.NotificationHandler

	// Health probes
	postgres HealthChecker
	redis    HealthChecker
}

// NewServer - создание нового HTTP сервера
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	reportHandler *handler.ReportHandler,
	userHandler *handler.UserHandler,
	notificationHandler *handler.NotificationHandler,
	postgres HealthChecker,
	redis HealthChecker,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Waste Report Service",
		BodyLimit:    32 * 1024 * 1024,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:                 app,
		config:              cfg,
		logger:              logger,
		reportHandler:       reportHandler,
		userHandler:         userHandler,
		notificationHandler: notificationHandler,
		postgres:            postgres,
		redis:               redis,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// setupMiddlewares - настройка middleware
func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery(s.logger))
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS(s.config.Server.AllowOrigins))
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

// setupRoutes - настройка маршрутов
func (s *Server) setupRoutes() {
	// Swagger documentation route
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	// Locally stored media, served only when the local provider is active
	s.app.Static(s.config.Storage.LocalURL, s.config.Storage.LocalDir)

	api := s.app.Group("/api/v1")

	// Health check
	api.Get("/health", s.health)

	// Report routes
	api.Post("/reports", s.reportHandler.Submit)
	api.Get("/reports", s.reportHandler.List)
	api.Get("/reports/:id", s.reportHandler.Get)
	api.Patch("/reports/:id/status", s.reportHandler.UpdateStatus)
	api.Delete("/reports/:id", s.reportHandler.Delete)

	// User routes
	api.Get("/users/:id/stats", s.userHandler.Stats)
	api.Get("/users/:id/badges", s.userHandler.Badges)
	api.Get("/users/:id/notifications", s.notificationHandler.List)

	// Notification routes
	api.Patch("/notifications/:id/read", s.notificationHandler.MarkRead)
}

// health проверяет postgres и redis; деградация любого из них делает
// сервис unhealthy
func (s *Server) health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 3*time.Second)
	defer cancel()

	status := fiber.Map{
		"status":   "healthy",
		"postgres": "up",
		"redis":    "up",
		"time":     time.Now(),
	}
	healthy := true

	if err := s.postgres.Health(ctx); err != nil {
		status["postgres"] = "down"
		healthy = false
	}
	if err := s.redis.Health(ctx); err != nil {
		status["redis"] = "down"
		healthy = false
	}

	if !healthy {
		status["status"] = "unhealthy"
		return c.Status(fiber.StatusServiceUnavailable).JSON(status)
	}
	return c.JSON(status)
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
		code := fiber.StatusInternalServerError

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		logger.Error("HTTP Error",
			zap.String("path", c.Path()),
			zap.Int("status", code),
			zap.Error(err),
		)

		return c.Status(code).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "INTERNAL_SERVER_ERROR",
				"message": err.Error(),
			},
		})
	}
}
