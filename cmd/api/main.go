package main

// @title Waste Report Service API
// @version 1.0.0
// @description Сервис приёма отчётов о несанкционированных свалках. Жители отправляют геолокацию, описание или голосовую заметку и фото; сервис проверяет допустимость зоны, готовит рендишны изображений, начисляет очки, оценивает бейджи и уведомляет администраторов.
// @description
// @description Основные возможности:
// @description - Приём отчёта с геопроверкой (прямоугольник + радиус от центра зоны)
// @description - Загрузка фото в трёх размерах с fallback-хранилищем
// @description - Очки и бейджи за активность
// @description - Уведомления in-app / push / email

// @contact.name API Support
// @contact.email support@waste-report-service.com

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

	_ "github.com/waste-report-service/docs/swagger"
	"github.com/waste-report-service/internal/config"
	httpDelivery "github.com/waste-report-service/internal/delivery/http"
	"github.com/waste-report-service/internal/delivery/http/handler"
	"github.com/waste-report-service/internal/domain"
	"github.com/waste-report-service/internal/infrastructure/smtp"
	"github.com/waste-report-service/internal/infrastructure/storage"
	"github.com/waste-report-service/internal/pkg/logger"
	"github.com/waste-report-service/internal/repository/postgres"
	redisRepo "github.com/waste-report-service/internal/repository/redis"
	"github.com/waste-report-service/internal/usecase"
	"github.com/waste-report-service/internal/worker"
	"go.uber.org/zap"
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

	log.Info("Starting Waste Report Service")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
	)

	// 3. Connect to PostgreSQL
	db, err := postgres.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close PostgreSQL connection", zap.Error(err))
		}
	}()
	log.Info("PostgreSQL connected")

	// 4. Connect to Redis
	redisClient, err := redisRepo.New(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()
	log.Info("Redis connected")

	// 5. Health checks
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.Health(ctx); err != nil {
		log.Fatal("PostgreSQL health check failed", zap.Error(err))
	}
	if err := redisClient.Health(ctx); err != nil {
		log.Fatal("Redis health check failed", zap.Error(err))
	}

	log.Info("All connections healthy")

	// 6. Initialize Repositories
	reportRepo := postgres.NewReportRepository(db, log)
	userRepo := postgres.NewUserRepository(db, log)
	badgeRepo := postgres.NewBadgeRepository(db, log)
	notificationRepo := postgres.NewNotificationRepository(db, log)
	auditRepo := postgres.NewAuditRepository(db, log)
	pushSink := redisRepo.NewPushSink(redisClient.Client(), log)

	log.Info("Repositories initialized")

	// 7. Initialize infrastructure
	primaryStorage, secondaryStorage, err := storage.Select(&cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}
	log.Info("Object storage initialized",
		zap.String("primary", primaryStorage.Name()),
		zap.Bool("fallback_available", secondaryStorage != nil),
	)

	mailer := smtp.NewMailer(&cfg.SMTP, log)

	dispatcher := worker.NewDispatcher(
		cfg.Worker.Count,
		cfg.Worker.QueueSize,
		cfg.Worker.ShutdownTimeout,
		log,
	)
	dispatcher.Start()
	log.Info("Background dispatcher started",
		zap.Int("workers", cfg.Worker.Count),
		zap.Int("queue_size", cfg.Worker.QueueSize),
	)

	// 8. Initialize Use Cases
	zone := domain.AdmissibleZone{
		North:       cfg.Zone.North,
		South:       cfg.Zone.South,
		East:        cfg.Zone.East,
		West:        cfg.Zone.West,
		Center:      domain.Coordinate{Lat: cfg.Zone.CenterLat, Lng: cfg.Zone.CenterLng},
		MaxRadiusKm: cfg.Zone.MaxRadiusKm,
	}

	mediaUC := usecase.NewMediaUseCase(primaryStorage, secondaryStorage, &cfg.Media, log)
	notificationUC := usecase.NewNotificationUseCase(notificationRepo, userRepo, pushSink, mailer, log)
	badgeUC := usecase.NewBadgeUseCase(reportRepo, userRepo, badgeRepo, notificationUC, log)
	reportUC := usecase.NewReportUseCase(
		reportRepo,
		userRepo,
		auditRepo,
		mediaUC,
		badgeUC,
		notificationUC,
		dispatcher,
		zone,
		cfg.Points.ReportSubmitted,
		log,
	)

	log.Info("Use cases initialized")

	// 9. Initialize HTTP Handlers
	reportHandler := handler.NewReportHandler(reportUC, log)
	userHandler := handler.NewUserHandler(badgeUC, log)
	notificationHandler := handler.NewNotificationHandler(notificationUC, log)

	log.Info("HTTP handlers initialized")

	// 10. Initialize HTTP Server
	server := httpDelivery.NewServer(
		cfg,
		log,
		reportHandler,
		userHandler,
		notificationHandler,
		db,
		redisClient,
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

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Stop accepting requests first, then drain queued background tasks
	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	if err := dispatcher.Stop(); err != nil {
		log.Error("Dispatcher drain error", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}
