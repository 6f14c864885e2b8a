package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/waste-report-service/internal/config"
	"github.com/waste-report-service/internal/infrastructure/smtp"
	"github.com/waste-report-service/internal/pkg/logger"
	"github.com/waste-report-service/internal/repository/postgres"
	redisRepo "github.com/waste-report-service/internal/repository/redis"
	"github.com/waste-report-service/internal/usecase"
	"github.com/waste-report-service/internal/worker"
	"github.com/waste-report-service/internal/worker/reconcile"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Check if the reconcile worker is enabled
	if !cfg.Worker.ReconcileEnabled {
		fmt.Println("Reconcile worker is disabled in configuration. Set WORKER_RECONCILE_ENABLED=true to enable.")
		os.Exit(0)
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Badge Reconcile Worker")
	log.Info("Configuration loaded",
		zap.Duration("interval", cfg.Worker.ReconcileInterval))

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

	// 5. Initialize repositories
	reportRepo := postgres.NewReportRepository(db, log)
	userRepo := postgres.NewUserRepository(db, log)
	badgeRepo := postgres.NewBadgeRepository(db, log)
	notificationRepo := postgres.NewNotificationRepository(db, log)
	pushSink := redisRepo.NewPushSink(redisClient.Client(), log)

	// 6. Initialize use cases
	mailer := smtp.NewMailer(&cfg.SMTP, log)
	notificationUC := usecase.NewNotificationUseCase(notificationRepo, userRepo, pushSink, mailer, log)
	badgeUC := usecase.NewBadgeUseCase(reportRepo, userRepo, badgeRepo, notificationUC, log)

	// 7. Initialize workers
	badgeWorker := reconcile.NewBadgeReconcileWorker(
		reportRepo,
		badgeUC,
		cfg.Worker.ReconcileInterval,
		log,
	)

	// 8. Create worker manager and register workers
	manager := worker.NewManager(log)
	manager.Register(badgeWorker)

	// 9. Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := manager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Info("Received shutdown signal")

	cancel()

	if err := manager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}

	log.Info("Worker stopped successfully")
}
