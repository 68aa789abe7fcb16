package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/talentops/recruiting-ops/internal/application/dispatcher"
	"github.com/talentops/recruiting-ops/internal/application/service"
	appwf "github.com/talentops/recruiting-ops/internal/application/workflow"
	"github.com/talentops/recruiting-ops/internal/config"
	domainwf "github.com/talentops/recruiting-ops/internal/domain/workflow"
	"github.com/talentops/recruiting-ops/internal/infrastructure/notification"
	"github.com/talentops/recruiting-ops/internal/infrastructure/persistence/repository"
	"github.com/talentops/recruiting-ops/internal/infrastructure/persistence/sqlite"
	"github.com/talentops/recruiting-ops/internal/infrastructure/worker"
	httpapi "github.com/talentops/recruiting-ops/internal/interfaces/http"
	"github.com/talentops/recruiting-ops/pkg/database"
	"github.com/talentops/recruiting-ops/pkg/utils"
)

func main() {
	// Local overrides for development; missing .env is fine
	_ = gotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Selection Lifecycle Service",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Repositories and transaction manager
	txManager := sqlite.NewTxManager(db.DB, logger)
	selectionRepo := repository.NewSelectionRepository(db.DB, logger)
	historyRepo := repository.NewHistoryRepository(db.DB, logger)
	invoiceRepo := repository.NewInvoiceRepository(db.DB, logger)
	jobCollectionRepo := repository.NewJobCollectionRepository(db.DB, logger)
	announcementRepo := repository.NewAnnouncementRepository(db.DB, logger)
	notificationRepo := repository.NewNotificationRepository(db.DB, logger)

	// Event dispatcher with the notification recorder subscribed
	sugar := logger.Sugar()
	eventDispatcher := dispatcher.New(dispatcher.WithLogger(sugarLogger{sugar}))
	defer eventDispatcher.Close()

	recorder := notification.NewRecorder(notificationRepo, logger)
	recorder.Register(eventDispatcher)

	// Guard evaluation and workflow engine
	capabilities := service.NewCapabilityService()
	artifacts := service.NewArtifactService(invoiceRepo, jobCollectionRepo, announcementRepo, logger)
	guards := domainwf.NewEvaluator(capabilities, artifacts)

	engine := appwf.NewEngine(
		selectionRepo,
		historyRepo,
		announcementRepo,
		txManager,
		guards,
		capabilities,
		eventDispatcher,
		logger,
	)

	selectionService := service.NewSelectionService(
		selectionRepo,
		historyRepo,
		invoiceRepo,
		jobCollectionRepo,
		announcementRepo,
		txManager,
		eventDispatcher,
		logger,
	)
	exportService := service.NewExportService(selectionRepo, historyRepo, logger)

	// Background delivery of queued notifications
	notifier := notification.NewLogNotifier(logger)
	workers := worker.NewManager(logger)
	workers.Register(worker.NewNotificationWorker(worker.NotificationWorkerConfig{
		PollInterval: cfg.Notification.PollInterval,
		BatchSize:    cfg.Notification.BatchSize,
	}, notificationRepo, notifier, logger))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := workers.StartAll(ctx); err != nil {
		logger.Fatal("Failed to start workers", zap.Error(err))
	}

	server := httpapi.NewServer(httpapi.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, engine, selectionService, artifacts, exportService, sugarLogger{sugar})

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start(ctx)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("Shutting down...")
	case err := <-serverErr:
		if err != nil {
			logger.Error("HTTP server failed", zap.Error(err))
		}
	}

	cancel()

	if err := workers.StopAll(); err != nil {
		logger.Error("Worker shutdown incomplete", zap.Error(err))
	}
	if err := server.Stop(); err != nil {
		logger.Error("Server shutdown incomplete", zap.Error(err))
	}

	logger.Info("Server exited successfully")
}

// sugarLogger adapts zap's sugared logger to the keysAndValues logging
// interfaces used by the dispatcher and HTTP layers
type sugarLogger struct {
	s *zap.SugaredLogger
}

func (l sugarLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Infow(msg, keysAndValues...)
}

func (l sugarLogger) Error(msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, keysAndValues...)
}
