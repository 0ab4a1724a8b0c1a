package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/dinkominfo-bms/itsa-review/internal/application/service"
	appworkflow "github.com/dinkominfo-bms/itsa-review/internal/application/workflow"
	"github.com/dinkominfo-bms/itsa-review/internal/config"
	"github.com/dinkominfo-bms/itsa-review/internal/infrastructure/persistence/repository"
	"github.com/dinkominfo-bms/itsa-review/internal/infrastructure/persistence/sqlite"
	httpadapter "github.com/dinkominfo-bms/itsa-review/internal/interfaces/http"
	"github.com/dinkominfo-bms/itsa-review/pkg/database"
	"github.com/dinkominfo-bms/itsa-review/pkg/utils"
)

func main() {
	// .env is optional, used for local development
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

	logger.Info("Starting ITSA Application Review Service",
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
	txManager := sqlite.NewDB(db.DB, logger)
	appRepo := repository.NewApplicationRepository(db.DB, logger)
	resultRepo := repository.NewResultRepository(db.DB, logger)
	notificationRepo := repository.NewNotificationRepository(db.DB, logger)
	feedbackRepo := repository.NewFeedbackRepository(db.DB, logger)
	userRepo := repository.NewUserRepository(db.DB, logger)

	kvLogger := utils.NewKVLogger(logger)

	// Services
	notificationService := service.NewNotificationService(notificationRepo, userRepo, kvLogger)
	engine := appworkflow.NewEngine(appRepo, txManager, notificationService, kvLogger)
	submissionService := service.NewSubmissionService(appRepo, resultRepo, txManager, kvLogger)
	resultService := service.NewResultService(resultRepo, appRepo, engine, notificationService, txManager, kvLogger)
	feedbackService := service.NewFeedbackService(feedbackRepo, notificationService, kvLogger)
	authService := service.NewAuthService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, kvLogger)

	server := httpadapter.NewServer(
		httpadapter.ServerConfig{
			Host:         cfg.Server.Host,
			Port:         cfg.Server.Port,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			JWTSecret:    cfg.Auth.JWTSecret,
		},
		authService,
		submissionService,
		resultService,
		notificationService,
		feedbackService,
		engine,
		kvLogger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("HTTP server error", zap.Error(err))
	}

	logger.Info("Server exited successfully")
}
