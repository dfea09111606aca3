package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dosada05/artsfest/config"
	"github.com/Dosada05/artsfest/db"
	_ "github.com/Dosada05/artsfest/docs"
	"github.com/Dosada05/artsfest/export"
	"github.com/Dosada05/artsfest/handlers"
	"github.com/Dosada05/artsfest/live"
	"github.com/Dosada05/artsfest/middleware"
	"github.com/Dosada05/artsfest/repositories"
	api "github.com/Dosada05/artsfest/routes"
	"github.com/Dosada05/artsfest/services"
	"github.com/Dosada05/artsfest/storage"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
)

// @title Arts Festival Portal API
// @version 1.0
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort), slog.Bool("storage_enabled", cfg.StorageEnabled()))

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	applied, err := db.Migrate(context.Background(), dbConn)
	if err != nil {
		logger.Error("failed to apply migrations", slog.Any("error", err))
		os.Exit(1)
	}
	if len(applied) > 0 {
		logger.Info("migrations applied", slog.Any("files", applied))
	}

	// Хранилище файлов опционально: без R2 загрузки логотипов отвечают 503.
	var uploader storage.FileUploader
	if cfg.StorageEnabled() {
		uploader, err = storage.NewCloudflareR2Uploader(context.Background(), storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
			Endpoint:        cfg.R2Endpoint,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Warn("R2 storage is not configured, uploads are disabled")
	}

	if cfg.PDFFontPath != "" {
		if err := export.SetUnicodeFont(cfg.PDFFontPath); err != nil {
			logger.Error("failed to load PDF font", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("PDF font loaded", slog.String("path", cfg.PDFFontPath))
	}

	// Инициализация WebSocket Hub
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	wsHub := live.NewHub()
	go wsHub.Run(hubCtx)
	logger.Info("WebSocket Hub started")

	// Инициализация репозиториев
	userRepo := repositories.NewPostgresUserRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	studentRepo := repositories.NewPostgresStudentRepository(dbConn)
	eventRepo := repositories.NewPostgresEventRepository(dbConn)
	participationRepo := repositories.NewPostgresParticipationRepository(dbConn)
	gradeRepo := repositories.NewPostgresGradeSettingRepository(dbConn)
	assetRepo := repositories.NewPostgresSiteAssetRepository(dbConn)
	configRepo := repositories.NewPostgresAppConfigRepository(dbConn)
	transactor := repositories.NewPostgresTransactor(dbConn)
	logger.Info("Repositories initialized")

	// Инициализация сервисов
	configService := services.NewConfigService(configRepo, wsHub)
	gradeService := services.NewGradeService(gradeRepo, participationRepo, transactor, wsHub)
	authService := services.NewAuthService(userRepo, teamRepo)
	teamService := services.NewTeamService(teamRepo, studentRepo, uploader, wsHub)
	studentService := services.NewStudentService(studentRepo, teamRepo, participationRepo, transactor, wsHub)
	eventService := services.NewEventService(eventRepo, studentRepo, participationRepo, transactor, gradeService, wsHub)
	participationService := services.NewParticipationService(participationRepo, studentRepo, eventRepo, teamRepo, transactor, configService)
	resultService := services.NewResultService(participationRepo, eventRepo, transactor, gradeService, wsHub)
	dashboardService := services.NewDashboardService(teamRepo, studentRepo, eventRepo, participationRepo)
	standingsService := services.NewStandingsService(teamRepo, eventRepo, participationRepo, configService, dashboardService)
	assetService := services.NewAssetService(assetRepo, uploader)
	exportService := services.NewExportService(standingsService, eventRepo, participationRepo, configService)
	logger.Info("Services initialized")

	// Инициализация обработчиков HTTP
	authenticator := middleware.NewAuthenticator(cfg.JWTSecretKey, cfg.JWTTTL)
	h := api.Handlers{
		Auth:          handlers.NewAuthHandler(authService, authenticator),
		Team:          handlers.NewTeamHandler(teamService),
		Student:       handlers.NewStudentHandler(studentService, eventService),
		Event:         handlers.NewEventHandler(eventService),
		Participation: handlers.NewParticipationHandler(participationService),
		Result:        handlers.NewResultHandler(resultService, gradeService),
		Standings:     handlers.NewStandingsHandler(standingsService),
		Export:        handlers.NewExportHandler(exportService),
		Asset:         handlers.NewAssetHandler(assetService),
		Config:        handlers.NewConfigHandler(configService),
		Dashboard:     handlers.NewDashboardHandler(dashboardService),
		Health:        handlers.NewHealthHandler(dbConn),
		WebSocket:     handlers.NewWebSocketHandler(wsHub, cfg.CORSAllowedOrigins),
	}
	logger.Info("HTTP handlers initialized")

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(router, h, authenticator, cfg.CORSAllowedOrigins)
	logger.Info("Routes configured")

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		stopHub()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
