package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/medtrack/backend/internal/azure"
	"github.com/medtrack/backend/internal/config"
	"github.com/medtrack/backend/internal/handler"
	"github.com/medtrack/backend/internal/middleware"
	"github.com/medtrack/backend/internal/notify"
	"github.com/medtrack/backend/internal/pdf"
	"github.com/medtrack/backend/internal/repository"
	"github.com/medtrack/backend/internal/security"
	"github.com/medtrack/backend/internal/service"
	"github.com/medtrack/backend/internal/storage"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize Zap logger
	var logger *zap.Logger
	if cfg.Server.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("Configuration loaded successfully",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("storage_driver", cfg.Storage.Driver),
	)

	// Initialize the key-value store backing the medication collections
	var store storage.KeyValue
	var pool *pgxpool.Pool

	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		pool, err = pgxpool.New(context.Background(), cfg.Database.URL)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer pool.Close()

		if err := pool.Ping(context.Background()); err != nil {
			logger.Fatal("Failed to ping database", zap.Error(err))
		}

		pgStore := storage.NewPostgresStore(pool, logger)
		if err := pgStore.EnsureSchema(context.Background()); err != nil {
			logger.Fatal("Failed to ensure storage schema", zap.Error(err))
		}
		store = pgStore
		logger.Info("Successfully connected to database")

	default:
		var encryptor *security.Encryptor
		if cfg.Storage.EncryptionKey != "" {
			encryptor, err = security.NewEncryptor([]byte(cfg.Storage.EncryptionKey))
			if err != nil {
				logger.Fatal("Failed to initialize encryptor", zap.Error(err))
			}
		}

		fileStore, err := storage.NewFileStore(cfg.Storage.DataDir, encryptor, logger)
		if err != nil {
			logger.Fatal("Failed to initialize file store", zap.Error(err))
		}
		store = fileStore
		logger.Info("File store initialized",
			zap.String("data_dir", cfg.Storage.DataDir),
			zap.Bool("encrypted", encryptor != nil),
		)
	}

	// Initialize repository and services
	medicationRepo := repository.NewMedicationRepository(store, logger)
	reminderScheduler := notify.NewLogScheduler(logger)

	medicationService := service.NewMedicationService(medicationRepo, reminderScheduler, logger)
	adherenceService := service.NewAdherenceService(medicationRepo, logger)

	// Initialize handlers
	medicationHandler := handler.NewMedicationHandler(medicationService, logger)
	historyHandler := handler.NewHistoryHandler(adherenceService, logger)
	healthHandler := handler.NewHealthHandler(store, logger)

	// Report generation needs blob storage; it stays disabled without it
	var reportHandler *handler.ReportHandler
	if cfg.BlobEnabled() {
		blobClient, err := azure.NewBlobStorageClient(
			cfg.Azure.Storage.AccountName,
			cfg.Azure.Storage.AccountKey,
			cfg.Azure.Storage.ReportContainer,
			logger,
		)
		if err != nil {
			logger.Fatal("Failed to initialize blob storage client", zap.Error(err))
		}

		pdfGenerator := pdf.NewPDFGenerator(logger)
		reportService := service.NewReportService(medicationRepo, blobClient, pdfGenerator, logger)
		reportHandler = handler.NewReportHandler(reportService, logger)
	} else {
		logger.Warn("Blob storage not configured; report and backup endpoints disabled")
	}

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize Gin router
	r := gin.New()

	// Recovery middleware must be first
	r.Use(middleware.RecoveryMiddleware(logger))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"}, // Configure appropriately for production
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RequestLoggingMiddleware(logger))
	r.Use(middleware.ErrorLoggingMiddleware(logger))

	// Routes
	r.GET("/health", healthHandler.Check)

	v1 := r.Group("/api/v1")
	{
		meds := v1.Group("/medications")
		{
			meds.POST("", medicationHandler.Create)
			meds.GET("", medicationHandler.List)
			meds.GET("/active", medicationHandler.ListActive)
			meds.POST("/reset", medicationHandler.Reset)
			meds.GET("/:id", medicationHandler.Get)
			meds.PATCH("/:id", medicationHandler.Update)
			meds.DELETE("/:id", medicationHandler.Delete)
			meds.POST("/:id/taken", medicationHandler.MarkTaken)
			meds.POST("/:id/skipped", medicationHandler.MarkSkipped)
		}

		v1.GET("/history", historyHandler.ListRange)
		v1.GET("/history/:medicationId", historyHandler.ListForMedication)
		v1.GET("/adherence", historyHandler.Adherence)

		if reportHandler != nil {
			reports := v1.Group("/reports")
			{
				reports.POST("/generate", reportHandler.Generate)
				reports.GET("/download", reportHandler.Download)
				reports.POST("/backup", reportHandler.Backup)
			}
		}
	}

	// Start server with graceful shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
