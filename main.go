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
	_ "github.com/lib/pq"
	"github.com/semaglide/backend/internal/audit"
	"github.com/semaglide/backend/internal/azure"
	"github.com/semaglide/backend/internal/config"
	"github.com/semaglide/backend/internal/dosing"
	"github.com/semaglide/backend/internal/handler"
	"github.com/semaglide/backend/internal/middleware"
	"github.com/semaglide/backend/internal/pdf"
	"github.com/semaglide/backend/internal/reminder"
	"github.com/semaglide/backend/internal/repository"
	"github.com/semaglide/backend/internal/service"
	"go.uber.org/zap"
)

var (
	logger *zap.Logger
	pool   *pgxpool.Pool
	cfg    *config.Config
)

func main() {
	// Load configuration
	var err error
	cfg, err = config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize Zap logger
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
	)

	// Initialize database connection pool with pgx
	pool, err = pgxpool.New(context.Background(), cfg.Database.URL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	// Test database connection
	if err := pool.Ping(context.Background()); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}
	logger.Info("Successfully connected to database")

	// Initialize blob storage clients, one container per content kind
	photoBlobClient, err := azure.NewBlobStorageClient(
		cfg.Azure.Storage.AccountName,
		cfg.Azure.Storage.AccountKey,
		cfg.Azure.Storage.PhotoContainer,
		logger,
	)
	if err != nil {
		logger.Fatal("Failed to initialize photo blob storage client", zap.Error(err))
	}

	reportBlobClient, err := azure.NewBlobStorageClient(
		cfg.Azure.Storage.AccountName,
		cfg.Azure.Storage.AccountKey,
		cfg.Azure.Storage.ReportContainer,
		logger,
	)
	if err != nil {
		logger.Fatal("Failed to initialize report blob storage client", zap.Error(err))
	}

	// Resolve dosing policies from configuration
	thresholdPolicy := dosing.PolicyByName(cfg.Dosing.ThresholdPolicy)
	streakMode := dosing.StreakModeByName(cfg.Dosing.StreakMode)

	// Initialize repositories
	doseRepo := repository.NewDoseRepository(pool, logger)
	scheduleRepo := repository.NewScheduleRepository(pool, logger)
	snapshotRepo := repository.NewSnapshotRepository(pool, logger)
	checkupRepo := repository.NewCheckupRepository(pool, logger)
	weightRepo := repository.NewWeightRepository(pool, logger)
	nutritionRepo := repository.NewNutritionRepository(pool, logger)
	activityRepo := repository.NewActivityRepository(pool, logger)
	reportRepo := repository.NewReportRepository(pool, logger)

	// Initialize services
	doseService := service.NewDoseService(doseRepo, scheduleRepo, snapshotRepo, photoBlobClient, thresholdPolicy, logger)
	levelService := service.NewLevelService(doseRepo, scheduleRepo, snapshotRepo, thresholdPolicy, logger)
	scheduleService := service.NewScheduleService(scheduleRepo, doseRepo, streakMode, logger)
	checkupService := service.NewCheckupService(checkupRepo, logger)
	weightService := service.NewWeightService(weightRepo, logger)
	nutritionService := service.NewNutritionService(nutritionRepo, logger)
	activityService := service.NewActivityService(activityRepo, logger)

	// Initialize PDF generator and report service
	pdfGenerator := pdf.NewPDFGenerator(logger)
	reportService := service.NewReportService(
		reportRepo,
		doseRepo,
		scheduleRepo,
		snapshotRepo,
		checkupRepo,
		weightRepo,
		reportBlobClient,
		pdfGenerator,
		logger,
	)

	// Initialize handlers
	doseHandler := handler.NewDoseHandler(doseService, logger)
	levelHandler := handler.NewLevelHandler(levelService, logger)
	scheduleHandler := handler.NewScheduleHandler(scheduleService, logger)
	checkupHandler := handler.NewCheckupHandler(checkupService, logger)
	weightHandler := handler.NewWeightHandler(weightService, logger)
	nutritionHandler := handler.NewNutritionHandler(nutritionService, logger)
	activityHandler := handler.NewActivityHandler(activityService, logger)
	reportHandler := handler.NewReportHandler(reportService, logger)
	healthHandler := handler.NewHealthHandler(pool, logger)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize Gin router
	r := gin.New()

	// Add recovery middleware (must be first)
	r.Use(middleware.RecoveryMiddleware(logger))

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"}, // Configure appropriately for production
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID", "X-Trace-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Add request ID middleware
	r.Use(middleware.RequestIDMiddleware())

	// Add tracing middleware
	r.Use(middleware.TracingMiddleware())

	// Add request logging middleware
	r.Use(middleware.RequestLoggingMiddleware(logger))

	// Add error logging middleware
	r.Use(middleware.ErrorLoggingMiddleware(logger))

	// Add slow query logging middleware
	r.Use(middleware.SlowQueryLoggingMiddleware(logger, 1*time.Second))

	// Add audit middleware for mutating requests
	auditLogger := audit.NewLogger(pool, logger)
	r.Use(middleware.AuditMiddleware(auditLogger))

	// Register routes
	r.GET("/health", healthHandler.GetHealth)
	r.GET("/ready", healthHandler.GetReady)

	v1 := r.Group("/api/v1")
	{
		doses := v1.Group("/doses")
		{
			doses.POST("", doseHandler.PostApiV1Doses)
			doses.GET("", doseHandler.GetApiV1Doses)
			doses.GET("/latest", doseHandler.GetApiV1DosesLatest)
			doses.GET("/next", doseHandler.GetApiV1DosesNext)
			doses.GET("/stats", doseHandler.GetApiV1DosesStats)
			doses.GET("/site-recommendations", doseHandler.GetApiV1DosesSiteRecommendations)
			doses.GET("/:id", doseHandler.GetApiV1DosesId)
			doses.PUT("/:id", doseHandler.PutApiV1DosesId)
			doses.DELETE("/:id", doseHandler.DeleteApiV1DosesId)
			doses.POST("/:id/photo", doseHandler.PostApiV1DosesIdPhoto)
			doses.GET("/:id/photo", doseHandler.GetApiV1DosesIdPhoto)
		}

		level := v1.Group("/medication-level")
		{
			level.GET("", levelHandler.GetApiV1MedicationLevel)
			level.POST("/calculate", levelHandler.PostApiV1MedicationLevelCalculate)
			level.GET("/history", levelHandler.GetApiV1MedicationLevelHistory)
			level.POST("/snapshot", levelHandler.PostApiV1MedicationLevelSnapshot)
		}

		schedule := v1.Group("/schedule")
		{
			schedule.PUT("", scheduleHandler.PutApiV1Schedule)
			schedule.GET("", scheduleHandler.GetApiV1Schedule)
			schedule.GET("/adherence", scheduleHandler.GetApiV1ScheduleAdherence)
			schedule.GET("/calendar", scheduleHandler.GetApiV1ScheduleCalendar)
		}

		checkups := v1.Group("/checkups")
		{
			checkups.POST("", checkupHandler.PostApiV1Checkups)
			checkups.GET("", checkupHandler.GetApiV1Checkups)
			checkups.GET("/latest", checkupHandler.GetApiV1CheckupsLatest)
			checkups.GET("/analytics", checkupHandler.GetApiV1CheckupsAnalytics)
			checkups.GET("/:id", checkupHandler.GetApiV1CheckupsId)
			checkups.PUT("/:id", checkupHandler.PutApiV1CheckupsId)
			checkups.DELETE("/:id", checkupHandler.DeleteApiV1CheckupsId)
		}

		weight := v1.Group("/weight")
		{
			weight.POST("", weightHandler.PostApiV1Weight)
			weight.GET("", weightHandler.GetApiV1Weight)
			weight.GET("/progress", weightHandler.GetApiV1WeightProgress)
			weight.DELETE("/:id", weightHandler.DeleteApiV1WeightId)
		}

		nutrition := v1.Group("/nutrition")
		{
			nutrition.POST("/meals", nutritionHandler.PostApiV1NutritionMeals)
			nutrition.GET("/meals", nutritionHandler.GetApiV1NutritionMeals)
			nutrition.GET("/daily", nutritionHandler.GetApiV1NutritionDaily)
			nutrition.DELETE("/meals/:id", nutritionHandler.DeleteApiV1NutritionMealsId)
		}

		activity := v1.Group("/activity")
		{
			activity.POST("/workouts", activityHandler.PostApiV1ActivityWorkouts)
			activity.GET("/workouts", activityHandler.GetApiV1ActivityWorkouts)
			activity.GET("/summary", activityHandler.GetApiV1ActivitySummary)
			activity.DELETE("/workouts/:id", activityHandler.DeleteApiV1ActivityWorkoutsId)
		}

		reports := v1.Group("/reports")
		{
			reports.POST("/generate", reportHandler.PostApiV1ReportsGenerate)
			reports.GET("", reportHandler.GetApiV1Reports)
			reports.GET("/:id/download", reportHandler.GetApiV1ReportsIdDownload)
		}
	}

	// Start the reminder sweeper
	var sweeper *reminder.Sweeper
	if cfg.Reminder.Enabled {
		notifier := reminder.NewLogNotifier(logger)
		sweeper = reminder.NewSweeper(scheduleRepo, doseRepo, notifier, cfg.Reminder.SweepInterval, logger)
		sweeper.Start()
	}

	// Start server with graceful shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	// Start server in a goroutine
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

	// Stop background workers before closing the database
	if sweeper != nil {
		sweeper.Stop()
	}

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	// Close database connections
	pool.Close()

	logger.Info("Server exited")
}
