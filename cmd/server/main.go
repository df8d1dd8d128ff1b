package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"precinctpulse/config"
	"precinctpulse/internal/analysis"
	"precinctpulse/internal/api"
	"precinctpulse/internal/database"
	"precinctpulse/internal/export"
	"precinctpulse/internal/models"
	"precinctpulse/internal/processor"
	"precinctpulse/internal/queue"
	"precinctpulse/internal/scheduler"
	"precinctpulse/internal/telegram"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using environment")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	if err := config.LoadPrecinctConfig(); err != nil {
		logger.WithError(err).Debug("No precinct registry file, using built-in registry")
	}

	logger.Infof("Using database at: %s", cfg.Server.DBPath)
	db, err := database.NewDatabase(cfg.Server.DBPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	logger.Info("Running database migrations...")
	if err := db.RunMigrations(); err != nil {
		logger.WithError(err).Fatal("Failed to run database migrations")
	}

	// The batch processor persists through gorm; it shares the sqlite
	// file with the raw connection the API reads from.
	gormDB, err := gorm.Open(sqlite.Open(cfg.Server.DBPath), &gorm.Config{})
	if err != nil {
		logger.WithError(err).Fatal("Failed to open gorm connection")
	}

	detailQueue := queue.NewDetailQueue(cfg.BatchProcessing.QueueSize, logger)
	batchProcessor := processor.NewBatchProcessor(gormDB, detailQueue, cfg, logger)
	batchProcessor.Start()
	detailQueue.Start()
	defer func() {
		detailQueue.Close()
		batchProcessor.Stop()
	}()

	notifier := telegram.NewService(logger)
	notifier.Configure(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	if notifier.IsEnabled() {
		logger.Info("Telegram bargain alerts enabled")
	}

	runner := analysis.NewRunner(analysis.Options{
		DataDir:     cfg.Analysis.DataDir,
		Verbose:     cfg.Analysis.Verbose,
		Assumptions: buildAssumptions(cfg),
	}, logger)
	exporter := export.NewWriter(cfg.Analysis.OutputDir, logger)
	service := analysis.NewService(runner, db, detailQueue, exporter, notifier, logger)

	sched := scheduler.NewScheduler(service, time.Duration(cfg.Analysis.RunInterval)*time.Minute, logger)
	sched.Start()
	defer sched.Stop()

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))
	api.SetupRoutes(router, db, service, logger)

	go func() {
		logger.Infof("Starting server on port %s", cfg.Server.Port)
		if err := router.Run(":" + cfg.Server.Port); err != nil {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down")
}

// buildAssumptions applies the configured overrides on top of the
// estimator defaults.
func buildAssumptions(cfg *config.Config) models.BottomUpAssumptions {
	a := analysis.DefaultAssumptions()
	if cfg.Construction.PlotSizeSqYd > 0 {
		a.PlotSizeSqYd = cfg.Construction.PlotSizeSqYd
	}
	if cfg.Construction.Floors > 0 {
		a.Floors = cfg.Construction.Floors
	}
	if cfg.Construction.CoverageRatio > 0 {
		a.CoverageRatio = cfg.Construction.CoverageRatio
	}
	if cfg.Construction.CostPerSqFtLow > 0 {
		a.CostPerSqFtLow = cfg.Construction.CostPerSqFtLow
	}
	if cfg.Construction.CostPerSqFtHigh > 0 {
		a.CostPerSqFtHigh = cfg.Construction.CostPerSqFtHigh
	}
	return a
}
