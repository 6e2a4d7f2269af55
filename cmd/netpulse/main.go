package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/gorm/logger"

	"github.com/netpulse/netpulse/internal/config"
	"github.com/netpulse/netpulse/internal/database"
	"github.com/netpulse/netpulse/internal/inventory"
	"github.com/netpulse/netpulse/internal/jobs"
	"github.com/netpulse/netpulse/internal/services"
)

func main() {
	// Load .env file if it exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found or error loading it (this is fine if using environment variables): %v", err)
	}

	cfg := config.Load()

	log.Printf("Starting NetPulse alert engine...")

	// Initialize database connection
	if err := database.Connect(cfg.DatabaseURL, logger.Warn); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Printf("Database connection established")

	// Run database migrations
	if err := database.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	// Initialize default database records
	if err := database.InitializeDefaults(); err != nil {
		log.Fatalf("Failed to initialize database defaults: %v", err)
	}

	settings, err := database.GetOrCreateEngineSettings(database.GetDB())
	if err != nil {
		log.Fatalf("Failed to load engine settings: %v", err)
	}

	// Threshold policy: built-in defaults unless a file overrides them
	thresholds := services.DefaultThresholds()
	if cfg.ThresholdsFile != "" {
		thresholds, err = services.LoadThresholds(cfg.ThresholdsFile)
		if err != nil {
			log.Fatalf("Failed to load thresholds from %s: %v", cfg.ThresholdsFile, err)
		}
		log.Printf("Threshold policy loaded from %s", cfg.ThresholdsFile)
	}

	window := services.NewDedupWindow(time.Duration(settings.DedupWindowMinutes) * time.Minute)
	if settings.SeedDedupOnStart {
		if err := window.Seed(database.GetDB(), time.Now()); err != nil {
			log.Printf("Warning: Failed to seed dedup window: %v", err)
		} else if window.Len() > 0 {
			log.Printf("Dedup window seeded with %d recent alerts", window.Len())
		}
	}

	eventService := services.NewEventService(database.GetDB())
	alertService := services.NewAlertService(database.GetDB())
	log.Printf("Event and alert services initialized")

	if cfg.ScorerURL != "" {
		alertService.SetScorer(services.NewHTTPImpactScorer(cfg.ScorerURL))
		log.Printf("Business impact scorer configured at %s", cfg.ScorerURL)
	}

	sweeper := jobs.NewRetentionSweeper(database.GetDB())

	monitor := jobs.NewMonitorJob(
		inventory.NewDirectory(database.GetDB()),
		inventory.NewHealthStore(database.GetDB()),
		services.NewEvaluator(thresholds),
		window,
		eventService,
		alertService,
		sweeper,
		time.Duration(cfg.FetchTimeoutSeconds)*time.Second,
	)

	// Graceful shutdown on SIGINT/SIGTERM
	stop := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Printf("Received signal %v, shutting down...", sig)
		close(stop)
	}()

	interval := time.Duration(cfg.TickIntervalSeconds) * time.Second
	monitor.Start(interval, stop)

	if err := database.Close(); err != nil {
		log.Printf("Error closing database: %v", err)
	}
	log.Printf("Shutdown complete")
}
