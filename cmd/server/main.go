// Package main provides the entry point for the deal tracking server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/dealflow/internal/api"
	"github.com/yourusername/dealflow/internal/blob"
	"github.com/yourusername/dealflow/internal/config"
	"github.com/yourusername/dealflow/internal/database"
	"github.com/yourusername/dealflow/internal/health"
	"github.com/yourusername/dealflow/internal/logger"
	"github.com/yourusername/dealflow/internal/metrics"
	"github.com/yourusername/dealflow/internal/notify"
	"github.com/yourusername/dealflow/internal/repository"
	"github.com/yourusername/dealflow/internal/scheduler"
	"github.com/yourusername/dealflow/internal/service"
)

var version = "dev"

func main() {
	// .env is optional; real deployments configure through the file
	// and environment only
	_ = godotenv.Load()

	configPath := os.Getenv("DEALFLOW_CONFIG")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := config.LoadWithDefaults(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Load AWS secrets if enabled
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	appLog := logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
		"version":     version,
	}).Info("Dealflow server starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()
	appLog.Info("Database connection established")

	repos, err := repository.NewRepositories(db)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize repositories")
	}

	metrics.InitRegistry()

	// Notification sinks: every user-facing outcome is logged, pushed
	// to connected dashboards, and optionally forwarded to a webhook.
	hub := notify.NewHub(appLog, originChecker(cfg.Server.AllowedOrigins))
	sinks := []notify.Notifier{notify.NewLogNotifier(appLog), hub}
	if cfg.Features.WebhookEnabled {
		sinks = append(sinks, notify.NewWebhookNotifier(cfg.Notifications, appLog))
		appLog.Info("Webhook notifications enabled")
	}
	notifier := notify.NewFanout(sinks...)

	dealSvc := service.NewDealService(repos.Deal, notifier, appLog,
		cfg.Listing.PageSize, time.Duration(cfg.Listing.CacheTTLSeconds)*time.Second)
	portfolioSvc := service.NewPortfolioService(repos.Position, notifier, appLog)
	reviewSvc := service.NewReviewService(repos.Review, notifier, appLog)

	var uploader *blob.Uploader
	if cfg.Features.UploadsEnabled {
		uploader, err = blob.NewUploader(ctx, cfg.Storage, appLog)
		if err != nil {
			appLog.WithError(err).Fatal("Failed to initialize deck uploader")
		}
		appLog.WithField("bucket", cfg.Storage.Bucket).Info("Deck uploads enabled")
	}

	if cfg.Features.SchedulerEnabled {
		sched := scheduler.NewScheduler(portfolioSvc, appLog)
		if err := sched.ScheduleHealthRefresh(cfg.Scheduler.HealthRefreshCron); err != nil {
			appLog.WithError(err).Fatal("Failed to schedule health refresh")
		}
		if err := sched.Start(); err != nil {
			appLog.WithError(err).Fatal("Failed to start scheduler")
		}
		defer sched.Stop()
	}

	// Metrics endpoint on its own port, never exposed with the API
	if cfg.Metrics.Enabled {
		go func() {
			mux := http.NewServeMux()
			mux.Handle(cfg.Metrics.Path, metrics.Handler())
			addr := ":" + strconv.Itoa(cfg.Metrics.Port)
			appLog.WithField("addr", addr).Info("Metrics server starting")
			if err := http.ListenAndServe(addr, mux); err != nil {
				appLog.WithError(err).Error("Metrics server stopped")
			}
		}()
	}

	healthSrv := health.NewServer(health.Options{
		ServiceName: cfg.App.Name,
		Version:     version,
		Port:        cfg.Server.Port + 1,
		Logger:      appLog,
		DB:          db,
	})
	if err := healthSrv.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start health server")
	}

	apiSrv := api.NewServer(api.Options{
		Config:       cfg,
		Logger:       appLog,
		DealService:  dealSvc,
		PortfolioSvc: portfolioSvc,
		ReviewSvc:    reviewSvc,
		Uploader:     uploader,
		Hub:          hub,
	})

	serverErr := make(chan error, 1)
	go func() {
		if err := apiSrv.Start(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	healthSrv.SetReady(true)
	appLog.WithField("addr", cfg.GetServerAddr()).Info("Dealflow server ready")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		appLog.WithField("signal", sig).Info("Shutdown signal received")
	case err := <-serverErr:
		appLog.WithError(err).Error("HTTP server failed")
	}

	healthSrv.SetReady(false)
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := apiSrv.Shutdown(shutdownCtx); err != nil {
		appLog.WithError(err).Error("Error during server shutdown")
	}

	appLog.Info("Dealflow server shut down")
}

// originChecker allows websocket upgrades from the configured origins.
// A lone "*" disables the check, matching the CORS policy.
func originChecker(allowed []string) func(*http.Request) bool {
	allowAll := false
	set := make(map[string]bool, len(allowed))
	for _, origin := range allowed {
		if origin == "*" {
			allowAll = true
		}
		set[origin] = true
	}

	return func(r *http.Request) bool {
		if allowAll {
			return true
		}
		return set[r.Header.Get("Origin")]
	}
}
