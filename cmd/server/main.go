package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flightwatch-service/internal/infrastructure/config"
	"flightwatch-service/internal/infrastructure/oauth"
	"flightwatch-service/internal/infrastructure/persistence"
	"flightwatch-service/internal/interface/api"
	"flightwatch-service/internal/interface/mailer"
	"flightwatch-service/internal/interface/repository"
	"flightwatch-service/internal/scraper"
	"flightwatch-service/internal/usecase"
	"flightwatch-service/pkg/logger"
	"flightwatch-service/pkg/metrics"

	"github.com/gin-gonic/gin"
)

func main() {
	// Create logger
	log := logger.NewLogger()
	log.Info("Starting Flightwatch Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up PostgreSQL connection
	gormDB, err := persistence.NewPostgresDB(cfg.PostgresURI)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", "error", err)
	}

	// Set up MongoDB connection
	log.Info("Connecting to MongoDB")
	mongoClient, db, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}

	// Set up repositories
	flightRepo := repository.NewGormFlightRepository(gormDB)
	historyRepo := repository.NewGormPriceHistoryRepository(gormDB)
	subscriptionRepo := repository.NewGormSubscriptionRepository(gormDB)
	userRepo := repository.NewGormUserRepository(gormDB)
	airportRepo := repository.NewGormAirportRepository(gormDB)
	airlineRepo := repository.NewGormAirlineRepository(gormDB)
	batchRepo := repository.NewMongoBatchRepository(db)

	// Set up Gmail OAuth and the alert mailer
	gmailOAuth := oauth.NewGmailOAuth(
		cfg.GmailClientID,
		cfg.GmailClientSecret,
		cfg.GmailRefreshToken,
		log,
	)
	alertMailer, err := mailer.NewGmailMailer(ctx, gmailOAuth.GetTokenSource(ctx), cfg.AlertFromAddress, log)
	if err != nil {
		log.Fatal("Failed to create Gmail mailer", "error", err)
	}

	// Set up metrics
	appMetrics := metrics.NewMetrics("flightwatch")

	// Set up source adapters
	tokenCapturer := scraper.NewNouvelairTokenCapturer(cfg.TokenCaptureTimeout, log)
	exchangeRates := scraper.NewExchangeRateClient(
		cfg.ExchangeRateAPIKey,
		cfg.FallbackExchangeRate,
		cfg.RequestRetries,
		cfg.RetryDelay,
		cfg.RequestTimeout,
		log,
	)
	adapters := []scraper.Adapter{
		scraper.NewNouvelairAdapter(tokenCapturer, airportRepo, scraper.NouvelairConfig{
			RequestTimeout:  cfg.RequestTimeout,
			RequestInterval: cfg.RouteRequestInterval,
		}, log),
		scraper.NewTunisairAdapter(exchangeRates, scraper.TunisairConfig{
			MonthsToSearch:  cfg.MonthsToSearch,
			RequestRetries:  cfg.RequestRetries,
			RetryDelay:      cfg.RetryDelay,
			RequestTimeout:  cfg.RequestTimeout,
			RequestInterval: cfg.RouteRequestInterval,
		}, log),
	}

	// Set up the pipeline
	reconciler := usecase.NewReconciler(flightRepo, historyRepo, log)
	alerts := usecase.NewAlertDispatcher(subscriptionRepo, alertMailer, log, appMetrics)
	orchestrator := usecase.NewScrapeOrchestrator(adapters, reconciler, alerts, log, appMetrics)
	batchProcessor := usecase.NewBatchProcessor(batchRepo, reconciler, alerts, log, appMetrics)

	// Start the scrape loop in a goroutine
	if cfg.ScrapeInterval > 0 {
		go func() {
			scrapeTicker := time.NewTicker(cfg.ScrapeInterval)
			defer scrapeTicker.Stop()

			for {
				select {
				case <-ctx.Done():
					log.Info("Scrape loop stopped")
					return
				case <-scrapeTicker.C:
					log.Info("Starting scheduled scrape run")
					if err := orchestrator.Run(ctx); err != nil {
						log.Error("Scrape run finished with errors", "error", err)
					}
				}
			}
		}()
	} else {
		log.Info("Scheduled scraping disabled")
	}

	// Start the batch processor in a goroutine
	go func() {
		processTicker := time.NewTicker(cfg.BatchPollInterval)
		defer processTicker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info("Batch processor stopped")
				return
			case <-processTicker.C:
				if err := batchProcessor.ProcessPendingBatches(ctx); err != nil {
					log.Error("Error processing batches", "error", err)
				}
			}
		}
	}()

	// Set up HTTP server
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	handler := api.NewHandler(
		flightRepo,
		historyRepo,
		subscriptionRepo,
		userRepo,
		airportRepo,
		airlineRepo,
		batchRepo,
		orchestrator,
		log,
		cfg.AppVersion,
	)
	handler.Register(engine)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      engine,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel() // Cancel the context to stop all goroutines

	// Disconnect from MongoDB
	if err := mongoClient.Disconnect(context.Background()); err != nil {
		log.Error("MongoDB disconnect error", "error", err)
	}

	log.Info("Flightwatch Service stopped")
}
