package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flightsearch-service/internal/domain/repository"
	"flightsearch-service/internal/infrastructure/config"
	"flightsearch-service/internal/infrastructure/oauth"
	"flightsearch-service/internal/infrastructure/persistence"
	"flightsearch-service/internal/interface/amadeus"
	"flightsearch-service/internal/interface/handler"
	repoImpl "flightsearch-service/internal/interface/repository"
	"flightsearch-service/internal/usecase"
	"flightsearch-service/pkg/logger"
	"flightsearch-service/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.NewLogger("info").Fatal("Failed to load config", "error", err)
	}

	// Create logger
	log := logger.NewLogger(cfg.LogLevel)
	defer log.Sync()
	log.Info("Starting Flight Search Service", "version", cfg.AppVersion)

	m := metrics.NewMetrics(cfg.MetricsNamespace, prometheus.DefaultRegisterer)

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up Amadeus client
	auth := oauth.NewAmadeusOAuth(cfg.AmadeusClientID, cfg.AmadeusClientSecret, cfg.AmadeusBaseURL, log)
	amadeusClient := amadeus.NewClient(cfg.AmadeusBaseURL, auth.HTTPClient(ctx, cfg.UpstreamTimeout), log)

	// Airline names come from the directory when PostgreSQL is configured
	var airlineLookup repository.AirlineLookup = amadeusClient
	if cfg.PostgresURI != "" {
		log.Info("Connecting to PostgreSQL")
		gormDB, err := persistence.NewPostgresDB(cfg.PostgresURI)
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", "error", err)
		}
		if cfg.PostgresMigrate {
			if err := repoImpl.MigrateAirlines(gormDB); err != nil {
				log.Fatal("Failed to migrate airline directory", "error", err)
			}
		}
		airlineRepository := repoImpl.NewGormAirlineRepository(gormDB)
		airlineLookup = repoImpl.NewDirectoryAirlineLookup(airlineRepository, amadeusClient, log)
	}

	// Location autocomplete is cached in MongoDB when configured with a positive TTL
	var locationCache repository.LocationRepository
	var mongoClient *mongo.Client
	if cfg.MongoURI != "" && !cfg.LocationCacheEnabled() {
		log.Warn("Location cache disabled", "ttl", cfg.LocationCacheTTL)
	}
	if cfg.LocationCacheEnabled() {
		log.Info("Connecting to MongoDB")
		client, db, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoDB, cfg.MongoUser, cfg.MongoPassword)
		if err != nil {
			log.Fatal("Failed to connect to MongoDB", "error", err)
		}
		mongoClient = client

		locationRepo := repoImpl.NewMongoLocationRepository(db, cfg.LocationCacheTTL)
		if err := locationRepo.EnsureIndexes(ctx); err != nil {
			log.Warn("Location cache indexes not created", "error", err)
		}
		locationCache = locationRepo
	}

	// Set up use cases
	resolver := usecase.NewAirlineResolver(airlineLookup, log, m, cfg.LookupTimeout)
	sessions := usecase.NewSessionStore(cfg.SessionTTL, log, m)
	flightService := usecase.NewFlightSearchService(amadeusClient, resolver, sessions, log, m, cfg.DefaultCurrency, cfg.MaxOffers)
	airportService := usecase.NewAirportService(amadeusClient, locationCache, log, m)

	// Evict idle sessions in a goroutine
	go sessions.StartSweeper(ctx, cfg.SessionSweepInterval)

	// Set up HTTP server
	mux := http.NewServeMux()
	handler.NewHandler(flightService, airportService, resolver, log).Register(mux)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Healthy"))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
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

	if mongoClient != nil {
		if err := mongoClient.Disconnect(shutdownCtx); err != nil {
			log.Error("MongoDB disconnect error", "error", err)
		}
	}

	log.Info("Flight Search Service stopped")
}
