package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"flightsearch-service/internal/infrastructure/config"
	"flightsearch-service/internal/infrastructure/oauth"
	"flightsearch-service/internal/interface/amadeus"
	"flightsearch-service/internal/interface/cli"
	"flightsearch-service/internal/usecase"
	"flightsearch-service/pkg/logger"
	"flightsearch-service/pkg/metrics"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCmd(setup).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup wires the upstream client only; the CLI runs without the caches
func setup(debug bool) (*cli.App, func(), error) {
	level := "warn"
	if debug {
		level = "debug"
	}
	log := logger.NewLogger(level)

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	m := metrics.NewNopMetrics()
	auth := oauth.NewAmadeusOAuth(cfg.AmadeusClientID, cfg.AmadeusClientSecret, cfg.AmadeusBaseURL, log)
	client := amadeus.NewClient(cfg.AmadeusBaseURL, auth.HTTPClient(context.Background(), cfg.UpstreamTimeout), log)

	resolver := usecase.NewAirlineResolver(client, log, m, cfg.LookupTimeout)
	sessions := usecase.NewSessionStore(0, log, m)

	app := &cli.App{
		Flights:  usecase.NewFlightSearchService(client, resolver, sessions, log, m, cfg.DefaultCurrency, cfg.MaxOffers),
		Airports: usecase.NewAirportService(client, nil, log, m),
		Logger:   log,
	}
	return app, func() { log.Sync() }, nil
}
