package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"statpedia/ingestion/internal/client"
	"statpedia/ingestion/internal/config"
	"statpedia/ingestion/internal/extractor"
	"statpedia/ingestion/internal/fetcher"
	"statpedia/ingestion/internal/identity"
	"statpedia/ingestion/internal/mapper"
	"statpedia/ingestion/internal/metrics"
	"statpedia/ingestion/internal/persistence"
	"statpedia/ingestion/internal/pipeline"
	"statpedia/ingestion/internal/scheduler"
	"statpedia/ingestion/internal/store"
	"statpedia/ingestion/internal/teams"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Setup logger
	setupLogger()

	log.Info().Msg("Starting prop-odds ingestion worker")

	// Load configuration
	cfg := config.MustLoad()
	log.Info().
		Str("env", cfg.AppEnv).
		Str("log_level", cfg.LogLevel).
		Strs("leagues", cfg.Leagues).
		Msg("Configuration loaded")

	// Create context that listens for cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("Received shutdown signal, gracefully shutting down...")
		cancel()
	}()

	// Initialize upstream events client
	apiClient := client.NewClient(cfg.SGOBaseURL, cfg.SGOAPIKey, cfg.SGOTimeout)
	log.Info().Msg("Events API client initialized")

	// Initialize persistence store
	st := store.NewStore(cfg.StoreURL, cfg.StoreServiceKey, cfg.StoreTimeout)
	if err := st.Health(ctx); err != nil {
		log.Warn().Err(err).Msg("Store health check failed - continuing, runs will degrade to placeholders")
	} else {
		log.Info().Msg("Store connection verified")
	}

	// Wire the pipeline
	identityResolver := identity.NewResolver(st.Players, st.MissingPlayers, identity.NewCache(cfg.PlayerMapTTL))
	teamResolver := teams.NewResolver(st.Teams, cfg.TeamRegistryTTL)

	pipe := pipeline.New(
		fetcher.New(apiClient, cfg.MarketOddIDs, cfg.EventLimit),
		extractor.New(teamResolver),
		mapper.New(identityResolver),
		persistence.New(st.PropLines, st.GameLogs, cfg.StoreBatchSize),
	)
	log.Info().Msg("Ingestion pipeline initialized")

	// Start metrics HTTP server
	if cfg.EnableMetrics {
		go startMetricsServer(strconv.Itoa(cfg.MetricsPort))
	}

	// Update system uptime metric
	startTime := time.Now()
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				metrics.SystemUptime.Set(time.Since(startTime).Seconds())
			case <-ctx.Done():
				return
			}
		}
	}()

	// Create and start scheduler
	sched := scheduler.NewScheduler(cfg, pipe)

	if cfg.EnableScheduler {
		log.Info().Msg("Starting scheduler...")
		if err := sched.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to start scheduler")
		}
	}

	// Run initial ingestion if enabled
	if cfg.InitialRunEnabled {
		log.Info().Msg("Running initial ingestion pass...")
		season := cfg.Season()
		for _, result := range pipe.RunAll(ctx, cfg.Leagues, season) {
			if !result.Persisted.Success {
				log.Error().
					Str("league", result.League).
					Int("errors", result.Persisted.Errors).
					Msg("Initial ingestion completed with errors, continuing anyway...")
			}
		}
		log.Info().Msg("Initial ingestion pass complete")
	}

	// Keep running until context is cancelled
	<-ctx.Done()

	// Graceful shutdown
	log.Info().Msg("Shutting down scheduler...")
	sched.Stop()

	log.Info().Msg("Worker shutdown complete")
}

// setupLogger configures the zerolog logger
func setupLogger() {
	// Pretty console logging in development
	if os.Getenv("APP_ENV") == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}

	// Set log level
	level := zerolog.InfoLevel
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		parsedLevel, err := zerolog.ParseLevel(lvl)
		if err == nil {
			level = parsedLevel
		}
	}
	zerolog.SetGlobalLevel(level)

	log.Info().
		Str("level", level.String()).
		Msg("Logger initialized")
}

// startMetricsServer starts the Prometheus metrics HTTP server
func startMetricsServer(port string) {
	http.Handle("/metrics", promhttp.Handler())

	// Health check endpoint
	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	addr := fmt.Sprintf(":%s", port)
	log.Info().Str("port", port).Msg("Starting metrics server")

	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Error().Err(err).Msg("Metrics server failed")
	}
}
