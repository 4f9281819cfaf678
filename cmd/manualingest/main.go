// Manual one-shot ingestion runner. Useful for backfilling a single league or
// verifying credentials without starting the worker.
package main

import (
	"context"
	"flag"
	"os"
	"strings"
	"time"

	"statpedia/ingestion/internal/client"
	"statpedia/ingestion/internal/config"
	"statpedia/ingestion/internal/extractor"
	"statpedia/ingestion/internal/fetcher"
	"statpedia/ingestion/internal/identity"
	"statpedia/ingestion/internal/mapper"
	"statpedia/ingestion/internal/persistence"
	"statpedia/ingestion/internal/pipeline"
	"statpedia/ingestion/internal/store"
	"statpedia/ingestion/internal/teams"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	leagues := flag.String("leagues", "", "comma-separated leagues to ingest (default: configured leagues)")
	season := flag.Int("season", 0, "season year (default: configured season)")
	timeout := flag.Duration("timeout", 10*time.Minute, "overall run timeout")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	cfg := config.MustLoad()

	runLeagues := cfg.Leagues
	if *leagues != "" {
		runLeagues = strings.Split(*leagues, ",")
	}
	runSeason := cfg.Season()
	if *season != 0 {
		runSeason = *season
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	apiClient := client.NewClient(cfg.SGOBaseURL, cfg.SGOAPIKey, cfg.SGOTimeout)
	st := store.NewStore(cfg.StoreURL, cfg.StoreServiceKey, cfg.StoreTimeout)

	pipe := pipeline.New(
		fetcher.New(apiClient, cfg.MarketOddIDs, cfg.EventLimit),
		extractor.New(teams.NewResolver(st.Teams, cfg.TeamRegistryTTL)),
		mapper.New(identity.NewResolver(st.Players, st.MissingPlayers, identity.NewCache(cfg.PlayerMapTTL))),
		persistence.New(st.PropLines, st.GameLogs, cfg.StoreBatchSize),
	)

	failed := false
	for _, result := range pipe.RunAll(ctx, runLeagues, runSeason) {
		event := log.Info()
		if !result.Persisted.Success {
			failed = true
			event = log.Error()
		}
		event.
			Str("run_id", result.RunID).
			Str("league", result.League).
			Int("season", result.Season).
			Int("tier", result.Tier).
			Int("events", result.Events).
			Int("props", result.Extracted.Emitted).
			Int("proplines_inserted", result.Persisted.PropLinesInserted).
			Int("game_logs_inserted", result.Persisted.GameLogsInserted).
			Int("errors", result.Persisted.Errors).
			Msg("Manual ingestion result")
	}

	if failed {
		os.Exit(1)
	}
}
