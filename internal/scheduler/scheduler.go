package scheduler

import (
	"context"
	"fmt"
	"time"

	"statpedia/ingestion/internal/config"
	"statpedia/ingestion/internal/pipeline"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Scheduler drives ingestion runs in the background: a nightly cron pass over
// every configured league, plus an optional fixed-interval pass for leagues
// with intraday line movement.
type Scheduler struct {
	cfg      *config.Config
	pipeline *pipeline.Pipeline
	cron     *cron.Cron
	ticker   *time.Ticker
	stopChan chan struct{}
}

// NewScheduler creates a new scheduler instance
func NewScheduler(cfg *config.Config, p *pipeline.Pipeline) *Scheduler {
	return &Scheduler{
		cfg:      cfg,
		pipeline: p,
		cron:     cron.New(),
		stopChan: make(chan struct{}),
	}
}

// Start starts the scheduler
func (s *Scheduler) Start(ctx context.Context) error {
	log.Info().Msg("Scheduler starting...")

	if _, err := s.cron.AddFunc(s.cfg.NightlyIngestCron, func() {
		log.Info().Msg("Running nightly ingestion...")
		s.runAllLeagues(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule nightly ingestion: %w", err)
	}

	s.cron.Start()
	log.Info().
		Str("schedule", s.cfg.NightlyIngestCron).
		Strs("leagues", s.cfg.Leagues).
		Msg("Nightly ingestion scheduled")

	if s.cfg.IngestInterval > 0 {
		s.ticker = time.NewTicker(s.cfg.IngestInterval)
		log.Info().
			Dur("interval", s.cfg.IngestInterval).
			Msg("Interval ingestion started")

		go s.pollLoop(ctx)
	}

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	log.Info().Msg("Stopping scheduler...")

	if s.cron != nil {
		s.cron.Stop()
	}

	if s.ticker != nil {
		s.ticker.Stop()
	}

	close(s.stopChan)
	log.Info().Msg("Scheduler stopped")
}

// pollLoop runs interval ingestion until stopped
func (s *Scheduler) pollLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Context cancelled, stopping interval ingestion")
			return
		case <-s.stopChan:
			log.Info().Msg("Stop signal received, stopping interval ingestion")
			return
		case <-s.ticker.C:
			s.runAllLeagues(ctx)
		}
	}
}

// runAllLeagues ingests every configured league sequentially. A partial run
// for one league is logged and never blocks the others.
func (s *Scheduler) runAllLeagues(ctx context.Context) {
	start := time.Now()
	season := s.cfg.Season()

	results := s.pipeline.RunAll(ctx, s.cfg.Leagues, season)

	totalInserted := 0
	totalErrors := 0
	for _, r := range results {
		totalInserted += r.Persisted.PropLinesInserted
		totalErrors += r.Persisted.Errors
		if !r.Persisted.Success {
			log.Warn().
				Str("league", r.League).
				Int("errors", r.Persisted.Errors).
				Msg("League ingestion completed with errors")
		}
	}

	log.Info().
		Int("leagues", len(results)).
		Int("inserted", totalInserted).
		Int("errors", totalErrors).
		Dur("duration", time.Since(start)).
		Msg("Scheduled ingestion pass complete")
}
