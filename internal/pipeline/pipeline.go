// Package pipeline composes fetching, extraction, mapping and persistence
// into one ingestion run per league/season.
package pipeline

import (
	"context"
	"time"

	"statpedia/ingestion/internal/extractor"
	"statpedia/ingestion/internal/fetcher"
	"statpedia/ingestion/internal/mapper"
	"statpedia/ingestion/internal/metrics"
	"statpedia/ingestion/internal/persistence"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Stage names one step of an ingestion run
type Stage string

const (
	StageFetching   Stage = "fetching"
	StageExtracting Stage = "extracting"
	StageMapping    Stage = "mapping"
	StageValidating Stage = "validating"
	StagePersisting Stage = "persisting"
	StageDone       Stage = "done"
)

// Result aggregates one ingestion run. An empty day short-circuits to Done
// with zero counts; that is a success, not an error.
type Result struct {
	RunID     string
	League    string
	Season    int
	Tier      int
	Events    int
	Extracted extractor.Stats
	Mapped    mapper.Stats
	Persisted persistence.Result
	Duration  time.Duration
}

// Pipeline wires the ingestion stages together
type Pipeline struct {
	fetcher   *fetcher.Fetcher
	extractor *extractor.Extractor
	mapper    *mapper.Mapper
	inserter  *persistence.Inserter
}

// New creates a pipeline over the given stage implementations
func New(f *fetcher.Fetcher, e *extractor.Extractor, m *mapper.Mapper, i *persistence.Inserter) *Pipeline {
	return &Pipeline{fetcher: f, extractor: e, mapper: m, inserter: i}
}

// Run ingests one league/season: Fetching, Extracting, Mapping, Validating,
// Persisting, Done. Each stage is awaited before the next; any stage whose
// input is empty short-circuits straight to Done.
func (p *Pipeline) Run(ctx context.Context, league string, season int) Result {
	start := time.Now()
	result := Result{
		RunID:  uuid.NewString(),
		League: league,
		Season: season,
	}
	result.Persisted.Success = true

	logger := log.With().
		Str("run_id", result.RunID).
		Str("league", league).
		Int("season", season).
		Logger()
	logger.Info().Str("stage", string(StageFetching)).Msg("Ingestion run started")

	fetched := p.fetcher.FetchEventsResilient(ctx, league, season)
	result.Tier = fetched.Tier
	result.Events = len(fetched.Events)
	if result.Events == 0 {
		logger.Info().Msg("No events available, nothing to ingest")
		p.finish(&result, "success", start, &logger)
		return result
	}

	logger.Info().Str("stage", string(StageExtracting)).Int("events", result.Events).Msg("Extracting props")
	props, extractStats := p.extractor.Extract(ctx, fetched.Events)
	result.Extracted = extractStats
	if len(props) == 0 {
		logger.Info().Msg("No props extracted, nothing to ingest")
		p.finish(&result, "success", start, &logger)
		return result
	}

	logger.Info().Str("stage", string(StageMapping)).Int("props", len(props)).Msg("Mapping props")
	mapped, mapStats := p.mapper.NormalizeAndMap(ctx, props)
	result.Mapped = mapStats
	if len(mapped) == 0 {
		logger.Info().Msg("No props mapped, nothing to ingest")
		p.finish(&result, "success", start, &logger)
		return result
	}

	logger.Info().
		Str("stage", string(StagePersisting)).
		Int("mapped", len(mapped)).
		Msg("Persisting props")
	result.Persisted = p.inserter.Insert(ctx, mapped)

	status := "success"
	if !result.Persisted.Success {
		status = "partial"
	}
	p.finish(&result, status, start, &logger)
	return result
}

// RunAll ingests a batch of leagues sequentially. One league's failure never
// blocks the next; callers get every result.
func (p *Pipeline) RunAll(ctx context.Context, leagues []string, season int) []Result {
	results := make([]Result, 0, len(leagues))
	for _, league := range leagues {
		if ctx.Err() != nil {
			break
		}
		results = append(results, p.Run(ctx, league, season))
	}
	return results
}

func (p *Pipeline) finish(result *Result, status string, start time.Time, logger *zerolog.Logger) {
	result.Duration = time.Since(start)
	metrics.RecordIngestionRun(result.League, status, result.Duration.Seconds())
	logger.Info().
		Str("stage", string(StageDone)).
		Str("status", status).
		Int("tier", result.Tier).
		Int("events", result.Events).
		Int("props", result.Extracted.Emitted).
		Int("mapped", result.Mapped.Success).
		Int("proplines_inserted", result.Persisted.PropLinesInserted).
		Int("game_logs_inserted", result.Persisted.GameLogsInserted).
		Int("errors", result.Persisted.Errors).
		Dur("duration", result.Duration).
		Msg("Ingestion run complete")
}
