// Package persistence validates, chunks and idempotently upserts mapped props
// into the prop-lines store and the derived game-log store.
package persistence

import (
	"context"
	"fmt"

	"statpedia/ingestion/internal/metrics"
	"statpedia/ingestion/internal/models"

	"github.com/rs/zerolog/log"
)

// DefaultBatchSize balances collaborator payload limits against request count
const DefaultBatchSize = 250

// PropLineSink upserts prop-line batches
type PropLineSink interface {
	Upsert(ctx context.Context, rows []models.MappedProp) error
}

// GameLogSink upserts derived game-log batches
type GameLogSink interface {
	Upsert(ctx context.Context, rows []models.GameLogRow) error
}

// ErrorDetail describes one failed batch or rejected record
type ErrorDetail struct {
	Table      string
	BatchIndex int
	Error      string
	Sample     *models.MappedProp
}

// Result aggregates an insertion run. Partial success is normal: the conflict
// key makes any failed portion safe to re-run.
type Result struct {
	Success           bool
	PropLinesInserted int
	GameLogsInserted  int
	Errors            int
	ErrorDetails      []ErrorDetail
}

// Inserter persists mapped props into both stores
type Inserter struct {
	propLines PropLineSink
	gameLogs  GameLogSink
	batchSize int
}

// New creates an inserter. batchSize <= 0 selects the default.
func New(propLines PropLineSink, gameLogs GameLogSink, batchSize int) *Inserter {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Inserter{propLines: propLines, gameLogs: gameLogs, batchSize: batchSize}
}

// Insert validates every record, then upserts the valid ones in batches into
// the prop-lines store and the derived game-log store. Invalid records and
// failed batches are counted and detailed; neither aborts the rest.
func (i *Inserter) Insert(ctx context.Context, mapped []models.MappedProp) Result {
	result := Result{Success: true}
	if len(mapped) == 0 {
		log.Info().Msg("No props to insert")
		return result
	}

	valid := make([]models.MappedProp, 0, len(mapped))
	for idx := range mapped {
		prop := mapped[idx]
		if msg := validate(&prop); msg != "" {
			result.Success = false
			result.Errors++
			result.ErrorDetails = append(result.ErrorDetails, ErrorDetail{
				Table:      "validation",
				BatchIndex: -1,
				Error:      fmt.Sprintf("record %d: %s", idx, msg),
				Sample:     &prop,
			})
			metrics.RecordValidationError()
			continue
		}
		valid = append(valid, prop)
	}

	if len(valid) == 0 {
		log.Warn().Int("rejected", result.Errors).Msg("No valid props after validation")
		return result
	}

	for batchIdx, batch := range chunk(valid, i.batchSize) {
		if err := i.propLines.Upsert(ctx, batch); err != nil {
			result.Success = false
			result.Errors += len(batch)
			result.ErrorDetails = append(result.ErrorDetails, ErrorDetail{
				Table:      "proplines",
				BatchIndex: batchIdx,
				Error:      err.Error(),
				Sample:     &batch[0],
			})
			metrics.RecordPersistence("proplines", "error", len(batch))
			log.Error().
				Err(err).
				Int("batch", batchIdx).
				Int("rows", len(batch)).
				Msg("Prop-lines batch failed")
			continue
		}
		result.PropLinesInserted += len(batch)
		metrics.RecordPersistence("proplines", "success", len(batch))
	}

	gameLogs := make([]models.GameLogRow, len(valid))
	for idx := range valid {
		gameLogs[idx] = valid[idx].ToGameLogRow()
	}

	for batchIdx, batch := range chunk(gameLogs, i.batchSize) {
		if err := i.gameLogs.Upsert(ctx, batch); err != nil {
			result.Success = false
			result.Errors += len(batch)
			result.ErrorDetails = append(result.ErrorDetails, ErrorDetail{
				Table:      "player_game_logs",
				BatchIndex: batchIdx,
				Error:      err.Error(),
			})
			metrics.RecordPersistence("player_game_logs", "error", len(batch))
			log.Error().
				Err(err).
				Int("batch", batchIdx).
				Int("rows", len(batch)).
				Msg("Game-logs batch failed")
			continue
		}
		result.GameLogsInserted += len(batch)
		metrics.RecordPersistence("player_game_logs", "success", len(batch))
	}

	log.Info().
		Int("props", len(mapped)).
		Int("proplines_inserted", result.PropLinesInserted).
		Int("game_logs_inserted", result.GameLogsInserted).
		Int("errors", result.Errors).
		Msg("Insertion complete")
	return result
}

// validate returns an empty string for a persistable record, else the reason.
// Over/under odds may each be null, but never both.
func validate(p *models.MappedProp) string {
	required := []struct {
		field string
		value string
	}{
		{"player_id", p.PlayerID},
		{"player_name", p.PlayerName},
		{"team", p.Team},
		{"opponent", p.Opponent},
		{"prop_type", p.PropType},
		{"sportsbook", p.Sportsbook},
		{"league", p.League},
		{"date", p.Date},
		{"game_id", p.GameID},
		{"conflict_key", p.ConflictKey},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Sprintf("missing required field '%s'", r.field)
		}
	}
	if p.Season == 0 {
		return "missing season"
	}
	if p.OverOdds == nil && p.UnderOdds == nil {
		return "at least one of over_odds/under_odds must be present"
	}
	return ""
}

func chunk[T any](rows []T, size int) [][]T {
	var batches [][]T
	for start := 0; start < len(rows); start += size {
		end := start + size
		if end > len(rows) {
			end = len(rows)
		}
		batches = append(batches, rows[start:end])
	}
	return batches
}
