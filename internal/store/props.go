package store

import (
	"context"
	"fmt"

	"statpedia/ingestion/internal/models"
)

// PropLineRepository upserts prop-line rows. conflict_key is the merge target
// guaranteeing at most one logical row per distinct betting line.
type PropLineRepository struct {
	client *Client
}

// Upsert merges a batch of mapped props into the prop-lines table
func (r *PropLineRepository) Upsert(ctx context.Context, rows []models.MappedProp) error {
	if len(rows) == 0 {
		return nil
	}
	if err := r.client.Upsert(ctx, "proplines", "conflict_key", rows); err != nil {
		return fmt.Errorf("failed to upsert prop lines: %w", err)
	}
	return nil
}

// GameLogRepository upserts derived per-prop observation rows
type GameLogRepository struct {
	client *Client
}

// Upsert merges a batch of game-log rows, keyed on the same identity fields
// as the prop lines they derive from
func (r *GameLogRepository) Upsert(ctx context.Context, rows []models.GameLogRow) error {
	if len(rows) == 0 {
		return nil
	}
	if err := r.client.Upsert(ctx, "player_game_logs", "player_id,date,prop_type,league,season", rows); err != nil {
		return fmt.Errorf("failed to upsert game logs: %w", err)
	}
	return nil
}
