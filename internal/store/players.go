package store

import (
	"context"
	"fmt"
	"net/url"

	"statpedia/ingestion/internal/models"

	"github.com/rs/zerolog/log"
)

// playerLoadLimit caps the bulk player load used to build the identity map
const playerLoadLimit = 10000

// PlayerRepository reads the canonical players table
type PlayerRepository struct {
	client *Client
}

// List bulk-loads all known players for identity-map construction
func (r *PlayerRepository) List(ctx context.Context) ([]models.Player, error) {
	query := fmt.Sprintf("select=player_id,full_name,team,league,position&limit=%d", playerLoadLimit)

	var players []models.Player
	if err := r.client.Get(ctx, "players", query, &players); err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}

	log.Debug().Int("count", len(players)).Msg("Players loaded")
	return players, nil
}

// MissingPlayerRepository tracks names that failed identity resolution
type MissingPlayerRepository struct {
	client *Client
}

// Upsert records one unresolved name, merging on its normalized form
func (r *MissingPlayerRepository) Upsert(ctx context.Context, rec *models.MissingPlayerRecord) error {
	if err := r.client.Upsert(ctx, "missing_players", "normalized_name", []*models.MissingPlayerRecord{rec}); err != nil {
		return fmt.Errorf("failed to upsert missing player: %w", err)
	}
	return nil
}

// DeleteByNormalizedName clears the row for a name that has since resolved
func (r *MissingPlayerRepository) DeleteByNormalizedName(ctx context.Context, normalizedName string) error {
	query := "normalized_name=eq." + url.QueryEscape(normalizedName)
	if err := r.client.Delete(ctx, "missing_players", query); err != nil {
		return fmt.Errorf("failed to delete missing player: %w", err)
	}
	return nil
}
