package store

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"statpedia/ingestion/internal/models"

	"github.com/rs/zerolog/log"
)

// TeamRepository reads the per-league team registry
type TeamRepository struct {
	client *Client
}

// ListByLeague loads the registry rows for one league
func (r *TeamRepository) ListByLeague(ctx context.Context, league string) ([]models.TeamInfo, error) {
	query := fmt.Sprintf(
		"select=name,abbr,logo_url,aliases&league=eq.%s",
		url.QueryEscape(strings.ToLower(league)),
	)

	var teams []models.TeamInfo
	if err := r.client.Get(ctx, "teams", query, &teams); err != nil {
		return nil, fmt.Errorf("failed to list teams for %s: %w", league, err)
	}

	log.Debug().Str("league", league).Int("count", len(teams)).Msg("Team registry loaded")
	return teams, nil
}
