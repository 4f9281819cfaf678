// Package mapper turns extracted props into persisted rows: canonical player
// ids, canonical prop types, dates, seasons and the conflict key that makes
// re-ingestion idempotent.
package mapper

import (
	"context"
	"strconv"
	"strings"

	"statpedia/ingestion/internal/identity"
	"statpedia/ingestion/internal/markets"
	"statpedia/ingestion/internal/metrics"
	"statpedia/ingestion/internal/models"

	"github.com/rs/zerolog/log"
)

// Stats aggregates one mapping pass. Unmapped markets are passed through
// title-cased, so UnmappedMarket counts rows that still got persisted.
type Stats struct {
	Total           int
	MissingPlayerID int
	UnmappedMarket  int
	IncompleteOdd   int
	Success         int
}

// Mapper resolves identities and market labels into MappedProps
type Mapper struct {
	identity *identity.Resolver
}

// New creates a mapper over the given identity resolver
func New(identityResolver *identity.Resolver) *Mapper {
	return &Mapper{identity: identityResolver}
}

// NormalizeAndMap maps each extracted prop to a persisted row. Props without
// a player name or without the fields the conflict key needs are rejected and
// counted; everything else maps, with unknown markets surfaced in stats.
func (m *Mapper) NormalizeAndMap(ctx context.Context, props []models.ExtractedProp) ([]models.MappedProp, Stats) {
	stats := Stats{Total: len(props)}
	mapped := make([]models.MappedProp, 0, len(props))

	for _, prop := range props {
		if prop.PlayerName == "" && prop.PlayerID == "" {
			stats.MissingPlayerID++
			continue
		}

		if prop.EventStartUTC == "" || prop.Sportsbook == "" {
			stats.IncompleteOdd++
			log.Debug().
				Str("player", prop.PlayerName).
				Str("market", prop.MarketName).
				Msg("Incomplete odds entry rejected")
			continue
		}

		propType, known := markets.Normalize(prop.MarketName)
		if !known {
			stats.UnmappedMarket++
			metrics.RecordUnmappedMarket(prop.League)
			log.Warn().
				Str("market", prop.MarketName).
				Str("prop_type", propType).
				Str("league", prop.League).
				Msg("Unmapped market label passed through")
		}

		playerName := prop.PlayerName
		if playerName == "" {
			playerName = prop.PlayerID
		}
		playerID := m.identity.Resolve(ctx, playerName, prop.Team, prop.League, prop.OddID)

		date := strings.SplitN(prop.EventStartUTC, "T", 2)[0]
		season := seasonFromDate(date)

		league := strings.ToLower(prop.League)
		if league == "" {
			league = "unknown"
		}

		line := 0.0 // Yes/No markets carry no threshold
		if prop.Line != nil {
			line = *prop.Line
		}

		var overOdds, underOdds *int
		switch prop.OverUnder {
		case "under", "no":
			underOdds = prop.Odds
		default:
			overOdds = prop.Odds
		}

		gameID := prop.EventID
		if gameID == "" {
			gameID = playerID + "-" + date
		}

		team := prop.Team
		if team == "" {
			team = "UNK"
		}
		opponent := prop.Opponent
		if opponent == "" {
			opponent = "UNK"
		}

		mapped = append(mapped, models.MappedProp{
			PlayerID:    playerID,
			PlayerName:  playerName,
			Team:        team,
			Opponent:    opponent,
			Date:        date,
			PropType:    propType,
			Line:        line,
			OverOdds:    overOdds,
			UnderOdds:   underOdds,
			Sportsbook:  prop.Sportsbook,
			League:      league,
			Season:      season,
			GameID:      gameID,
			ConflictKey: BuildConflictKey(playerID, date, propType, prop.Sportsbook, league, season),
		})
		stats.Success++
	}

	log.Info().
		Int("total", stats.Total).
		Int("mapped", stats.Success).
		Int("missing_player_id", stats.MissingPlayerID).
		Int("unmapped_market", stats.UnmappedMarket).
		Int("incomplete", stats.IncompleteOdd).
		Msg("Mapping complete")
	return mapped, stats
}

// BuildConflictKey joins the six identity fields of a betting line with a
// fixed delimiter. The prop type is lower-cased and underscored first, so
// label casing and spacing never split one logical line into two rows.
func BuildConflictKey(playerID, gameDate, propType, sportsbook, league string, season int) string {
	normalizedPropType := strings.Join(strings.Fields(strings.ToLower(propType)), "_")
	return strings.Join([]string{
		playerID,
		gameDate,
		normalizedPropType,
		sportsbook,
		strings.ToLower(league),
		strconv.Itoa(season),
	}, "|")
}

// seasonFromDate defaults the season to the calendar year of the game date
func seasonFromDate(date string) int {
	if len(date) >= 4 {
		if year, err := strconv.Atoi(date[:4]); err == nil {
			return year
		}
	}
	return 0
}
