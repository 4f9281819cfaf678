// Package extractor flattens fetched events into uniform extracted-prop
// records, resolving display names, team attribution and price fields through
// explicit ordered fallbacks.
package extractor

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"statpedia/ingestion/internal/metrics"
	"statpedia/ingestion/internal/models"
	"statpedia/ingestion/internal/teams"

	"github.com/rs/zerolog/log"
)

// DefaultSportsbook is emitted when no bookmaker attribution is present
const DefaultSportsbook = "Consensus"

// bookmakerNames maps upstream bookmaker keys to display names
var bookmakerNames = map[string]string{
	"draftkings": "DraftKings",
	"fanduel":    "FanDuel",
	"betmgm":     "BetMGM",
	"caesars":    "Caesars",
	"pointsbet":  "PointsBet",
	"betrivers":  "BetRivers",
	"bet365":     "bet365",
	"pinnacle":   "Pinnacle",
	"bovada":     "Bovada",
	"espnbet":    "ESPN BET",
	"fanatics":   "Fanatics",
	"consensus":  DefaultSportsbook,
}

// Stats aggregates one extraction pass
type Stats struct {
	Events  int
	Emitted int
	Skipped int
}

// Extractor flattens event odds maps into extracted props
type Extractor struct {
	teams *teams.Resolver
}

// New creates an extractor using the given team resolver for attribution
func New(teamResolver *teams.Resolver) *Extractor {
	return &Extractor{teams: teamResolver}
}

// Extract flattens every odds entry of every event. Entries lacking both a
// player and a stat reference are team-level markets and are passed over;
// entries whose resolved player or market name is blank or a placeholder are
// counted as skipped. A skipped entry is not transient, so there is no retry.
func (e *Extractor) Extract(ctx context.Context, events []models.RawEvent) ([]models.ExtractedProp, Stats) {
	stats := Stats{Events: len(events)}
	var props []models.ExtractedProp

	for i := range events {
		ev := &events[i]
		eventID := ev.FirstEventID()
		league := ev.FirstLeague()
		startUTC := ev.FirstStartTime()
		homeAbbr := ev.HomeAbbr()
		awayAbbr := ev.AwayAbbr()

		// Odds maps iterate in random order; sort ids so output order is
		// stable for tests and logs.
		oddIDs := make([]string, 0, len(ev.Odds))
		for id := range ev.Odds {
			oddIDs = append(oddIDs, id)
		}
		sort.Strings(oddIDs)

		for _, oddID := range oddIDs {
			odd := ev.Odds[oddID]
			if odd.PlayerID == "" && odd.StatID == "" {
				continue
			}

			playerInfo := ev.Players[odd.PlayerID]
			playerName := playerInfo.Name
			if playerName == "" {
				playerName = odd.PlayerID
			}

			marketName := odd.MarketName
			if marketName == "" && odd.StatID != "" {
				marketName = strings.TrimSpace(odd.StatID + " " + odd.BetTypeID)
			}

			if !validPlayerName(playerName) || !validMarketName(marketName) {
				stats.Skipped++
				metrics.RecordPropSkipped(league)
				log.Warn().
					Str("event_id", eventID).
					Str("odd_id", oddID).
					Str("player", playerName).
					Str("market", marketName).
					Msg("Skipping odds entry with unusable player or market name")
				continue
			}

			team, opponent := e.teams.Enrich(ctx, league, teams.EnrichInput{
				PlayerTeamAbbr: playerInfo.TeamAbbr,
				PropTeam:       "",
				PlayerTeamID:   firstNonEmpty(playerInfo.TeamID, odd.TeamID),
				HomeAbbr:       homeAbbr,
				AwayAbbr:       awayAbbr,
			})

			props = append(props, models.ExtractedProp{
				PlayerName:    playerName,
				PlayerID:      odd.PlayerID,
				MarketName:    marketName,
				Line:          resolveLine(odd),
				Odds:          resolveOdds(odd),
				Sportsbook:    resolveSportsbook(odd),
				EventStartUTC: startUTC,
				League:        league,
				EventID:       eventID,
				MarketID:      odd.StatID,
				OddID:         oddID,
				OverUnder:     resolveSide(odd.SideID),
				Team:          team,
				Opponent:      opponent,
			})
			stats.Emitted++
			metrics.RecordPropExtracted(league)
		}
	}

	log.Info().
		Int("events", stats.Events).
		Int("props", stats.Emitted).
		Int("skipped", stats.Skipped).
		Msg("Extraction complete")
	return props, stats
}

func validPlayerName(name string) bool {
	return name != "" && name != "Unknown Player"
}

func validMarketName(name string) bool {
	return name != "" && strings.ToLower(name) != "unknown"
}

// resolveLine prefers the model-derived threshold over the published one
func resolveLine(odd models.OddEntry) *float64 {
	if v, err := strconv.ParseFloat(odd.FairOverUnder, 64); err == nil {
		return &v
	}
	if v, err := strconv.ParseFloat(odd.BookOverUnder, 64); err == nil {
		return &v
	}
	return nil
}

// resolveOdds prefers the model-derived price over the published one
func resolveOdds(odd models.OddEntry) *int {
	if v, ok := parseSignedOdds(odd.FairOdds); ok {
		return &v
	}
	if v, ok := parseSignedOdds(odd.BookOdds); ok {
		return &v
	}
	return nil
}

func parseSignedOdds(raw string) (int, bool) {
	raw = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "+"))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

// resolveSportsbook walks the attribution fallbacks: explicit sportsbook
// object, explicit bookmaker object, flat string field, first key of the
// per-bookmaker map, then the consensus default.
func resolveSportsbook(odd models.OddEntry) string {
	if odd.Sportsbook != nil && odd.Sportsbook.Name != "" {
		return odd.Sportsbook.Name
	}
	if odd.Bookmaker != nil && odd.Bookmaker.Name != "" {
		return odd.Bookmaker.Name
	}
	if odd.SportsbookName != "" {
		return odd.SportsbookName
	}
	if len(odd.ByBookmaker) > 0 {
		keys := make([]string, 0, len(odd.ByBookmaker))
		for k := range odd.ByBookmaker {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return displayBookmaker(keys[0])
	}
	return DefaultSportsbook
}

func displayBookmaker(key string) string {
	if name, ok := bookmakerNames[strings.ToLower(key)]; ok {
		return name
	}
	return key
}

func resolveSide(sideID string) string {
	switch strings.ToLower(sideID) {
	case "under":
		return "under"
	case "yes":
		return "yes"
	case "no":
		return "no"
	default:
		return "over"
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
