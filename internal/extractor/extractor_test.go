package extractor

import (
	"context"
	"testing"

	"statpedia/ingestion/internal/models"
	"statpedia/ingestion/internal/teams"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEvent() models.RawEvent {
	return models.RawEvent{
		EventID:  "evt-1",
		LeagueID: "nfl",
		Status:   &models.EventStatus{StartsAt: "2025-11-02T18:00:00Z"},
		Teams: &models.EventTeams{
			Home: &models.EventTeam{Names: &models.TeamNames{Short: "KC"}},
			Away: &models.EventTeam{Names: &models.TeamNames{Short: "BUF"}},
		},
		Players: map[string]models.PlayerInfo{
			"PATRICK_MAHOMES_1_NFL": {Name: "Patrick Mahomes", TeamAbbr: "KC"},
		},
		Odds: map[string]models.OddEntry{},
	}
}

func newTestExtractor() *Extractor {
	return New(teams.NewResolver(nil, 0))
}

func TestExtract_EmitsPlayerProp(t *testing.T) {
	ev := testEvent()
	ev.Odds["passing_yards-PATRICK_MAHOMES_1_NFL-game-ou-over"] = models.OddEntry{
		StatID:        "passing_yards",
		PlayerID:      "PATRICK_MAHOMES_1_NFL",
		MarketName:    "Passing Yards",
		SideID:        "over",
		FairOverUnder: "285.5",
		BookOverUnder: "280.5",
		FairOdds:      "-110",
		BookOdds:      "-115",
		Sportsbook:    &models.NamedRef{Name: "DraftKings"},
	}

	props, stats := newTestExtractor().Extract(context.Background(), []models.RawEvent{ev})

	require.Len(t, props, 1)
	assert.Equal(t, 1, stats.Emitted)
	assert.Equal(t, 0, stats.Skipped)

	prop := props[0]
	assert.Equal(t, "Patrick Mahomes", prop.PlayerName, "Display name should come from the player directory")
	assert.Equal(t, "Passing Yards", prop.MarketName)
	require.NotNil(t, prop.Line)
	assert.Equal(t, 285.5, *prop.Line, "Model-derived threshold should be preferred over the published one")
	require.NotNil(t, prop.Odds)
	assert.Equal(t, -110, *prop.Odds, "Model-derived price should be preferred over the published one")
	assert.Equal(t, "DraftKings", prop.Sportsbook)
	assert.Equal(t, "over", prop.OverUnder)
	assert.Equal(t, "KC", prop.Team)
	assert.Equal(t, "BUF", prop.Opponent)
	assert.Equal(t, "2025-11-02T18:00:00Z", prop.EventStartUTC)
	assert.Equal(t, "evt-1", prop.EventID)
}

func TestExtract_TeamLevelMarketsPassedOver(t *testing.T) {
	ev := testEvent()
	// Neither a player nor a stat reference: a team-level market
	ev.Odds["points-game-ml-home"] = models.OddEntry{SideID: "over"}

	props, stats := newTestExtractor().Extract(context.Background(), []models.RawEvent{ev})

	assert.Empty(t, props, "Entries without player and stat references should be excluded")
	assert.Equal(t, 0, stats.Emitted)
	assert.Equal(t, 0, stats.Skipped, "Team-level markets are not counted as skips")
}

func TestExtract_BlankPlayerNameSkipped(t *testing.T) {
	ev := testEvent()
	// A stat reference without a player yields a blank resolved name
	ev.Odds["rushing_yards--game-ou-over"] = models.OddEntry{
		StatID:        "rushing_yards",
		BookOverUnder: "55.5",
	}

	props, stats := newTestExtractor().Extract(context.Background(), []models.RawEvent{ev})

	assert.Empty(t, props)
	assert.Equal(t, 1, stats.Skipped, "Blank resolved player name should count as a skip")
}

func TestExtract_UnknownPlayerNameSkipped(t *testing.T) {
	ev := testEvent()
	ev.Players["GHOST_1_NFL"] = models.PlayerInfo{Name: "Unknown Player"}
	ev.Odds["receptions-GHOST_1_NFL-game-ou-over"] = models.OddEntry{
		StatID:   "receptions",
		PlayerID: "GHOST_1_NFL",
	}

	props, stats := newTestExtractor().Extract(context.Background(), []models.RawEvent{ev})

	assert.Empty(t, props)
	assert.Equal(t, 1, stats.Skipped, "Placeholder player name should count as a skip")
}

func TestExtract_FallbackFields(t *testing.T) {
	ev := testEvent()
	ev.Odds["receiving_yards-TRAVIS_KELCE_1_NFL-game-ou-under"] = models.OddEntry{
		StatID:        "receiving_yards",
		BetTypeID:     "ou",
		PlayerID:      "TRAVIS_KELCE_1_NFL",
		SideID:        "under",
		BookOverUnder: "62.5",
		BookOdds:      "+105",
		ByBookmaker: map[string]models.BookmakerEntry{
			"fanduel":    {Odds: "+105", Available: true},
			"draftkings": {Odds: "+100", Available: true},
		},
	}

	props, stats := newTestExtractor().Extract(context.Background(), []models.RawEvent{ev})

	require.Len(t, props, 1)
	assert.Equal(t, 1, stats.Emitted)

	prop := props[0]
	assert.Equal(t, "TRAVIS_KELCE_1_NFL", prop.PlayerName, "Raw player id should stand in when the directory has no entry")
	assert.Equal(t, "receiving_yards ou", prop.MarketName, "Market name should fall back to stat and bet type")
	require.NotNil(t, prop.Line)
	assert.Equal(t, 62.5, *prop.Line, "Published threshold should be used when no model value exists")
	require.NotNil(t, prop.Odds)
	assert.Equal(t, 105, *prop.Odds, "Plus-prefixed prices should parse")
	assert.Equal(t, "DraftKings", prop.Sportsbook, "First sorted bookmaker key should attribute the price")
	assert.Equal(t, "under", prop.OverUnder)
}

func TestExtract_ConsensusDefault(t *testing.T) {
	ev := testEvent()
	ev.Odds["passing_tds-PATRICK_MAHOMES_1_NFL-game-ou-over"] = models.OddEntry{
		StatID:   "passing_touchdowns",
		PlayerID: "PATRICK_MAHOMES_1_NFL",
		SideID:   "over",
	}

	props, _ := newTestExtractor().Extract(context.Background(), []models.RawEvent{ev})

	require.Len(t, props, 1)
	assert.Equal(t, DefaultSportsbook, props[0].Sportsbook, "No attribution should fall back to the consensus book")
	assert.Nil(t, props[0].Line, "Missing thresholds should stay nil")
	assert.Nil(t, props[0].Odds, "Missing prices should stay nil")
}

func TestExtract_DeterministicOrder(t *testing.T) {
	ev := testEvent()
	ev.Odds["a-PATRICK_MAHOMES_1_NFL-over"] = models.OddEntry{StatID: "passing_yards", PlayerID: "PATRICK_MAHOMES_1_NFL", MarketName: "Passing Yards"}
	ev.Odds["b-PATRICK_MAHOMES_1_NFL-over"] = models.OddEntry{StatID: "passing_attempts", PlayerID: "PATRICK_MAHOMES_1_NFL", MarketName: "Passing Attempts"}
	ev.Odds["c-PATRICK_MAHOMES_1_NFL-over"] = models.OddEntry{StatID: "completions", PlayerID: "PATRICK_MAHOMES_1_NFL", MarketName: "Completions"}

	for i := 0; i < 5; i++ {
		props, _ := newTestExtractor().Extract(context.Background(), []models.RawEvent{ev})
		require.Len(t, props, 3)
		assert.Equal(t, "a-PATRICK_MAHOMES_1_NFL-over", props[0].OddID, "Output order should be stable across runs")
		assert.Equal(t, "b-PATRICK_MAHOMES_1_NFL-over", props[1].OddID)
		assert.Equal(t, "c-PATRICK_MAHOMES_1_NFL-over", props[2].OddID)
	}
}
