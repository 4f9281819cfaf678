package pipeline

import (
	"context"
	"testing"
	"time"

	"statpedia/ingestion/internal/client"
	"statpedia/ingestion/internal/extractor"
	"statpedia/ingestion/internal/fetcher"
	"statpedia/ingestion/internal/identity"
	"statpedia/ingestion/internal/mapper"
	"statpedia/ingestion/internal/models"
	"statpedia/ingestion/internal/persistence"
	"statpedia/ingestion/internal/teams"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticEventsAPI struct {
	events []models.RawEvent
}

func (s *staticEventsAPI) FetchEvents(ctx context.Context, q client.EventsQuery) ([]models.RawEvent, error) {
	return s.events, nil
}

type staticPlayers struct {
	players []models.Player
}

func (s *staticPlayers) List(ctx context.Context) ([]models.Player, error) {
	return s.players, nil
}

type collectingPropLines struct {
	uniqueKeys map[string]struct{}
	rows       int
}

func (c *collectingPropLines) Upsert(ctx context.Context, rows []models.MappedProp) error {
	if c.uniqueKeys == nil {
		c.uniqueKeys = make(map[string]struct{})
	}
	for _, row := range rows {
		c.uniqueKeys[row.ConflictKey] = struct{}{}
	}
	c.rows += len(rows)
	return nil
}

type collectingGameLogs struct {
	rows int
}

func (c *collectingGameLogs) Upsert(ctx context.Context, rows []models.GameLogRow) error {
	c.rows += len(rows)
	return nil
}

func newTestPipeline(api fetcher.EventsAPI, propLines *collectingPropLines, gameLogs *collectingGameLogs) *Pipeline {
	players := &staticPlayers{players: []models.Player{
		{PlayerID: "PATRICK-MAHOMES-KC", FullName: "Patrick Mahomes", Team: "KC", League: "nfl"},
	}}
	return New(
		fetcher.New(api, "", 250),
		extractor.New(teams.NewResolver(nil, 0)),
		mapper.New(identity.NewResolver(players, nil, identity.NewCache(time.Minute))),
		persistence.New(propLines, gameLogs, 0),
	)
}

func propEvent() models.RawEvent {
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
		Odds: map[string]models.OddEntry{
			"passing_yards-upper": {
				StatID:        "passing_yards",
				PlayerID:      "PATRICK_MAHOMES_1_NFL",
				MarketName:    "Passing Yards",
				SideID:        "over",
				FairOverUnder: "285.5",
				FairOdds:      "-110",
				Sportsbook:    &models.NamedRef{Name: "DraftKings"},
			},
			"passing_yards-lower": {
				StatID:        "passing_yards",
				PlayerID:      "PATRICK_MAHOMES_1_NFL",
				MarketName:    "passing yards",
				SideID:        "over",
				FairOverUnder: "285.5",
				FairOdds:      "-112",
				Sportsbook:    &models.NamedRef{Name: "DraftKings"},
			},
		},
	}
}

func TestRun_EndToEnd(t *testing.T) {
	propLines := &collectingPropLines{}
	gameLogs := &collectingGameLogs{}
	pipe := newTestPipeline(&staticEventsAPI{events: []models.RawEvent{propEvent()}}, propLines, gameLogs)

	result := pipe.Run(context.Background(), "nfl", 2025)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 1, result.Tier)
	assert.Equal(t, 1, result.Events)
	assert.Equal(t, 2, result.Extracted.Emitted)
	assert.Equal(t, 2, result.Mapped.Success)
	assert.True(t, result.Persisted.Success)
	assert.Equal(t, 2, result.Persisted.PropLinesInserted)
	assert.Equal(t, 2, result.Persisted.GameLogsInserted)

	assert.Len(t, propLines.uniqueKeys, 1, "Market label casing should converge on one logical line")
}

func TestRun_NoEventsShortCircuits(t *testing.T) {
	propLines := &collectingPropLines{}
	gameLogs := &collectingGameLogs{}
	pipe := newTestPipeline(&staticEventsAPI{}, propLines, gameLogs)

	result := pipe.Run(context.Background(), "nfl", 2025)

	assert.Equal(t, 0, result.Tier, "All-empty tiers should report tier zero")
	assert.Equal(t, 0, result.Events)
	assert.True(t, result.Persisted.Success, "An empty day is a success, not an error")
	assert.Zero(t, propLines.rows, "Nothing should reach the store on an empty day")
	assert.Zero(t, gameLogs.rows)
}

func TestRunAll_CoversEveryLeague(t *testing.T) {
	propLines := &collectingPropLines{}
	gameLogs := &collectingGameLogs{}
	pipe := newTestPipeline(&staticEventsAPI{}, propLines, gameLogs)

	results := pipe.RunAll(context.Background(), []string{"nfl", "nba", "mlb", "nhl"}, 2025)

	require.Len(t, results, 4)
	leagues := make([]string, 0, len(results))
	for _, r := range results {
		leagues = append(leagues, r.League)
	}
	assert.Equal(t, []string{"nfl", "nba", "mlb", "nhl"}, leagues)
}

func TestRunAll_StopsOnCancelledContext(t *testing.T) {
	propLines := &collectingPropLines{}
	gameLogs := &collectingGameLogs{}
	pipe := newTestPipeline(&staticEventsAPI{}, propLines, gameLogs)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := pipe.RunAll(ctx, []string{"nfl", "nba"}, 2025)
	assert.Empty(t, results, "A cancelled context should stop the batch")
}
