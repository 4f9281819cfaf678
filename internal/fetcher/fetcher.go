// Package fetcher loads events through an ordered ladder of increasingly
// permissive upstream queries. Query windows legitimately miss real games
// when they don't align with actual game dates, so widening the window is
// strictly cheaper than missing a day's ingestion.
package fetcher

import (
	"context"
	"time"

	"statpedia/ingestion/internal/client"
	"statpedia/ingestion/internal/metrics"
	"statpedia/ingestion/internal/models"

	"github.com/rs/zerolog/log"
)

// EventsAPI is the upstream query surface the ladder drives
type EventsAPI interface {
	FetchEvents(ctx context.Context, q client.EventsQuery) ([]models.RawEvent, error)
}

// tierSpec is one rung of the ladder: which season to ask for, how wide a
// date window around now, and whether the market filter stays on.
type tierSpec struct {
	seasonOffset int
	windowDays   int // 0 means no date window
	keepFilter   bool
}

// ladder is ordered strictly from most to least constrained. Tiers 6-10 only
// run once 1-5 all came back empty, which the single ordered scan guarantees.
var ladder = []tierSpec{
	{seasonOffset: 0, windowDays: 7, keepFilter: true},
	{seasonOffset: 0, windowDays: 14, keepFilter: true},
	{seasonOffset: -1, windowDays: 14, keepFilter: true},
	{seasonOffset: 0, windowDays: 14, keepFilter: false},
	{seasonOffset: -1, windowDays: 14, keepFilter: false},
	{seasonOffset: 0, windowDays: 30, keepFilter: false},
	{seasonOffset: 0, windowDays: 90, keepFilter: false},
	{seasonOffset: -1, windowDays: 90, keepFilter: false},
	{seasonOffset: 0, keepFilter: false},
	{seasonOffset: -1, keepFilter: false},
}

// Result is the ladder outcome. Tier 0 means every rung came back empty.
type Result struct {
	Events []models.RawEvent
	Tier   int
}

// tierOutcome separates a failed call from a genuinely empty one, so logs and
// metrics keep the cause even though both advance the ladder.
type tierOutcome struct {
	events []models.RawEvent
	err    error
}

// Fetcher runs the fallback ladder against one upstream client
type Fetcher struct {
	api    EventsAPI
	oddIDs string
	limit  int
	now    func() time.Time
}

// New creates a fetcher. oddIDs is the market filter applied on filtered
// tiers; limit caps events per request.
func New(api EventsAPI, oddIDs string, limit int) *Fetcher {
	return &Fetcher{
		api:    api,
		oddIDs: oddIDs,
		limit:  limit,
		now:    time.Now,
	}
}

// FetchEventsResilient walks the ladder for one league/season and returns the
// first non-empty tier's events. Tier failures are logged and advance the
// ladder; they never abort it.
func (f *Fetcher) FetchEventsResilient(ctx context.Context, league string, season int) Result {
	for i, spec := range ladder {
		tier := i + 1
		outcome := f.fetchTier(ctx, league, season, spec)

		if outcome.err != nil {
			metrics.RecordFetchTier(league, tier, "failed")
			log.Warn().
				Err(outcome.err).
				Str("league", league).
				Int("tier", tier).
				Msg("Fetch tier failed, advancing ladder")
			continue
		}

		if len(outcome.events) == 0 {
			metrics.RecordFetchTier(league, tier, "empty")
			log.Debug().
				Str("league", league).
				Int("tier", tier).
				Msg("Fetch tier empty, advancing ladder")
			continue
		}

		metrics.RecordFetchTier(league, tier, "hit")
		log.Info().
			Str("league", league).
			Int("tier", tier).
			Int("events", len(outcome.events)).
			Msg("Fetch tier satisfied")
		return Result{Events: outcome.events, Tier: tier}
	}

	metrics.RecordLadderExhausted(league)
	log.Warn().
		Str("league", league).
		Int("season", season).
		Msg("Fallback ladder exhausted with no events")
	return Result{Events: []models.RawEvent{}, Tier: 0}
}

func (f *Fetcher) fetchTier(ctx context.Context, league string, season int, spec tierSpec) tierOutcome {
	q := client.EventsQuery{
		LeagueID:      league,
		Season:        season + spec.seasonOffset,
		OddsAvailable: true,
		Limit:         f.limit,
	}
	if spec.windowDays > 0 {
		now := f.now().UTC()
		window := time.Duration(spec.windowDays) * 24 * time.Hour
		q.DateFrom = now.Add(-window).Format("2006-01-02")
		q.DateTo = now.Add(window).Format("2006-01-02")
	}
	if spec.keepFilter {
		q.OddIDs = f.oddIDs
	}

	events, err := f.api.FetchEvents(ctx, q)
	if err != nil {
		return tierOutcome{err: err}
	}
	return tierOutcome{events: events}
}
