package persistence

import (
	"context"
	"errors"
	"testing"

	"statpedia/ingestion/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePropLines struct {
	uniqueKeys map[string]struct{}
	rows       int
	calls      int
	failCalls  map[int]bool
}

func newFakePropLines() *fakePropLines {
	return &fakePropLines{uniqueKeys: make(map[string]struct{}), failCalls: map[int]bool{}}
}

func (f *fakePropLines) Upsert(ctx context.Context, rows []models.MappedProp) error {
	call := f.calls
	f.calls++
	if f.failCalls[call] {
		return errors.New("store rejected batch")
	}
	for _, row := range rows {
		f.uniqueKeys[row.ConflictKey] = struct{}{}
	}
	f.rows += len(rows)
	return nil
}

type fakeGameLogs struct {
	rows  int
	calls int
}

func (f *fakeGameLogs) Upsert(ctx context.Context, rows []models.GameLogRow) error {
	f.calls++
	f.rows += len(rows)
	return nil
}

func intPtr(v int) *int { return &v }

func validProp(conflictKey string) models.MappedProp {
	return models.MappedProp{
		PlayerID:    "PATRICK-MAHOMES-KC",
		PlayerName:  "Patrick Mahomes",
		Team:        "KC",
		Opponent:    "BUF",
		Date:        "2025-11-02",
		PropType:    "Passing Yards",
		Line:        285.5,
		OverOdds:    intPtr(-110),
		Sportsbook:  "DraftKings",
		League:      "nfl",
		Season:      2025,
		GameID:      "evt-1",
		ConflictKey: conflictKey,
	}
}

func TestInsert_Empty(t *testing.T) {
	propLines := newFakePropLines()
	gameLogs := &fakeGameLogs{}

	result := New(propLines, gameLogs, 0).Insert(context.Background(), nil)

	assert.True(t, result.Success)
	assert.Zero(t, result.Errors)
	assert.Zero(t, propLines.calls, "Empty input should never reach the store")
	assert.Zero(t, gameLogs.calls)
}

func TestInsert_Success(t *testing.T) {
	propLines := newFakePropLines()
	gameLogs := &fakeGameLogs{}

	result := New(propLines, gameLogs, 0).Insert(context.Background(), []models.MappedProp{
		validProp("key-1"),
		validProp("key-2"),
	})

	assert.True(t, result.Success)
	assert.Equal(t, 2, result.PropLinesInserted)
	assert.Equal(t, 2, result.GameLogsInserted)
	assert.Zero(t, result.Errors)
}

func TestInsert_RejectsMissingOdds(t *testing.T) {
	propLines := newFakePropLines()
	gameLogs := &fakeGameLogs{}

	missingOdds := validProp("key-1")
	missingOdds.OverOdds = nil
	missingOdds.UnderOdds = nil

	underOnly := validProp("key-2")
	underOnly.OverOdds = nil
	underOnly.UnderOdds = intPtr(-105)

	result := New(propLines, gameLogs, 0).Insert(context.Background(), []models.MappedProp{missingOdds, underOnly})

	assert.False(t, result.Success)
	assert.Equal(t, 1, result.Errors, "Only the record with both odds null should be rejected")
	assert.Equal(t, 1, result.PropLinesInserted, "A record with one price should persist")
	require.Len(t, result.ErrorDetails, 1)
	assert.Equal(t, "validation", result.ErrorDetails[0].Table)
	assert.Contains(t, result.ErrorDetails[0].Error, "over_odds/under_odds")
}

func TestInsert_RejectsMissingRequiredField(t *testing.T) {
	propLines := newFakePropLines()
	gameLogs := &fakeGameLogs{}

	noKey := validProp("")

	result := New(propLines, gameLogs, 0).Insert(context.Background(), []models.MappedProp{noKey})

	assert.False(t, result.Success)
	assert.Equal(t, 1, result.Errors)
	assert.Zero(t, propLines.calls, "A run with no valid records should never reach the store")
	require.Len(t, result.ErrorDetails, 1)
	assert.Contains(t, result.ErrorDetails[0].Error, "conflict_key")
}

func TestInsert_Idempotent(t *testing.T) {
	propLines := newFakePropLines()
	gameLogs := &fakeGameLogs{}
	inserter := New(propLines, gameLogs, 0)

	prop := validProp("PATRICK-MAHOMES-KC|2025-11-02|passing_yards|DraftKings|nfl|2025")
	first := inserter.Insert(context.Background(), []models.MappedProp{prop})
	second := inserter.Insert(context.Background(), []models.MappedProp{prop})

	assert.True(t, first.Success)
	assert.True(t, second.Success)
	assert.Len(t, propLines.uniqueKeys, 1, "Re-ingesting the same line should land on one logical row")
}

func TestInsert_FailedBatchDoesNotAbortRest(t *testing.T) {
	propLines := newFakePropLines()
	propLines.failCalls[0] = true
	gameLogs := &fakeGameLogs{}

	props := []models.MappedProp{validProp("key-1"), validProp("key-2"), validProp("key-3")}

	result := New(propLines, gameLogs, 1).Insert(context.Background(), props)

	assert.False(t, result.Success)
	assert.Equal(t, 2, result.PropLinesInserted, "Batches after a failure should still persist")
	assert.Equal(t, 1, result.Errors)
	assert.Equal(t, 3, result.GameLogsInserted, "Game logs should persist independently of prop-line failures")
	require.Len(t, result.ErrorDetails, 1)
	assert.Equal(t, "proplines", result.ErrorDetails[0].Table)
	assert.Equal(t, 0, result.ErrorDetails[0].BatchIndex)
}

func TestInsert_DerivesGameLogRows(t *testing.T) {
	propLines := newFakePropLines()
	gameLogs := &fakeGameLogs{}

	New(propLines, gameLogs, 0).Insert(context.Background(), []models.MappedProp{validProp("key-1")})

	assert.Equal(t, 1, gameLogs.rows, "Every valid prop should derive one game-log row")
}
