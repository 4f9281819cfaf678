package models

import "strings"

// ExtractedProp is one flattened odds entry, consumed immediately by mapping
type ExtractedProp struct {
	PlayerName    string
	PlayerID      string
	MarketName    string
	Line          *float64
	Odds          *int
	Sportsbook    string
	EventStartUTC string
	League        string
	EventID       string
	MarketID      string
	OddID         string
	OverUnder     string
	Team          string
	Opponent      string
}

// MappedProp is the persisted prop-line row. ConflictKey is the sole dedup
// surface: re-ingesting the same logical line merges into the same row.
type MappedProp struct {
	PlayerID    string  `json:"player_id"`
	PlayerName  string  `json:"player_name"`
	Team        string  `json:"team"`
	Opponent    string  `json:"opponent"`
	Date        string  `json:"date"`
	PropType    string  `json:"prop_type"`
	Line        float64 `json:"line"`
	OverOdds    *int    `json:"over_odds"`
	UnderOdds   *int    `json:"under_odds"`
	Sportsbook  string  `json:"sportsbook"`
	League      string  `json:"league"`
	Season      int     `json:"season"`
	GameID      string  `json:"game_id"`
	ConflictKey string  `json:"conflict_key"`
}

// GameLogRow is the per-prop observation row persisted to the game-log store,
// carrying the line as the observed value
type GameLogRow struct {
	PlayerID   string  `json:"player_id"`
	PlayerName string  `json:"player_name"`
	Team       string  `json:"team"`
	Opponent   string  `json:"opponent"`
	Season     int     `json:"season"`
	Date       string  `json:"date"`
	PropType   string  `json:"prop_type"`
	Value      float64 `json:"value"`
	Sport      string  `json:"sport"`
	League     string  `json:"league"`
	GameID     string  `json:"game_id"`
}

// ToGameLogRow derives the observation row for a mapped prop
func (p *MappedProp) ToGameLogRow() GameLogRow {
	return GameLogRow{
		PlayerID:   p.PlayerID,
		PlayerName: p.PlayerName,
		Team:       p.Team,
		Opponent:   p.Opponent,
		Season:     p.Season,
		Date:       p.Date,
		PropType:   p.PropType,
		Value:      p.Line,
		Sport:      strings.ToUpper(p.League),
		League:     p.League,
		GameID:     p.GameID,
	}
}
