package models

// RawEvent is one upstream event snapshot. Field names and presence vary by
// league and API version, so identifiers and timestamps carry every known
// spelling and are resolved through the First* accessors below.
type RawEvent struct {
	EventID    string `json:"eventID"`
	ID         string `json:"id"`
	AltEventID string `json:"event_id"`

	LeagueID string `json:"leagueID"`
	League   string `json:"league"`

	Status       *EventStatus `json:"status"`
	Scheduled    string       `json:"scheduled"`
	CommenceTime string       `json:"commence_time"`
	Date         string       `json:"date"`

	Teams        *EventTeams `json:"teams"`
	HomeTeamName string      `json:"home_team"`
	AwayTeamName string      `json:"away_team"`

	Players map[string]PlayerInfo `json:"players"`
	Odds    map[string]OddEntry   `json:"odds"`
}

// EventStatus carries scheduling metadata for an event
type EventStatus struct {
	StartsAt string `json:"startsAt"`
}

// EventTeams holds the two sides of an event
type EventTeams struct {
	Home *EventTeam `json:"home"`
	Away *EventTeam `json:"away"`
}

// EventTeam is one side of an event
type EventTeam struct {
	TeamID       string     `json:"teamID"`
	Name         string     `json:"name"`
	Abbreviation string     `json:"abbreviation"`
	Names        *TeamNames `json:"names"`
}

// TeamNames holds the short/long display names for a team
type TeamNames struct {
	Short string `json:"short"`
	Long  string `json:"long"`
}

// PlayerInfo is one entry in an event's player directory
type PlayerInfo struct {
	Name     string `json:"name"`
	TeamID   string `json:"teamID"`
	TeamAbbr string `json:"teamAbbr"`
	Position string `json:"position"`
}

// OddEntry is one market line inside an event's odds map
type OddEntry struct {
	OddID      string `json:"oddID"`
	StatID     string `json:"statID"`
	PlayerID   string `json:"playerID"`
	TeamID     string `json:"teamID"`
	MarketName string `json:"marketName"`
	BetTypeID  string `json:"betTypeID"`
	SideID     string `json:"sideID"`

	// Threshold and price fields arrive as strings upstream.
	// "Fair" is the model-derived value, "book" the published one.
	FairOverUnder string `json:"fairOverUnder"`
	BookOverUnder string `json:"bookOverUnder"`
	FairOdds      string `json:"fairOdds"`
	BookOdds      string `json:"bookOdds"`

	Sportsbook     *NamedRef                 `json:"sportsbook"`
	Bookmaker      *NamedRef                 `json:"bookmaker"`
	SportsbookName string                    `json:"sportsbookName"`
	ByBookmaker    map[string]BookmakerEntry `json:"byBookmaker"`
}

// NamedRef is a nested object carrying only a display name
type NamedRef struct {
	Name string `json:"name"`
}

// BookmakerEntry is one bookmaker's view of a line
type BookmakerEntry struct {
	Odds      string `json:"odds"`
	OverUnder string `json:"overUnder"`
	Available bool   `json:"available"`
}

// FirstEventID resolves the event identifier across its known spellings
func (e *RawEvent) FirstEventID() string {
	return firstNonEmpty(e.EventID, e.ID, e.AltEventID)
}

// FirstLeague resolves the league identifier across its known spellings
func (e *RawEvent) FirstLeague() string {
	return firstNonEmpty(e.LeagueID, e.League)
}

// FirstStartTime resolves the event start timestamp across its known spellings
func (e *RawEvent) FirstStartTime() string {
	statusStart := ""
	if e.Status != nil {
		statusStart = e.Status.StartsAt
	}
	return firstNonEmpty(statusStart, e.Scheduled, e.CommenceTime, e.Date)
}

// HomeAbbr resolves the home team's short identifier, empty when absent
func (e *RawEvent) HomeAbbr() string {
	if e.Teams != nil && e.Teams.Home != nil {
		return e.Teams.Home.abbr()
	}
	return e.HomeTeamName
}

// AwayAbbr resolves the away team's short identifier, empty when absent
func (e *RawEvent) AwayAbbr() string {
	if e.Teams != nil && e.Teams.Away != nil {
		return e.Teams.Away.abbr()
	}
	return e.AwayTeamName
}

func (t *EventTeam) abbr() string {
	short := ""
	if t.Names != nil {
		short = t.Names.Short
	}
	return firstNonEmpty(short, t.Abbreviation, t.Name, t.TeamID)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
