package models

// Player is one row of the canonical players table
type Player struct {
	PlayerID string `json:"player_id"`
	FullName string `json:"full_name"`
	Team     string `json:"team"`
	League   string `json:"league"`
	Position string `json:"position"`
}

// MissingPlayerRecord tracks a name that failed identity resolution. Upserted
// on every placeholder synthesis, deleted once the same normalized name later
// resolves.
type MissingPlayerRecord struct {
	PlayerName     string `json:"player_name"`
	Team           string `json:"team"`
	League         string `json:"league"`
	NormalizedName string `json:"normalized_name"`
	GeneratedID    string `json:"generated_id"`
	FirstSeen      string `json:"first_seen"`
	LastSeen       string `json:"last_seen"`
	Count          int    `json:"count"`
	SampleOddID    string `json:"sample_odd_id"`
}
