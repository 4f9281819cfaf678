package models

// TeamInfo is one entry in a league's team registry
type TeamInfo struct {
	Name    string   `json:"name"`
	Abbr    string   `json:"abbr"`
	Logo    string   `json:"logo_url"`
	Aliases []string `json:"aliases"`
}
