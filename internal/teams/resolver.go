// Package teams resolves raw team identifiers to canonical abbreviations,
// combining static alias tables with a per-league registry cached for a short
// TTL. Resolution is total: unknown names come back as "UNK", never an error.
package teams

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"statpedia/ingestion/internal/models"

	"github.com/rs/zerolog/log"
)

// Unknown is the sentinel abbreviation for unresolvable teams
const Unknown = "UNK"

// DefaultTTL is how long one league's dynamic registry stays fresh
const DefaultTTL = 5 * time.Minute

// RegistrySource loads the dynamic team registry for one league
type RegistrySource interface {
	ListByLeague(ctx context.Context, league string) ([]models.TeamInfo, error)
}

// registryCache is one league's loaded registry with its load timestamp
type registryCache struct {
	value        map[string]string // alias -> abbreviation
	lastLoadedAt time.Time
}

// Resolver maps team names to abbreviations for all configured leagues
type Resolver struct {
	source RegistrySource
	ttl    time.Duration

	mu       sync.Mutex
	byLeague map[string]*registryCache
}

// NewResolver creates a resolver backed by the given registry source. A nil
// source leaves only the static tables.
func NewResolver(source RegistrySource, ttl time.Duration) *Resolver {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Resolver{
		source:   source,
		ttl:      ttl,
		byLeague: make(map[string]*registryCache),
	}
}

// NormalizeTeam resolves a raw team name to its abbreviation. Strategy order,
// first hit wins: exact match, case-insensitive match, already-an-abbreviation,
// nickname (trailing word), city prefix (leading word), bidirectional partial
// match. Returns Unknown when every strategy misses.
func (r *Resolver) NormalizeTeam(ctx context.Context, league, rawName string) string {
	if rawName == "" {
		return Unknown
	}
	name := strings.Join(strings.Fields(rawName), " ")

	table := staticTable(league)
	for alias, abbr := range r.registry(ctx, league) {
		if _, exists := table[alias]; !exists {
			table[alias] = abbr
		}
	}
	if len(table) == 0 {
		return Unknown
	}

	// Alias scans iterate in sorted order so ties resolve the same way on
	// every run.
	aliases := make([]string, 0, len(table))
	for alias := range table {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)

	if abbr, ok := table[name]; ok {
		return abbr
	}

	lower := strings.ToLower(name)
	for _, alias := range aliases {
		if strings.ToLower(alias) == lower {
			return table[alias]
		}
	}

	upper := strings.ToUpper(name)
	for _, alias := range aliases {
		if table[alias] == upper {
			return upper
		}
	}

	tokens := strings.Split(name, " ")
	nickname := strings.ToLower(tokens[len(tokens)-1])
	if nickname != "" {
		for _, alias := range aliases {
			if strings.HasSuffix(strings.ToLower(alias), nickname) {
				return table[alias]
			}
		}
	}

	city := strings.ToLower(tokens[0])
	if city != "" {
		for _, alias := range aliases {
			if strings.HasPrefix(strings.ToLower(alias), city) {
				return table[alias]
			}
		}
	}

	for _, alias := range aliases {
		aliasLower := strings.ToLower(alias)
		if strings.Contains(aliasLower, lower) || strings.Contains(lower, aliasLower) {
			return table[alias]
		}
	}

	return Unknown
}

// EnrichInput carries the per-prop hints available for team attribution
type EnrichInput struct {
	PlayerTeamAbbr string // from the event's player directory
	PropTeam       string // team field on the odds entry, any spelling
	PlayerTeamID   string // raw upstream team identifier for the player
	HomeAbbr       string
	AwayAbbr       string
}

// Enrich attributes a prop to a team and opponent. Preference order: the
// player directory's registry entry, the prop-supplied team field, a raw-id
// match against the home/away identifiers, then the event home team. The
// opponent is the other side of the event once a side is chosen.
func (r *Resolver) Enrich(ctx context.Context, league string, in EnrichInput) (team, opponent string) {
	home := r.NormalizeTeam(ctx, league, in.HomeAbbr)
	away := r.NormalizeTeam(ctx, league, in.AwayAbbr)

	team = Unknown
	switch {
	case in.PlayerTeamAbbr != "":
		team = r.NormalizeTeam(ctx, league, in.PlayerTeamAbbr)
	case in.PropTeam != "":
		team = r.NormalizeTeam(ctx, league, in.PropTeam)
	}

	if team == Unknown && in.PlayerTeamID != "" {
		id := strings.ToUpper(in.PlayerTeamID)
		switch {
		case home != Unknown && strings.Contains(id, home):
			team = home
		case away != Unknown && strings.Contains(id, away):
			team = away
		}
	}

	if team == Unknown {
		team = home
	}

	switch team {
	case home:
		opponent = away
	case away:
		opponent = home
	default:
		opponent = Unknown
	}
	if opponent == "" {
		opponent = Unknown
	}
	return team, opponent
}

// registry returns the dynamic aliases for a league, reloading past the TTL.
// Load failures keep the stale value (or an empty map) and are never surfaced.
func (r *Resolver) registry(ctx context.Context, league string) map[string]string {
	if r.source == nil {
		return nil
	}
	key := normalizeLeague(league)

	r.mu.Lock()
	defer r.mu.Unlock()

	cached, ok := r.byLeague[key]
	if ok && time.Since(cached.lastLoadedAt) < r.ttl {
		return cached.value
	}

	infos, err := r.source.ListByLeague(ctx, key)
	if err != nil {
		log.Warn().
			Err(err).
			Str("league", key).
			Msg("Team registry load failed, using static tables")
		if ok {
			return cached.value
		}
		r.byLeague[key] = &registryCache{value: map[string]string{}, lastLoadedAt: time.Now()}
		return nil
	}

	value := make(map[string]string, len(infos))
	for _, info := range infos {
		if info.Abbr == "" {
			continue
		}
		if info.Name != "" {
			value[info.Name] = info.Abbr
		}
		value[info.Abbr] = info.Abbr
		for _, alias := range info.Aliases {
			if alias != "" {
				value[alias] = info.Abbr
			}
		}
	}

	r.byLeague[key] = &registryCache{value: value, lastLoadedAt: time.Now()}
	log.Debug().
		Str("league", key).
		Int("aliases", len(value)).
		Msg("Team registry reloaded")
	return value
}

func normalizeLeague(league string) string {
	return strings.ToLower(strings.TrimSpace(league))
}
