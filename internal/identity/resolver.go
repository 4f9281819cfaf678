// Package identity resolves player display names to canonical player ids via
// a TTL-cached name map, with fuzzy fallback and placeholder synthesis.
// Resolution is total: every name yields an id, never an error.
package identity

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"statpedia/ingestion/internal/metrics"
	"statpedia/ingestion/internal/models"
	"statpedia/ingestion/internal/names"

	"github.com/rs/zerolog/log"
)

// DefaultTTL is how long a loaded player map stays fresh
const DefaultTTL = 30 * time.Minute

const bookkeepingTimeout = 10 * time.Second

// PlayerSource bulk-loads all known players
type PlayerSource interface {
	List(ctx context.Context) ([]models.Player, error)
}

// MissingSink records and clears missing-player bookkeeping rows
type MissingSink interface {
	Upsert(ctx context.Context, rec *models.MissingPlayerRecord) error
	DeleteByNormalizedName(ctx context.Context, normalizedName string) error
}

// Cache is an explicit name-map cache passed by reference into the resolver,
// so tests and independent pipelines can hold their own instances. It is
// rebuilt wholesale on expiry, never partially invalidated.
type Cache struct {
	mu           sync.Mutex
	value        map[string]string
	sortedKeys   []string
	lastLoadedAt time.Time
	ttl          time.Duration
}

// NewCache creates an empty, expired cache with the given TTL
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{ttl: ttl}
}

// Resolver maps player names to canonical ids
type Resolver struct {
	players PlayerSource
	missing MissingSink
	cache   *Cache
}

// NewResolver creates a resolver over the given collaborators and cache
func NewResolver(players PlayerSource, missing MissingSink, cache *Cache) *Resolver {
	return &Resolver{players: players, missing: missing, cache: cache}
}

// Resolve maps a player name to a canonical id: exact lookup of the
// normalized name, then a fuzzy bidirectional-substring pass over the cached
// keys, then a synthesized placeholder. sampleOddID is carried into the
// missing-player record when a placeholder is emitted.
func (r *Resolver) Resolve(ctx context.Context, playerName, team, league, sampleOddID string) string {
	r.ensureFresh(ctx)

	normalized := names.Normalize(playerName)

	r.cache.mu.Lock()
	id, ok := r.cache.value[normalized]
	if !ok && normalized != "" {
		// Keys are scanned in sorted order so the first fuzzy hit is the
		// same on every run.
		for _, key := range r.cache.sortedKeys {
			if strings.Contains(key, normalized) || strings.Contains(normalized, key) {
				id = r.cache.value[key]
				ok = true
				log.Debug().
					Str("player", playerName).
					Str("matched_key", key).
					Str("player_id", id).
					Msg("Fuzzy player match")
				break
			}
		}
	}
	r.cache.mu.Unlock()

	if ok {
		go r.clearMissing(normalized)
		return id
	}

	placeholder := PlaceholderID(playerName, team)
	metrics.RecordMissingPlayer(league)
	log.Warn().
		Str("player", playerName).
		Str("team", team).
		Str("league", league).
		Str("generated_id", placeholder).
		Msg("Player unresolved, using placeholder id")

	go r.recordMissing(playerName, team, league, normalized, placeholder, sampleOddID)
	return placeholder
}

var placeholderStrip = regexp.MustCompile(`[^\w\s]`)

// PlaceholderID synthesizes a canonical-id-shaped string for an unresolved
// name. The -UNK- infix keeps placeholders distinguishable from verified ids.
func PlaceholderID(playerName, team string) string {
	name := strings.ToUpper(playerName)
	name = placeholderStrip.ReplaceAllString(name, "")
	name = strings.Join(strings.Fields(name), "_")
	return fmt.Sprintf("%s-UNK-%s", name, team)
}

// ensureFresh rebuilds the cache wholesale once it is older than its TTL.
// A failed load degrades to an empty map so resolution falls through to
// placeholders instead of failing the run.
func (r *Resolver) ensureFresh(ctx context.Context) {
	r.cache.mu.Lock()
	defer r.cache.mu.Unlock()

	if r.cache.value != nil && time.Since(r.cache.lastLoadedAt) < r.cache.ttl {
		return
	}

	players, err := r.players.List(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Player map load failed, degrading to placeholders")
		r.cache.value = map[string]string{}
		r.cache.sortedKeys = nil
		r.cache.lastLoadedAt = time.Now()
		return
	}

	value := make(map[string]string, len(players)*2)
	loaded := 0
	skipped := 0
	for _, p := range players {
		if p.FullName == "" || p.PlayerID == "" {
			skipped++
			continue
		}
		primary := names.Normalize(p.FullName)
		value[primary] = p.PlayerID
		loaded++

		// Variations are first-writer-wins so a common surname never
		// steals an earlier player's mapping.
		for _, variation := range names.Variations(p.FullName) {
			if variation == primary {
				continue
			}
			if _, exists := value[variation]; !exists {
				value[variation] = p.PlayerID
			}
		}
	}

	keys := make([]string, 0, len(value))
	for k := range value {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	r.cache.value = value
	r.cache.sortedKeys = keys
	r.cache.lastLoadedAt = time.Now()
	metrics.PlayerMapSize.Set(float64(len(value)))

	log.Info().
		Int("players", loaded).
		Int("skipped", skipped).
		Int("mappings", len(value)).
		Msg("Player map rebuilt")
}

// recordMissing upserts a missing-player row off the request path
func (r *Resolver) recordMissing(playerName, team, league, normalized, generatedID, sampleOddID string) {
	if r.missing == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), bookkeepingTimeout)
	defer cancel()

	now := time.Now().UTC().Format(time.RFC3339)
	rec := &models.MissingPlayerRecord{
		PlayerName:     playerName,
		Team:           team,
		League:         league,
		NormalizedName: normalized,
		GeneratedID:    generatedID,
		FirstSeen:      now,
		LastSeen:       now,
		Count:          1,
		SampleOddID:    sampleOddID,
	}
	if err := r.missing.Upsert(ctx, rec); err != nil {
		log.Debug().Err(err).Str("player", playerName).Msg("Missing-player upsert failed")
	}
}

// clearMissing deletes a resolved name's missing-player row, if any
func (r *Resolver) clearMissing(normalized string) {
	if r.missing == nil || normalized == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), bookkeepingTimeout)
	defer cancel()

	if err := r.missing.DeleteByNormalizedName(ctx, normalized); err != nil {
		log.Debug().Err(err).Str("normalized_name", normalized).Msg("Missing-player delete failed")
	}
}
