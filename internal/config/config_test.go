package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("SPORTSGAMEODDS_API_KEY", "test-api-key")
	t.Setenv("SUPABASE_URL", "https://example.supabase.co")
	t.Setenv("SUPABASE_SERVICE_KEY", "test-service-key")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.sportsgameodds.com/v2", cfg.SGOBaseURL)
	assert.Equal(t, 30*time.Second, cfg.SGOTimeout)
	assert.Equal(t, 250, cfg.StoreBatchSize)
	assert.Equal(t, []string{"nfl", "nba", "mlb", "nhl"}, cfg.Leagues)
	assert.Equal(t, 250, cfg.EventLimit)
	assert.Equal(t, 30*time.Minute, cfg.PlayerMapTTL)
	assert.Equal(t, 5*time.Minute, cfg.TeamRegistryTTL)
	assert.Equal(t, "0 2 * * *", cfg.NightlyIngestCron)
	assert.True(t, cfg.EnableScheduler)
	assert.True(t, cfg.EnableMetrics)
	assert.Equal(t, 9090, cfg.MetricsPort)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_MissingAPIKey(t *testing.T) {
	t.Setenv("SPORTSGAMEODDS_API_KEY", "")
	t.Setenv("SUPABASE_URL", "https://example.supabase.co")
	t.Setenv("SUPABASE_SERVICE_KEY", "test-service-key")

	_, err := Load()
	require.Error(t, err, "Missing API key should fail fast")
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("INGEST_LEAGUES", "nfl,nba")
	t.Setenv("INGEST_SEASON", "2024")
	t.Setenv("STORE_BATCH_SIZE", "100")
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"nfl", "nba"}, cfg.Leagues)
	assert.Equal(t, 2024, cfg.Season(), "Season override should win over the calendar year")
	assert.Equal(t, 100, cfg.StoreBatchSize)
	assert.True(t, cfg.IsProduction())
}

func TestSeason_DefaultsToCurrentYear(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, time.Now().UTC().Year(), cfg.Season())
}

func TestValidate(t *testing.T) {
	valid := &Config{
		SGOAPIKey:       "key",
		StoreURL:        "https://example.supabase.co",
		StoreServiceKey: "service",
		Leagues:         []string{"nfl"},
		StoreBatchSize:  250,
	}
	assert.NoError(t, valid.Validate())

	noLeagues := *valid
	noLeagues.Leagues = nil
	assert.Error(t, noLeagues.Validate(), "Empty league list should be rejected")

	badBatch := *valid
	badBatch.StoreBatchSize = 0
	assert.Error(t, badBatch.Validate(), "Non-positive batch size should be rejected")
}
