package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the ingestion service

var (
	// API call metrics
	APICallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "props_api_calls_total",
			Help: "Total number of upstream API calls",
		},
		[]string{"endpoint", "status"},
	)

	APICallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "props_api_call_duration_seconds",
			Help:    "Duration of upstream API calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// Fallback ladder metrics
	FetchTiersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "props_fetch_tiers_total",
			Help: "Fallback ladder tier outcomes",
		},
		[]string{"league", "tier", "outcome"},
	)

	LadderExhaustedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "props_ladder_exhausted_total",
			Help: "Runs where every fallback tier came back empty",
		},
		[]string{"league"},
	)

	// Extraction and mapping metrics
	PropsExtractedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "props_extracted_total",
			Help: "Extracted prop records",
		},
		[]string{"league"},
	)

	PropsSkippedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "props_skipped_total",
			Help: "Odds entries skipped during extraction",
		},
		[]string{"league"},
	)

	UnmappedMarketsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "props_unmapped_markets_total",
			Help: "Market labels passed through without a dictionary hit",
		},
		[]string{"league"},
	)

	MissingPlayersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "props_missing_players_total",
			Help: "Identity resolutions that fell through to a placeholder id",
		},
		[]string{"league"},
	)

	PlayerMapSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "props_player_map_size",
			Help: "Name mappings in the loaded player identity map",
		},
	)

	// Persistence metrics
	ValidationErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "props_validation_errors_total",
			Help: "Records rejected before persistence",
		},
	)

	RowsPersistedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "props_rows_persisted_total",
			Help: "Rows upserted per table and outcome",
		},
		[]string{"table", "status"},
	)

	// Run metrics
	IngestionRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "props_ingestion_runs_total",
			Help: "Completed ingestion runs",
		},
		[]string{"league", "status"},
	)

	IngestionRunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "props_ingestion_run_duration_seconds",
			Help:    "Duration of ingestion runs in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"league"},
	)

	LastSuccessfulRun = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "props_last_successful_run_timestamp",
			Help: "Timestamp of the last successful ingestion run",
		},
	)

	// System metrics
	SystemUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "props_system_uptime_seconds",
			Help: "System uptime in seconds",
		},
	)
)

// RecordAPICall records an upstream API call
func RecordAPICall(endpoint, status string, duration float64) {
	APICallsTotal.WithLabelValues(endpoint, status).Inc()
	APICallDuration.WithLabelValues(endpoint).Observe(duration)
}

// RecordFetchTier records one fallback-tier outcome
func RecordFetchTier(league string, tier int, outcome string) {
	FetchTiersTotal.WithLabelValues(league, strconv.Itoa(tier), outcome).Inc()
}

// RecordLadderExhausted records a fully empty ladder walk
func RecordLadderExhausted(league string) {
	LadderExhaustedTotal.WithLabelValues(league).Inc()
}

// RecordPropExtracted records an emitted prop
func RecordPropExtracted(league string) {
	PropsExtractedTotal.WithLabelValues(league).Inc()
}

// RecordPropSkipped records a skipped odds entry
func RecordPropSkipped(league string) {
	PropsSkippedTotal.WithLabelValues(league).Inc()
}

// RecordUnmappedMarket records a passthrough market label
func RecordUnmappedMarket(league string) {
	UnmappedMarketsTotal.WithLabelValues(league).Inc()
}

// RecordMissingPlayer records a placeholder identity resolution
func RecordMissingPlayer(league string) {
	MissingPlayersTotal.WithLabelValues(league).Inc()
}

// RecordValidationError records a record rejected before persistence
func RecordValidationError() {
	ValidationErrorsTotal.Inc()
}

// RecordPersistence records one batch outcome
func RecordPersistence(table, status string, rows int) {
	RowsPersistedTotal.WithLabelValues(table, status).Add(float64(rows))
}

// RecordIngestionRun records a completed run
func RecordIngestionRun(league, status string, duration float64) {
	IngestionRunsTotal.WithLabelValues(league, status).Inc()
	IngestionRunDuration.WithLabelValues(league).Observe(duration)

	if status == "success" {
		LastSuccessfulRun.SetToCurrentTime()
	}
}
