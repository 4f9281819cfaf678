package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"statpedia/ingestion/internal/metrics"
	"statpedia/ingestion/internal/models"

	"github.com/rs/zerolog/log"
)

// DefaultEventLimit is the per-request event cap sent upstream
const DefaultEventLimit = 250

// Client is the SportsGameOdds events API client
type Client struct {
	baseURL     string
	apiKey      string
	httpClient  *http.Client
	rateLimiter chan struct{} // Rate limiting semaphore
	maxRetries  int
	retryDelay  time.Duration
}

// NewClient creates a new events API client with rate limiting and retries
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	// Max 20 concurrent requests
	rateLimiter := make(chan struct{}, 20)
	for i := 0; i < 20; i++ {
		rateLimiter <- struct{}{}
	}

	return &Client{
		baseURL:     baseURL,
		apiKey:      apiKey,
		rateLimiter: rateLimiter,
		maxRetries:  3,
		retryDelay:  1 * time.Second,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// EventsQuery parameterizes one events request. Zero values are omitted.
type EventsQuery struct {
	LeagueID      string
	Season        int
	DateFrom      string
	DateTo        string
	OddsAvailable bool
	OddIDs        string
	Limit         int
}

// FetchEvents fetches events with player prop odds for one query. The
// upstream wraps the array in {data: [...]} on some endpoints and returns it
// bare on others; both decode to the same slice.
func (c *Client) FetchEvents(ctx context.Context, q EventsQuery) ([]models.RawEvent, error) {
	params := map[string]string{
		"leagueID": q.LeagueID,
	}
	if q.Season != 0 {
		params["season"] = strconv.Itoa(q.Season)
	}
	if q.DateFrom != "" {
		params["dateFrom"] = q.DateFrom
	}
	if q.DateTo != "" {
		params["dateTo"] = q.DateTo
	}
	if q.OddsAvailable {
		params["oddsAvailable"] = "true"
	}
	if q.OddIDs != "" {
		params["oddIDs"] = q.OddIDs
	}
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultEventLimit
	}
	params["limit"] = strconv.Itoa(limit)

	start := time.Now()
	body, err := c.get(ctx, "events", params)
	if err != nil {
		metrics.RecordAPICall("events", "error", time.Since(start).Seconds())
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}
	metrics.RecordAPICall("events", "success", time.Since(start).Seconds())

	events, err := decodeEvents(body)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal events: %w", err)
	}
	return events, nil
}

func decodeEvents(body []byte) ([]models.RawEvent, error) {
	var events []models.RawEvent
	if err := json.Unmarshal(body, &events); err == nil {
		return events, nil
	}

	var wrapped struct {
		Data []models.RawEvent `json:"data"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, err
	}
	return wrapped.Data, nil
}

// get performs a GET request with retry logic and rate limiting
func (c *Client) get(ctx context.Context, path string, params map[string]string) ([]byte, error) {
	url := fmt.Sprintf("%s/%s", c.baseURL, path)

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff: 1s, 2s, 4s
			backoff := c.retryDelay * time.Duration(1<<uint(attempt-1))
			log.Info().
				Str("url", url).
				Int("attempt", attempt).
				Dur("backoff", backoff).
				Msg("Retrying API request after backoff")

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		body, retryable, err := c.doOnce(ctx, url, params, attempt)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable || attempt == c.maxRetries {
			return nil, lastErr
		}
	}

	return nil, lastErr
}

// doOnce performs a single request attempt, holding the rate-limit slot for
// its duration
func (c *Client) doOnce(ctx context.Context, url string, params map[string]string, attempt int) (body []byte, retryable bool, err error) {
	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case <-c.rateLimiter:
		defer func() { c.rateLimiter <- struct{}{} }()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "statpedia-ingestion/1.0")

	if len(params) > 0 {
		q := req.URL.Query()
		for key, value := range params {
			q.Add(key, value)
		}
		req.URL.RawQuery = q.Encode()
	}

	log.Debug().
		Str("url", url).
		Int("attempt", attempt+1).
		Msg("Making API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Network errors are retryable
		return nil, true, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("failed to read response body: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		log.Debug().
			Str("url", url).
			Int("status", resp.StatusCode).
			Int("size", len(body)).
			Msg("API request successful")
		return body, false, nil

	case http.StatusTooManyRequests, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		log.Warn().
			Str("url", url).
			Int("status", resp.StatusCode).
			Int("attempt", attempt+1).
			Msg("Received retryable error, will retry")
		return nil, true, fmt.Errorf("API returned retryable status %d: %s", resp.StatusCode, string(body))

	case http.StatusUnauthorized, http.StatusForbidden:
		// Don't retry auth errors
		return nil, false, fmt.Errorf("API authentication failed (status %d): %s", resp.StatusCode, string(body))

	default:
		return nil, false, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}
}
