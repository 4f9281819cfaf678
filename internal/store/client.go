package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Client speaks the persistence collaborator's REST convention: one resource
// per table, header-based auth, merge-duplicates upsert via the Prefer header,
// and an empty response body meaning success.
type Client struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

// NewClient creates a REST store client
func NewClient(baseURL, serviceKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
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

// Get fetches rows from a table resource and decodes them into out
func (c *Client) Get(ctx context.Context, table, query string, out interface{}) error {
	body, err := c.do(ctx, http.MethodGet, table, query, nil, nil)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", table, err)
	}
	return nil
}

// Upsert posts rows against a table resource, merging duplicates on the given
// conflict column(s). An empty response body is the collaborator's success
// convention, not an error.
func (c *Client) Upsert(ctx context.Context, table, onConflict string, rows interface{}) error {
	payload, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to encode %s rows: %w", table, err)
	}

	query := ""
	if onConflict != "" {
		query = "on_conflict=" + onConflict
	}
	headers := map[string]string{
		"Prefer":       "resolution=merge-duplicates",
		"Content-Type": "application/json",
	}

	if _, err := c.do(ctx, http.MethodPost, table, query, payload, headers); err != nil {
		return err
	}
	return nil
}

// Delete removes rows matching a filter query from a table resource
func (c *Client) Delete(ctx context.Context, table, query string) error {
	_, err := c.do(ctx, http.MethodDelete, table, query, nil, nil)
	return err
}

func (c *Client) do(ctx context.Context, method, table, query string, payload []byte, headers map[string]string) ([]byte, error) {
	url := fmt.Sprintf("%s/rest/v1/%s", c.baseURL, table)
	if query != "" {
		url += "?" + query
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	log.Debug().
		Str("method", method).
		Str("table", table).
		Msg("Store request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("store request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read store response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("store returned status %d for %s %s: %s", resp.StatusCode, method, table, string(body))
	}

	return body, nil
}
