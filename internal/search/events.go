package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// EventQuery narrows an event search. An empty query text falls back to
// "Events in India".
type EventQuery struct {
	Q string `json:"q"`
}

// EventSearcher finds upcoming events matching a query.
type EventSearcher interface {
	SearchEvents(ctx context.Context, q EventQuery) (json.RawMessage, error)
}

// SerpAPIEventClient queries SerpApi's google_events engine.
type SerpAPIEventClient struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewSerpAPIEventClient builds an event search client for the given API key.
func NewSerpAPIEventClient(apiKey string) *SerpAPIEventClient {
	return &SerpAPIEventClient{
		BaseURL: "https://serpapi.com",
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type serpAPIResp struct {
	EventsResults json.RawMessage `json:"events_results"`
}

// SearchEvents issues the search and returns the events_results array.
func (c *SerpAPIEventClient) SearchEvents(ctx context.Context, q EventQuery) (json.RawMessage, error) {
	if c.Client == nil {
		return nil, errors.New("serpapi: http client is nil")
	}
	if strings.TrimSpace(c.APIKey) == "" {
		return nil, errors.New("serpapi: api key is required")
	}

	query := q.Q
	if query == "" {
		query = "Events in India"
	}

	params := url.Values{}
	params.Set("engine", "google_events")
	params.Set("q", query)
	params.Set("location", "india")
	params.Set("num", strconv.Itoa(10))
	params.Set("timeframe", strconv.Itoa(365))
	params.Set("api_key", c.APIKey)

	endpoint := strings.TrimRight(c.BaseURL, "/") + "/search?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
		msg := strings.TrimSpace(string(raw))
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("serpapi: %s", msg)
	}

	var decoded serpAPIResp
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, err
	}
	if decoded.EventsResults == nil || string(decoded.EventsResults) == "null" {
		decoded.EventsResults = json.RawMessage("[]")
	}
	return decoded.EventsResults, nil
}
