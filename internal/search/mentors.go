package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// MentorQuery narrows a mentor profile search. Empty fields fall back to the
// provider defaults (machine-learning keyword, India geo regions, ten
// results).
type MentorQuery struct {
	Keywords string `json:"keywords"`
	GeoUrns  string `json:"geoUrns"`
	Count    int    `json:"count"`
}

// MentorSearcher finds professional profiles suitable as mentors.
type MentorSearcher interface {
	SearchMentors(ctx context.Context, q MentorQuery) (json.RawMessage, error)
}

// RapidAPIMentorClient queries the LinkedIn data scraper hosted on RapidAPI.
type RapidAPIMentorClient struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewRapidAPIMentorClient builds a mentor search client for the given
// RapidAPI key.
func NewRapidAPIMentorClient(apiKey string) *RapidAPIMentorClient {
	return &RapidAPIMentorClient{
		BaseURL: "https://linkedin-data-scraper.p.rapidapi.com",
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type mentorSearchReq struct {
	Keywords string `json:"keywords"`
	GeoUrns  string `json:"geoUrns"`
	Count    int    `json:"count"`
}

// SearchMentors posts the person search and returns the provider's response
// body unmodified.
func (c *RapidAPIMentorClient) SearchMentors(ctx context.Context, q MentorQuery) (json.RawMessage, error) {
	if c.Client == nil {
		return nil, errors.New("rapidapi: http client is nil")
	}
	if strings.TrimSpace(c.APIKey) == "" {
		return nil, errors.New("rapidapi: api key is required")
	}

	payload := mentorSearchReq{
		Keywords: q.Keywords,
		GeoUrns:  q.GeoUrns,
		Count:    q.Count,
	}
	if payload.Keywords == "" {
		payload.Keywords = "ml"
	}
	if payload.GeoUrns == "" {
		payload.GeoUrns = "103644278,101728296"
	}
	if payload.Count <= 0 {
		payload.Count = 10
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	endpoint := strings.TrimRight(c.BaseURL, "/") + "/search_person"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	host := ""
	if u, uerr := url.Parse(c.BaseURL); uerr == nil {
		host = u.Host
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-rapidapi-host", host)
	req.Header.Set("x-rapidapi-key", c.APIKey)

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
		return nil, fmt.Errorf("rapidapi: %s", msg)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}
