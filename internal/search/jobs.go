// Package search holds thin clients for the external discovery providers:
// job postings, mentor profiles and event listings. Each client translates a
// small request struct into the provider's wire format and returns the raw
// result payload for the handler layer to wrap.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// JobQuery narrows a job search. Zero values fall back to the defaults used
// by DefaultJobQuery.
type JobQuery struct {
	Skills   []string `json:"skills"`
	Titles   []string `json:"titles"`
	Location string   `json:"location"`
	Remote   *bool    `json:"remote"`
	Days     int      `json:"days"`
}

// JobSearcher finds job postings matching a query.
type JobSearcher interface {
	SearchJobs(ctx context.Context, q JobQuery) (json.RawMessage, error)
}

// TheirStackClient queries the TheirStack job search API.
type TheirStackClient struct {
	BaseURL string
	APIKey  string
	Client  *http.Client

	// now is swapped in tests to pin the discovery cutoff.
	now func() time.Time
}

// NewTheirStackClient builds a job search client for the given API key.
func NewTheirStackClient(apiKey string) *TheirStackClient {
	return &TheirStackClient{
		BaseURL: "https://api.theirstack.com",
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: 15 * time.Second},
		now:     time.Now,
	}
}

type theirStackFilter struct {
	Page               int      `json:"page"`
	Limit              int      `json:"limit"`
	PostedAtMaxAgeDays int      `json:"posted_at_max_age_days"`
	JobCountryCodeOr   []string `json:"job_country_code_or"`
	JobTitleOr         []string `json:"job_title_or"`
	JobTechnologyOr    []string `json:"job_technology_slug_or"`
	Remote             bool     `json:"remote"`
	DiscoveredAtGte    string   `json:"discovered_at_gte"`
}

type theirStackResp struct {
	Data json.RawMessage `json:"data"`
}

func (c *TheirStackClient) buildFilter(q JobQuery) theirStackFilter {
	location := q.Location
	if location == "" {
		location = "IN"
	}
	remote := true
	if q.Remote != nil {
		remote = *q.Remote
	}
	days := q.Days
	if days <= 0 {
		days = 7
	}
	titles := q.Titles
	if titles == nil {
		titles = []string{}
	}
	skills := q.Skills
	if skills == nil {
		skills = []string{}
	}
	nowFn := c.now
	if nowFn == nil {
		nowFn = time.Now
	}
	return theirStackFilter{
		Page:               0,
		Limit:              10,
		PostedAtMaxAgeDays: days,
		JobCountryCodeOr:   []string{location},
		JobTitleOr:         titles,
		JobTechnologyOr:    skills,
		Remote:             remote,
		DiscoveredAtGte:    nowFn().Add(-24 * time.Hour).UTC().Format(time.RFC3339),
	}
}

// SearchJobs posts the filter derived from q and returns the provider's
// result array.
func (c *TheirStackClient) SearchJobs(ctx context.Context, q JobQuery) (json.RawMessage, error) {
	if c.Client == nil {
		return nil, errors.New("theirstack: http client is nil")
	}
	if strings.TrimSpace(c.APIKey) == "" {
		return nil, errors.New("theirstack: api key is required")
	}

	body, err := json.Marshal(c.buildFilter(q))
	if err != nil {
		return nil, err
	}

	url := strings.TrimRight(c.BaseURL, "/") + "/v1/jobs/search"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

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
		return nil, fmt.Errorf("theirstack: %s", msg)
	}

	var decoded theirStackResp
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, err
	}
	if decoded.Data == nil || string(decoded.Data) == "null" {
		decoded.Data = json.RawMessage("[]")
	}
	return decoded.Data, nil
}
