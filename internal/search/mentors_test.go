package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRapidAPIMentorClient_SearchMentors_Defaults(t *testing.T) {
	var captured map[string]any
	var gotHost, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/search_person", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		gotHost = r.Header.Get("x-rapidapi-host")
		gotKey = r.Header.Get("x-rapidapi-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"response":[{"fullName":"A. Mentor"}]}`))
	}))
	defer srv.Close()

	c := NewRapidAPIMentorClient("rapid-key")
	c.BaseURL = srv.URL

	data, err := c.SearchMentors(context.Background(), MentorQuery{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"response":[{"fullName":"A. Mentor"}]}`, string(data))

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	assert.Equal(t, u.Host, gotHost)
	assert.Equal(t, "rapid-key", gotKey)

	assert.Equal(t, "ml", captured["keywords"])
	assert.Equal(t, "103644278,101728296", captured["geoUrns"])
	assert.Equal(t, float64(10), captured["count"])
}

func TestRapidAPIMentorClient_SearchMentors_CustomQuery(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	c := NewRapidAPIMentorClient("rapid-key")
	c.BaseURL = srv.URL

	_, err := c.SearchMentors(context.Background(), MentorQuery{
		Keywords: "product management",
		GeoUrns:  "90000084",
		Count:    5,
	})
	require.NoError(t, err)

	assert.Equal(t, "product management", captured["keywords"])
	assert.Equal(t, "90000084", captured["geoUrns"])
	assert.Equal(t, float64(5), captured["count"])
}

func TestRapidAPIMentorClient_SearchMentors_Errors(t *testing.T) {
	t.Run("missing api key", func(t *testing.T) {
		c := NewRapidAPIMentorClient("")
		_, err := c.SearchMentors(context.Background(), MentorQuery{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "api key")
	})

	t.Run("provider failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"message":"rate limited"}`))
		}))
		defer srv.Close()

		c := NewRapidAPIMentorClient("rapid-key")
		c.BaseURL = srv.URL
		_, err := c.SearchMentors(context.Background(), MentorQuery{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rate limited")
	})
}
