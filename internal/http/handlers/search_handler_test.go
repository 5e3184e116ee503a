package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careermate/go-career-backend/internal/search"
)

type fakeJobSearcher struct {
	got  search.JobQuery
	data json.RawMessage
	err  error
}

func (f *fakeJobSearcher) SearchJobs(_ context.Context, q search.JobQuery) (json.RawMessage, error) {
	f.got = q
	return f.data, f.err
}

type fakeMentorSearcher struct {
	got  search.MentorQuery
	data json.RawMessage
	err  error
}

func (f *fakeMentorSearcher) SearchMentors(_ context.Context, q search.MentorQuery) (json.RawMessage, error) {
	f.got = q
	return f.data, f.err
}

type fakeEventSearcher struct {
	got  search.EventQuery
	data json.RawMessage
	err  error
}

func (f *fakeEventSearcher) SearchEvents(_ context.Context, q search.EventQuery) (json.RawMessage, error) {
	f.got = q
	return f.data, f.err
}

func searchRouter(jobs *fakeJobSearcher, mentors *fakeMentorSearcher, events *fakeEventSearcher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := New(Deps{Jobs: jobs, Mentors: mentors, Events: events})

	r := gin.New()
	r.POST("/jobs/search", h.SearchJobs)
	r.POST("/mentors/search", h.SearchMentors)
	r.POST("/events/getevents", h.SearchEvents)
	return r
}

func TestSearchJobs(t *testing.T) {
	jobs := &fakeJobSearcher{data: json.RawMessage(`[{"job_title":"ML Engineer"}]`)}
	r := searchRouter(jobs, &fakeMentorSearcher{}, &fakeEventSearcher{})

	w := postJSON(r, "/jobs/search", gin.H{"titles": []string{"ML Engineer"}, "location": "US"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":[{"job_title":"ML Engineer"}]}`, w.Body.String())
	assert.Equal(t, []string{"ML Engineer"}, jobs.got.Titles)
	assert.Equal(t, "US", jobs.got.Location)
}

func TestSearchJobs_UpstreamFailure(t *testing.T) {
	jobs := &fakeJobSearcher{err: errors.New("quota exhausted")}
	r := searchRouter(jobs, &fakeMentorSearcher{}, &fakeEventSearcher{})

	w := postJSON(r, "/jobs/search", gin.H{}, nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	// The wrapper hides upstream details from the client.
	assert.JSONEq(t, `{"success":false,"error":"Failed to fetch jobs"}`, w.Body.String())
}

func TestSearchMentors(t *testing.T) {
	mentors := &fakeMentorSearcher{data: json.RawMessage(`{"response":[]}`)}
	r := searchRouter(&fakeJobSearcher{}, mentors, &fakeEventSearcher{})

	w := postJSON(r, "/mentors/search", gin.H{"keywords": "fintech", "count": 5}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"response":[]}}`, w.Body.String())
	assert.Equal(t, "fintech", mentors.got.Keywords)
	assert.Equal(t, 5, mentors.got.Count)
}

func TestSearchMentors_UpstreamFailure(t *testing.T) {
	mentors := &fakeMentorSearcher{err: errors.New("429")}
	r := searchRouter(&fakeJobSearcher{}, mentors, &fakeEventSearcher{})

	w := postJSON(r, "/mentors/search", gin.H{}, nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"Failed to fetch LinkedIn data"}`, w.Body.String())
}

func TestSearchEvents(t *testing.T) {
	events := &fakeEventSearcher{data: json.RawMessage(`[{"title":"Career Fair"}]`)}
	r := searchRouter(&fakeJobSearcher{}, &fakeMentorSearcher{}, events)

	w := postJSON(r, "/events/getevents", gin.H{"q": "Hackathons in Pune"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":[{"title":"Career Fair"}]}`, w.Body.String())
	assert.Equal(t, "Hackathons in Pune", events.got.Q)
}

func TestSearchEvents_UpstreamFailure(t *testing.T) {
	events := &fakeEventSearcher{err: errors.New("boom")}
	r := searchRouter(&fakeJobSearcher{}, &fakeMentorSearcher{}, events)

	w := postJSON(r, "/events/getevents", gin.H{}, nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"Failed to fetch events"}`, w.Body.String())
}
