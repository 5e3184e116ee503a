// Search proxy HTTP handlers.
//
//   - POST /jobs/search      (TheirStack job postings)
//   - POST /mentors/search   (LinkedIn profiles via RapidAPI)
//   - POST /events/getevents (Google Events via SerpApi)
//
// These endpoints keep the {success,data}/{success,error} wrapper the
// frontend already consumes, instead of the ErrorResponse envelope used by
// the rest of the API. Each proxy makes a single upstream call and forwards
// the first page of results unmodified.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/careermate/go-career-backend/internal/http/middleware"
	"github.com/careermate/go-career-backend/internal/search"
)

// SearchResponse wraps a successful proxy result.
type SearchResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

// SearchErrorResponse wraps a proxy failure.
type SearchErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func searchFail(c *gin.Context, msg string) {
	middleware.LoggerFrom(c).Error().Str("message", msg).Msg("search proxy error")
	c.AbortWithStatusJSON(http.StatusInternalServerError, SearchErrorResponse{Success: false, Error: msg})
}

// SearchJobs godoc
// @ID          searchJobs
// @Summary     Search job postings
// @Description Proxies a single-page TheirStack search. Defaults: India, remote, postings from the last week discovered within 24h.
// @Tags        Search
// @Accept      json
// @Produce     json
//
// @Param       body  body  search.JobQuery  true  "Job filters"
//
// @Success     200  {object}  handlers.SearchResponse
// @Failure     500  {object}  handlers.SearchErrorResponse
// @Router      /jobs/search [post]
func (h *Handlers) SearchJobs(c *gin.Context) {
	var q search.JobQuery
	if err := c.ShouldBindJSON(&q); err != nil && !errors.Is(err, io.EOF) {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	data, err := h.jobs.SearchJobs(c.Request.Context(), q)
	if err != nil {
		searchFail(c, "Failed to fetch jobs")
		return
	}
	ok(c, http.StatusOK, SearchResponse{Success: true, Data: data})
}

// SearchMentors godoc
// @ID          searchMentors
// @Summary     Search mentor profiles
// @Description Proxies a single LinkedIn person search via RapidAPI. Defaults: "ml" keyword, India geo regions, ten results.
// @Tags        Search
// @Accept      json
// @Produce     json
//
// @Param       body  body  search.MentorQuery  true  "Mentor filters"
//
// @Success     200  {object}  handlers.SearchResponse
// @Failure     500  {object}  handlers.SearchErrorResponse
// @Router      /mentors/search [post]
func (h *Handlers) SearchMentors(c *gin.Context) {
	var q search.MentorQuery
	if err := c.ShouldBindJSON(&q); err != nil && !errors.Is(err, io.EOF) {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	data, err := h.mentors.SearchMentors(c.Request.Context(), q)
	if err != nil {
		searchFail(c, "Failed to fetch LinkedIn data")
		return
	}
	ok(c, http.StatusOK, SearchResponse{Success: true, Data: data})
}

// SearchEvents godoc
// @ID          searchEvents
// @Summary     Search upcoming events
// @Description Proxies a single SerpApi google_events search. Default query "Events in India".
// @Tags        Search
// @Accept      json
// @Produce     json
//
// @Param       body  body  search.EventQuery  true  "Event filters"
//
// @Success     200  {object}  handlers.SearchResponse
// @Failure     500  {object}  handlers.SearchErrorResponse
// @Router      /events/getevents [post]
func (h *Handlers) SearchEvents(c *gin.Context) {
	var q search.EventQuery
	if err := c.ShouldBindJSON(&q); err != nil && !errors.Is(err, io.EOF) {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	data, err := h.events.SearchEvents(c.Request.Context(), q)
	if err != nil {
		searchFail(c, "Failed to fetch events")
		return
	}
	ok(c, http.StatusOK, SearchResponse{Success: true, Data: data})
}
