// Feedback HTTP handlers.
//
// Feedback threads behave like chat sessions (resolved upstream via the
// feedback-id header) but reply with a fixed acknowledgement and can be
// classified after the fact:
//   - POST  /feedback/feedback               (send a message)
//   - GET   /feedback/feedback/:id           (fetch one thread)
//   - PATCH /feedback/feedback/:id/category  (classify)
//   - GET   /feedback/Userfeedback           (list own threads)
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/careermate/go-career-backend/internal/domain"
	"github.com/careermate/go-career-backend/internal/http/middleware"
	"github.com/careermate/go-career-backend/internal/services"
)

// FeedbackMessageRequest is the JSON payload for sending a feedback message.
type FeedbackMessageRequest struct {
	Message string `json:"message" example:"The job results were outdated"`
}

// FeedbackMessageResponse echoes the resolved feedback id and the fixed
// acknowledgement.
type FeedbackMessageResponse struct {
	FeedbackID  string `json:"feedbackId"`
	BotResponse string `json:"botResponse"`
}

// ClassifyFeedbackRequest sets the category and optional details on a thread.
type ClassifyFeedbackRequest struct {
	Category string `json:"category" binding:"required" example:"inaccurate"`
	Details  string `json:"details" example:"listed roles closed months ago"`
}

// FeedbackResponse is one feedback thread with its classification.
type FeedbackResponse struct {
	FeedbackID   string           `json:"feedbackId"`
	Conversation []domain.Message `json:"conversation"`
	Category     string           `json:"category,omitempty"`
	Details      string           `json:"details,omitempty"`
	CreatedAt    string           `json:"createdAt"`
}

func feedbackView(v *services.ConversationView) FeedbackResponse {
	return FeedbackResponse{
		FeedbackID:   v.Conversation.ID,
		Conversation: v.Messages,
		Category:     v.Conversation.Category,
		Details:      v.Conversation.Details,
		CreatedAt:    v.Conversation.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z"),
	}
}

// PostFeedbackMessage godoc
// @ID          postFeedbackMessage
// @Summary     Send a feedback message
// @Description Appends the message to the resolved feedback thread and returns the fixed acknowledgement.
// @Tags        Feedback
// @Accept      json
// @Produce     json
//
// @Param       feedback-id    header  string  false "Feedback ID (minted when absent)"  format(uuid)
// @Param       Authorization  header  string  false "Bearer token (optional)"
// @Param       body           body    handlers.FeedbackMessageRequest  true  "Message payload"
//
// @Success     200  {object}  handlers.FeedbackMessageResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /feedback/feedback [post]
func (h *Handlers) PostFeedbackMessage(c *gin.Context) {
	conv, ok2 := middleware.ConversationFrom(c)
	if !ok2 {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "feedback thread not resolved")
		return
	}

	var req FeedbackMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	bot, err := h.fbSvc.HandleMessage(c.Request.Context(), conv.ID, req.Message)
	if err != nil {
		if errors.Is(err, services.ErrEmptyMessage) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "message must not be empty")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeAnswerFailed, err.Error())
		return
	}

	ok(c, http.StatusOK, FeedbackMessageResponse{
		FeedbackID:  conv.ID,
		BotResponse: bot.Content,
	})
}

// GetFeedback godoc
// @ID          getFeedback
// @Summary     Fetch one feedback thread
// @Tags        Feedback
// @Produce     json
//
// @Param       id  path  string  true  "Feedback ID"  format(uuid)
//
// @Success     200  {object}  handlers.FeedbackResponse
// @Failure     404  {object}  handlers.ErrorResponse  "Feedback not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /feedback/feedback/{id} [get]
func (h *Handlers) GetFeedback(c *gin.Context) {
	view, err := h.fbSvc.GetThread(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrConversationNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "feedback not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, feedbackView(view))
}

// ClassifyFeedback godoc
// @ID          classifyFeedback
// @Summary     Classify a feedback thread
// @Description Sets the category (inaccurate, biased, irrelevant) and optional free-text details.
// @Tags        Feedback
// @Accept      json
// @Produce     json
//
// @Param       id    path  string  true  "Feedback ID"  format(uuid)
// @Param       body  body  handlers.ClassifyFeedbackRequest  true  "Classification"
//
// @Success     200  {object}  map[string]string
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid category"
// @Failure     404  {object}  handlers.ErrorResponse  "Feedback not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /feedback/feedback/{id}/category [patch]
func (h *Handlers) ClassifyFeedback(c *gin.Context) {
	var req ClassifyFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "category required")
		return
	}

	err := h.fbSvc.Classify(c.Request.Context(), c.Param("id"), req.Category, req.Details)
	switch {
	case errors.Is(err, services.ErrInvalidCategory):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid feedback category")
	case errors.Is(err, services.ErrConversationNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "feedback not found")
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	default:
		ok(c, http.StatusOK, gin.H{"message": "Feedback category updated successfully"})
	}
}

// ListUserFeedback godoc
// @ID          listUserFeedback
// @Summary     List own feedback threads
// @Description Returns the user's feedback threads. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Feedback
// @Produce     json
//
// @Param       Authorization  header  string  true  "Bearer token"
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
//
// @Success     200  {array}   handlers.FeedbackResponse
// @Header      200  {string}  ETag  "Weak ETag for current result"
// @Success     304  {string}  string  "Not Modified"
// @Failure     401  {object}  handlers.ErrorResponse  "Missing or invalid token"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /feedback/Userfeedback [get]
func (h *Handlers) ListUserFeedback(c *gin.Context) {
	uid := middleware.PrincipalFrom(c)

	// ETag pre-check (best effort).
	if conversationETag(c, h.conversationDB(), uid, domain.KindFeedback) {
		return
	}

	views, err := h.convSvc.ListUserConversations(c.Request.Context(), uid, domain.KindFeedback)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	out := make([]FeedbackResponse, 0, len(views))
	for i := range views {
		out = append(out, feedbackView(&views[i]))
	}
	ok(c, http.StatusOK, out)
}
