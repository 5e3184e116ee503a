// Chatbot HTTP handlers.
//
// This file exposes the session-scoped chat endpoints:
//   - POST /chatbot/message        (send a message, JSON or multipart)
//   - GET  /chatbot/getmessage/:id (fetch one session thread)
//   - GET  /chatbot/getusermessage (list own sessions, paginated)
//
// The session itself is resolved upstream by middleware.ResolveConversation,
// which mints an id when the client sends none and recreates expired rows.
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/careermate/go-career-backend/internal/domain"
	"github.com/careermate/go-career-backend/internal/http/middleware"
	"github.com/careermate/go-career-backend/internal/repo"
	"github.com/careermate/go-career-backend/internal/services"
	"github.com/careermate/go-career-backend/internal/uploads"
)

// ChatMessageRequest is the JSON payload for sending a chat message.
type ChatMessageRequest struct {
	// Message is the user's utterance; may be empty when a file is attached.
	Message string `json:"message" example:"Are there remote data jobs?"`
}

// ChatMessageResponse echoes the resolved session id alongside the bot reply.
type ChatMessageResponse struct {
	SessionID   string `json:"sessionId"`
	BotResponse string `json:"botResponse"`
	Intent      string `json:"intent,omitempty"`
}

// SessionResponse is one session thread with its ordered messages.
type SessionResponse struct {
	SessionID    string           `json:"sessionId"`
	Conversation []domain.Message `json:"conversation"`
	CreatedAt    string           `json:"createdAt"`
}

// ListSessionsResponse wraps a page of sessions and pagination information.
type ListSessionsResponse struct {
	Sessions   []SessionResponse `json:"sessions"`
	Pagination Pagination        `json:"pagination"`
}

func sessionView(v *services.ConversationView) SessionResponse {
	return SessionResponse{
		SessionID:    v.Conversation.ID,
		Conversation: v.Messages,
		CreatedAt:    v.Conversation.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z"),
	}
}

// messageInput extracts the message text and optional attachment from either
// a JSON body or a multipart form with a `file` part. A rejected attachment
// reports ErrUnsupportedType via the second return.
func (h *Handlers) messageInput(c *gin.Context) (string, *services.Attachment, error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		var req ChatMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return "", nil, err
		}
		return req.Message, nil, nil
	}

	text := c.PostForm("message")
	fh, err := c.FormFile("file")
	if err != nil {
		// Multipart without a file part is still a valid text message.
		return text, nil, nil
	}

	contentType := fh.Header.Get("Content-Type")
	src, err := fh.Open()
	if err != nil {
		return "", nil, err
	}
	defer src.Close()

	name, err := h.uploads.Save(fh.Filename, contentType, src)
	if err != nil {
		return "", nil, err
	}
	return text, &services.Attachment{
		URL:          "/uploads/" + name,
		ContentType:  contentType,
		OriginalName: fh.Filename,
	}, nil
}

// PostChatMessage godoc
// @ID          postChatMessage
// @Summary     Send a chat message
// @Description Appends the message to the resolved session and returns the bot reply. Accepts JSON or multipart with an optional `file` attachment.
// @Tags        Chatbot
// @Accept      json
// @Accept      mpfd
// @Produce     json
//
// @Param       session-id     header  string  false "Session ID (minted when absent)"  format(uuid)
// @Param       Authorization  header  string  false "Bearer token (optional)"
// @Param       body           body    handlers.ChatMessageRequest  true  "Message payload"
//
// @Success     200  {object}  handlers.ChatMessageResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /chatbot/message [post]
func (h *Handlers) PostChatMessage(c *gin.Context) {
	conv, ok2 := middleware.ConversationFrom(c)
	if !ok2 {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "session not resolved")
		return
	}

	text, att, err := h.messageInput(c)
	if err != nil {
		if errors.Is(err, uploads.ErrUnsupportedType) {
			fail(c, http.StatusBadRequest, ErrCodeUploadRejected, err.Error())
			return
		}
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid message payload")
		return
	}

	bot, intent, err := h.convSvc.HandleMessage(c.Request.Context(), conv.ID, text, att)
	if err != nil {
		if errors.Is(err, services.ErrEmptyMessage) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "message must not be empty")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeAnswerFailed, err.Error())
		return
	}

	ok(c, http.StatusOK, ChatMessageResponse{
		SessionID:   conv.ID,
		BotResponse: bot.Content,
		Intent:      intent,
	})
}

// GetSession godoc
// @ID          getSession
// @Summary     Fetch one session thread
// @Tags        Chatbot
// @Produce     json
//
// @Param       id  path  string  true  "Session ID"  format(uuid)
//
// @Success     200  {object}  handlers.SessionResponse
// @Failure     404  {object}  handlers.ErrorResponse  "Session not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /chatbot/getmessage/{id} [get]
func (h *Handlers) GetSession(c *gin.Context) {
	view, err := h.convSvc.GetConversation(c.Request.Context(), c.Param("id"), domain.KindSession)
	if err != nil {
		if errors.Is(err, services.ErrConversationNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "session not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, sessionView(view))
}

// conversationETag computes the weak ETag for a user's conversation list and
// answers 304 when If-None-Match matches. Best effort: it needs direct DB
// access, so fake services in tests simply skip the pre-check.
func conversationETag(c *gin.Context, db *gorm.DB, uid, kind string) (done bool) {
	if db == nil {
		return false
	}
	count, maxTS, err := repo.ConversationStats(c.Request.Context(), db, uid, kind)
	if err != nil {
		return false
	}
	var ts int64
	if maxTS != nil {
		ts = maxTS.Unix()
	}
	etag := fmt.Sprintf(`W/"%s:%s:%d:%d"`, kind, uid, count, ts)
	c.Header("ETag", etag)
	if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
		c.Status(http.StatusNotModified)
		return true
	}
	return false
}

// conversationDB exposes the underlying *gorm.DB when the conversation service
// is the real one.
func (h *Handlers) conversationDB() *gorm.DB {
	if svc, ok := h.convSvc.(*services.ChatService); ok {
		return svc.DB
	}
	return nil
}

// ListUserSessions godoc
// @ID          listUserSessions
// @Summary     List own sessions (paginated)
// @Description Returns a page of the user's sessions. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Chatbot
// @Produce     json
//
// @Param       Authorization  header  string  true  "Bearer token"
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
// @Param       page           query   int     false "Page number"     minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object}  handlers.ListSessionsResponse
// @Header      200  {string}  ETag  "Weak ETag for current result"
// @Success     304  {string}  string  "Not Modified"
// @Failure     401  {object}  handlers.ErrorResponse  "Missing or invalid token"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /chatbot/getusermessage [get]
func (h *Handlers) ListUserSessions(c *gin.Context) {
	uid := middleware.PrincipalFrom(c)
	page, pageSize := clampPagination(c)

	// ETag pre-check (best effort).
	if conversationETag(c, h.conversationDB(), uid, domain.KindSession) {
		return
	}

	views, total, err := h.convSvc.ListUserConversationsPage(c.Request.Context(), uid, domain.KindSession, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	sessions := make([]SessionResponse, 0, len(views))
	for i := range views {
		sessions = append(sessions, sessionView(&views[i]))
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	ok(c, http.StatusOK, ListSessionsResponse{
		Sessions: sessions,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}
