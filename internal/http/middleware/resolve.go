package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/careermate/go-career-backend/internal/auth"
	"github.com/careermate/go-career-backend/internal/domain"
	"github.com/careermate/go-career-backend/internal/repo"
)

const (
	// principalKey holds the authenticated user ID ("" when anonymous).
	principalKey = "principal"
	// conversationKey holds the resolved *domain.Conversation.
	conversationKey = "conversation"
	// conversationNewKey reports whether the conversation was created by this request.
	conversationNewKey = "conversationNew"

	// SessionHeader carries the client-chosen chat session identifier.
	SessionHeader = "session-id"
	// FeedbackHeader carries the client-chosen feedback thread identifier.
	FeedbackHeader = "feedback-id"
)

// ResolverConfig carries the dependencies of ResolveConversation and
// RequireAuth. Secret signs and verifies bearer tokens; TTL bounds the
// lifetime of newly created conversations.
type ResolverConfig struct {
	DB     *gorm.DB
	Secret string
	TTL    time.Duration
}

// Principal resolves the Authorization header into a user ID.
//
// Three outcomes are possible:
//   - no Authorization header: the request proceeds anonymously (principal "").
//   - a header without the "Bearer " prefix: 400 before any persistence work.
//   - a Bearer token that fails verification: 401.
//
// A verified token stores its subject in the context for handlers and for the
// access log.
func Principal(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Set(principalKey, "")
			c.Next()
			return
		}
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			abortError(c, http.StatusBadRequest, "bad_authorization", "authorization header must use the Bearer scheme")
			return
		}
		userID, err := auth.ParseToken(token, secret)
		if err != nil {
			abortError(c, http.StatusUnauthorized, "invalid_token", "token is expired or invalid")
			return
		}
		c.Set(principalKey, userID)
		c.Set("userID", userID)
		c.Next()
	}
}

// RequireAuth aborts with 401 when the request resolved to no principal.
// It must run after Principal.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if PrincipalFrom(c) == "" {
			abortError(c, http.StatusUnauthorized, "unauthorized", "authentication required")
			return
		}
		c.Next()
	}
}

// ResolveConversation finds or creates the conversation named by the given
// header for the given kind ("session" or "feedback").
//
// When the header is absent a fresh UUID is minted, so every request ends up
// bound to exactly one conversation. An existing identifier whose row has
// expired is treated as unknown and re-created, which also refreshes its
// lifetime. The resolved row, its identity, and whether it was created by
// this request are stored in the context; the identifier is echoed back in
// the response header so clients can persist it.
//
// Must run after Principal: ownership of a newly created conversation follows
// the resolved principal.
func ResolveConversation(cfg ResolverConfig, header, kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(header)
		if id == "" {
			id = uuid.NewString()
		}

		ctx := c.Request.Context()
		created := false
		conv, err := repo.GetConversation(ctx, cfg.DB, id, kind)
		if errors.Is(err, repo.ErrNotFound) {
			conv, err = repo.CreateConversation(ctx, cfg.DB, id, kind, PrincipalFrom(c), cfg.TTL)
			created = err == nil
		}
		if err != nil {
			LoggerFrom(c).Error().Err(err).Str("conversation_id", id).Msg("resolve conversation")
			abortError(c, http.StatusInternalServerError, "internal_error", "could not resolve conversation")
			return
		}

		c.Set(conversationKey, conv)
		c.Set(conversationNewKey, created)
		c.Writer.Header().Set(header, conv.ID)
		c.Next()
	}
}

// PrincipalFrom returns the authenticated user ID, or "" for anonymous
// requests.
func PrincipalFrom(c *gin.Context) string {
	if v, ok := c.Get(principalKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// ConversationFrom returns the conversation resolved for this request and
// whether it was newly created. The conversation is nil when no resolver ran.
func ConversationFrom(c *gin.Context) (*domain.Conversation, bool) {
	v, ok := c.Get(conversationKey)
	if !ok {
		return nil, false
	}
	conv, _ := v.(*domain.Conversation)
	return conv, c.GetBool(conversationNewKey)
}

// abortError writes the standard error envelope and stops the chain.
func abortError(c *gin.Context, status int, code, message string) {
	rid, _ := c.Get(requestIDKey)
	c.AbortWithStatusJSON(status, gin.H{
		"request_id": asString(rid),
		"code":       code,
		"message":    message,
	})
}
