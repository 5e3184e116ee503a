// Handler wiring and shared service contracts.
//
// Handlers are transport-thin: they validate input, call application services
// through the interfaces below, and translate results into HTTP responses.
// The interfaces keep transport concerns separate from business logic and let
// tests substitute fakes without a database or network.
package handlers

import (
	"context"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/careermate/go-career-backend/internal/config"
	"github.com/careermate/go-career-backend/internal/domain"
	"github.com/careermate/go-career-backend/internal/search"
	"github.com/careermate/go-career-backend/internal/services"
	"github.com/careermate/go-career-backend/internal/utils"
	"github.com/careermate/go-career-backend/internal/voice"
)

// ConversationService defines the chatbot session operations consumed by the
// HTTP layer. Implementations must honor the provided context.
type ConversationService interface {
	// HandleMessage appends a user message and the derived bot reply
	// atomically and returns the bot message plus the intent label.
	HandleMessage(ctx context.Context, convID, text string, att *services.Attachment) (*domain.Message, string, error)
	// GetConversation loads a live conversation of the given kind with its
	// ordered messages.
	GetConversation(ctx context.Context, id, kind string) (*services.ConversationView, error)
	// ListUserConversations returns all live conversations of a kind owned
	// by userID.
	ListUserConversations(ctx context.Context, userID, kind string) ([]services.ConversationView, error)
	// ListUserConversationsPage returns one page plus the total count.
	ListUserConversationsPage(ctx context.Context, userID, kind string, page, pageSize int) ([]services.ConversationView, int64, error)
}

// FeedbackService defines the feedback thread operations consumed by the
// HTTP layer.
type FeedbackService interface {
	// HandleMessage appends a user message and the fixed acknowledgement.
	HandleMessage(ctx context.Context, convID, text string) (*domain.Message, error)
	// Classify sets the category (and optional details) on a feedback thread.
	Classify(ctx context.Context, convID, category, details string) error
	// GetThread loads a feedback conversation with its messages.
	GetThread(ctx context.Context, id string) (*services.ConversationView, error)
}

// UserService defines account lifecycle operations.
type UserService interface {
	Signup(ctx context.Context, username, email, password, mobile string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, id string, upd services.ProfileUpdate) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.User, error)
}

// VoiceResponder produces spoken replies (text, audio, mouth cues) for a user
// message.
type VoiceResponder interface {
	Respond(ctx context.Context, userMessage string) ([]voice.Message, error)
}

// UploadStore persists chat attachments and returns the stored file name.
type UploadStore interface {
	Save(originalName, contentType string, r io.Reader) (string, error)
}

// Handlers groups the HTTP endpoints for users, chatbot sessions, feedback,
// search proxies, and the voice pipeline.
type Handlers struct {
	convSvc  ConversationService
	fbSvc    FeedbackService
	userSvc  UserService
	voiceSvc VoiceResponder
	jobs     search.JobSearcher
	mentors  search.MentorSearcher
	events   search.EventSearcher
	uploads  UploadStore
	auth     config.AuthConfig
}

// Deps lists everything the handlers need, injected by the router.
type Deps struct {
	Conversations ConversationService
	Feedback      FeedbackService
	Users         UserService
	Voice         VoiceResponder
	Jobs          search.JobSearcher
	Mentors       search.MentorSearcher
	Events        search.EventSearcher
	Uploads       UploadStore
	Auth          config.AuthConfig
}

// New constructs a Handlers instance bound to the given dependencies.
func New(d Deps) *Handlers {
	return &Handlers{
		convSvc:  d.Conversations,
		fbSvc:    d.Feedback,
		userSvc:  d.Users,
		voiceSvc: d.Voice,
		jobs:     d.Jobs,
		mentors:  d.Mentors,
		events:   d.Events,
		uploads:  d.Uploads,
		auth:     d.Auth,
	}
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}
