// Package services – ChatService
//
// ChatService owns the chat conversation lifecycle: it persists the user and
// bot message pair atomically, in append order, and serves conversation
// lookups for the history endpoints. Conversations themselves are resolved
// upstream by the HTTP layer, so every method here receives an
// already-existing conversation ID.
//
// All public methods are OpenTelemetry-instrumented; spans carry the
// conversation and user identifiers.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/careermate/go-career-backend/internal/domain"
	"github.com/careermate/go-career-backend/internal/repo"
)

// Attachment describes an optional file stored alongside a user message.
type Attachment struct {
	URL          string
	ContentType  string
	OriginalName string
}

// ConversationView bundles a conversation with its ordered messages for the
// history endpoints.
type ConversationView struct {
	Conversation domain.Conversation `json:"conversation"`
	Messages     []domain.Message    `json:"messages"`
}

// ChatService coordinates message persistence and canned replies.
type ChatService struct {
	DB *gorm.DB
}

// HandleMessage appends the user message and the computed bot reply to the
// conversation in one transaction and returns the stored bot message plus the
// derived intent. A request with neither text nor attachment is rejected with
// ErrEmptyMessage.
func (s *ChatService) HandleMessage(ctx context.Context, convID, text string, att *Attachment) (*domain.Message, string, error) {
	tr := otel.Tracer("services/ChatService")
	ctx, span := tr.Start(ctx, "HandleMessage",
		trace.WithAttributes(attribute.String("conversation.id", convID)),
	)
	defer span.End()

	text = strings.TrimSpace(text)
	if text == "" && att == nil {
		return nil, "", ErrEmptyMessage
	}

	reply, intent := Reply(text)

	userMsg := domain.Message{
		Sender:  domain.SenderUser,
		Content: text,
		Intent:  intent,
	}
	if att != nil {
		userMsg.FileURL = att.URL
		userMsg.FileType = att.ContentType
		userMsg.OriginalName = att.OriginalName
	}

	var botMsg *domain.Message
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repo.AppendMessage(tx, convID, userMsg); err != nil {
			return err
		}
		m, err := repo.AppendMessage(tx, convID, domain.Message{
			Sender:  domain.SenderBot,
			Content: reply,
		})
		if err != nil {
			return err
		}
		botMsg = m
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	return botMsg, intent, nil
}

// GetConversation returns a conversation of the given kind with its messages
// in append order. Expired or unknown IDs yield ErrConversationNotFound.
func (s *ChatService) GetConversation(ctx context.Context, id, kind string) (*ConversationView, error) {
	tr := otel.Tracer("services/ChatService")
	ctx, span := tr.Start(ctx, "GetConversation",
		trace.WithAttributes(
			attribute.String("conversation.id", id),
			attribute.String("conversation.kind", kind),
		),
	)
	defer span.End()

	conv, err := repo.GetConversation(ctx, s.DB, id, kind)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	msgs, err := repo.ListMessages(s.DB.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	return &ConversationView{Conversation: *conv, Messages: msgs}, nil
}

// ListUserConversations returns every live conversation of the given kind
// owned by userID, each with its messages loaded.
func (s *ChatService) ListUserConversations(ctx context.Context, userID, kind string) ([]ConversationView, error) {
	tr := otel.Tracer("services/ChatService")
	ctx, span := tr.Start(ctx, "ListUserConversations",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.String("conversation.kind", kind),
		),
	)
	defer span.End()

	convs, err := repo.ListUserConversations(ctx, s.DB, userID, kind)
	if err != nil {
		return nil, err
	}
	out := make([]ConversationView, 0, len(convs))
	for _, c := range convs {
		msgs, err := repo.ListMessages(s.DB.WithContext(ctx), c.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, ConversationView{Conversation: c, Messages: msgs})
	}
	return out, nil
}

// ListUserConversationsPage is the paginated variant of ListUserConversations.
// Invalid page/pageSize values fall back to 1 and 20.
func (s *ChatService) ListUserConversationsPage(ctx context.Context, userID, kind string, page, pageSize int) ([]ConversationView, int64, error) {
	tr := otel.Tracer("services/ChatService")
	ctx, span := tr.Start(ctx, "ListUserConversationsPage",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	total, err := repo.CountUserConversations(ctx, s.DB, userID, kind)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []ConversationView{}, 0, nil
	}

	convs, err := repo.ListUserConversationsPage(ctx, s.DB, userID, kind, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, 0, err
	}
	out := make([]ConversationView, 0, len(convs))
	for _, c := range convs {
		msgs, err := repo.ListMessages(s.DB.WithContext(ctx), c.ID)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, ConversationView{Conversation: c, Messages: msgs})
	}
	return out, total, nil
}
