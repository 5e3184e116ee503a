// Package services – FeedbackService
//
// Feedback threads reuse the conversation model with kind "feedback". Every
// user message gets a fixed acknowledgement, and a thread can additionally be
// classified once into a category with free-form details.
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

const feedbackReply = "Thank you for your feedback!"

// FeedbackService persists feedback messages and classifications.
type FeedbackService struct {
	DB *gorm.DB
}

// HandleMessage appends the user's feedback text and the fixed
// acknowledgement to the thread in one transaction, returning the stored bot
// message.
func (s *FeedbackService) HandleMessage(ctx context.Context, convID, text string) (*domain.Message, error) {
	tr := otel.Tracer("services/FeedbackService")
	ctx, span := tr.Start(ctx, "HandleMessage",
		trace.WithAttributes(attribute.String("conversation.id", convID)),
	)
	defer span.End()

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	var botMsg *domain.Message
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repo.AppendMessage(tx, convID, domain.Message{
			Sender:  domain.SenderUser,
			Content: text,
		}); err != nil {
			return err
		}
		m, err := repo.AppendMessage(tx, convID, domain.Message{
			Sender:  domain.SenderBot,
			Content: feedbackReply,
		})
		if err != nil {
			return err
		}
		botMsg = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return botMsg, nil
}

// Classify records the category and details on a feedback thread. The
// category must be one of the known values; unknown thread IDs yield
// ErrConversationNotFound.
func (s *FeedbackService) Classify(ctx context.Context, convID, category, details string) error {
	tr := otel.Tracer("services/FeedbackService")
	ctx, span := tr.Start(ctx, "Classify",
		trace.WithAttributes(
			attribute.String("conversation.id", convID),
			attribute.String("category", category),
		),
	)
	defer span.End()

	category = strings.ToLower(strings.TrimSpace(category))
	if !domain.ValidCategory(category) {
		return ErrInvalidCategory
	}
	if err := repo.SetClassification(ctx, s.DB, convID, category, strings.TrimSpace(details)); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrConversationNotFound
		}
		return err
	}
	return nil
}

// GetThread returns a feedback thread with its messages.
func (s *FeedbackService) GetThread(ctx context.Context, id string) (*ConversationView, error) {
	chat := ChatService{DB: s.DB}
	return chat.GetConversation(ctx, id, domain.KindFeedback)
}
