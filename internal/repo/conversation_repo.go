// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for conversations
// and their embedded, append-only message logs.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a conversation is not found (or has expired), functions return
//     gorm.ErrRecordNotFound (also exported here as ErrNotFound).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/careermate/go-career-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateConversation inserts a new conversation row with the given external
// identifier, kind, and optional owner. ExpiresAt is fixed at creation time
// (hard TTL, not sliding). When an expired row still holds the identifier it
// is replaced, message log included.
func CreateConversation(ctx context.Context, db *gorm.DB, id, kind, userID string, ttl time.Duration) (*domain.Conversation, error) {
	now := time.Now().UTC()
	// An expired row may still occupy the primary key until the sweeper runs.
	// Remove it (messages cascade) so the same identifier starts a fresh thread.
	if err := db.WithContext(ctx).
		Where("id = ? AND expires_at <= ?", id, now).
		Delete(&domain.Conversation{}).Error; err != nil {
		return nil, err
	}
	c := &domain.Conversation{
		ID:        id,
		Kind:      kind,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// GetConversation fetches a conversation by its external identifier and kind.
// Expired rows are treated as absent: the sweeper may not have removed them
// yet, but they must never be served. Returns ErrNotFound when missing.
func GetConversation(ctx context.Context, db *gorm.DB, id, kind string) (*domain.Conversation, error) {
	var c domain.Conversation
	err := db.WithContext(ctx).
		Where("id = ? AND kind = ?", id, kind).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	if c.Expired(time.Now().UTC()) {
		return nil, ErrNotFound
	}
	return &c, nil
}

// ListUserConversations returns all live conversations of the given kind
// owned by userID, most recent first.
func ListUserConversations(ctx context.Context, db *gorm.DB, userID, kind string) ([]domain.Conversation, error) {
	var out []domain.Conversation
	err := db.WithContext(ctx).
		Where("user_id = ? AND kind = ? AND expires_at > ?", userID, kind, time.Now().UTC()).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// CountUserConversations returns the number of live conversations of the
// given kind owned by userID (pagination support).
func CountUserConversations(ctx context.Context, db *gorm.DB, userID, kind string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Conversation{}).
		Where("user_id = ? AND kind = ? AND expires_at > ?", userID, kind, time.Now().UTC()).
		Count(&total).Error
	return total, err
}

// ListUserConversationsPage returns a page of live conversations for userID,
// most recent first. The caller computes offset and limit.
func ListUserConversationsPage(ctx context.Context, db *gorm.DB, userID, kind string, offset, limit int) ([]domain.Conversation, error) {
	var out []domain.Conversation
	err := db.WithContext(ctx).
		Where("user_id = ? AND kind = ? AND expires_at > ?", userID, kind, time.Now().UTC()).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// SetClassification records the feedback category and optional details on a
// feedback conversation. Returns ErrNotFound when no row was updated.
func SetClassification(ctx context.Context, db *gorm.DB, id, category, details string) error {
	res := db.WithContext(ctx).
		Model(&domain.Conversation{}).
		Where("id = ? AND kind = ?", id, domain.KindFeedback).
		Updates(map[string]any{"category": category, "details": details})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteExpiredConversations removes all conversations whose hard TTL has
// elapsed. Message rows cascade. Returns the number of rows removed.
func DeleteExpiredConversations(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Where("expires_at <= ?", now.UTC()).
		Delete(&domain.Conversation{})
	return res.RowsAffected, res.Error
}

// AppendMessage inserts a message at the next position of the conversation's
// append-only log. Call inside a transaction when appending a user/bot pair
// so both land with consecutive positions.
func AppendMessage(db *gorm.DB, convID string, msg domain.Message) (*domain.Message, error) {
	var last int
	err := db.Raw("SELECT COALESCE(MAX(position), 0) FROM messages WHERE conversation_id = ?", convID).
		Scan(&last).Error
	if err != nil {
		return nil, err
	}

	msg.ID = uuid.NewString()
	msg.ConversationID = convID
	msg.Position = last + 1
	msg.CreatedAt = time.Now().UTC()
	if err := db.Create(&msg).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

// ListMessages returns all messages of a conversation in append order.
func ListMessages(db *gorm.DB, convID string) ([]domain.Message, error) {
	var out []domain.Message
	err := db.
		Where("conversation_id = ?", convID).
		Order("position ASC").
		Find(&out).Error
	return out, err
}

// CountMessages uses a raw COUNT so a missing table surfaces as an error.
func CountMessages(db *gorm.DB, convID string) (int64, error) {
	var total int64
	err := db.Raw("SELECT COUNT(*) FROM messages WHERE conversation_id = ?", convID).Scan(&total).Error
	return total, err
}

// ConversationStats returns aggregate metadata for a user's conversations of
// the given kind: the total number of live rows and the maximum UpdatedAt
// among them. Used for conditional responses (ETag generation) in the HTTP
// layer. When the user has no conversations, count is 0 and maxUpdatedAt nil.
func ConversationStats(ctx context.Context, db *gorm.DB, userID, kind string) (count int64, maxUpdatedAt *time.Time, err error) {
	q := db.WithContext(ctx).
		Model(&domain.Conversation{}).
		Where("user_id = ? AND kind = ? AND expires_at > ?", userID, kind, time.Now().UTC())

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	if err = q.Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}
