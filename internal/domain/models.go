// Package domain defines the persistence models for users, conversations,
// and messages. These types are mapped with GORM and form the core data
// layer of the career-assistance backend.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// Conversation kinds. A "session" holds a regular chat thread; a "feedback"
// thread is structurally identical but additionally carries a classification
// set by the user after the fact.
const (
	KindSession  = "session"
	KindFeedback = "feedback"
)

// Feedback categories accepted by Conversation.Category.
const (
	CategoryInaccurate = "inaccurate"
	CategoryBiased     = "biased"
	CategoryIrrelevant = "irrelevant"
)

// Message senders.
const (
	SenderUser = "user"
	SenderBot  = "bot"
)

// User represents a registered account. Passwords are stored only as bcrypt
// hashes; the hash is computed once at signup and replaced only when the
// password is explicitly changed.
type User struct {
	ID           string         `json:"id"            gorm:"type:char(36);primaryKey"`
	Username     string         `json:"username"      gorm:"type:varchar(64);uniqueIndex"`
	Email        string         `json:"email"         gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string         `json:"-"             gorm:"type:varchar(60);not null"`
	// MobileNumber is optional; NULL when absent so the unique index only
	// applies to accounts that actually provided one.
	MobileNumber *string        `json:"mobile_number,omitempty" gorm:"type:varchar(20);uniqueIndex"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-"             gorm:"index"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Conversation is an append-only message thread identified by an opaque,
// externally supplied (or server-generated) identifier. It is created lazily
// the first time an unknown identifier is seen and expires a fixed duration
// after creation — a hard TTL, not sliding. Expired rows are invisible to
// lookups and removed by a background sweeper.
//
// Fields:
//   - ID: the external session/feedback identifier (UUID string).
//   - Kind: "session" or "feedback" (enforced by DB constraint).
//   - UserID: optional weak reference to the owning user; empty when the
//     thread was started anonymously.
//   - Category / Details: feedback classification, set once by the user
//     after the fact. Unused for Kind == "session".
//   - ExpiresAt: CreatedAt + TTL, fixed at creation time.
type Conversation struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	Kind      string    `json:"kind"       gorm:"type:varchar(16);not null;index;check:kind IN ('session','feedback')"`
	UserID    string    `json:"user_id,omitempty" gorm:"type:char(36);index:idx_user_convs"`
	Category  string    `json:"category,omitempty" gorm:"type:varchar(16);check:category IN ('','inaccurate','biased','irrelevant')"`
	Details   string    `json:"details,omitempty"  gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ExpiresAt time.Time `json:"expires_at" gorm:"index"`
}

// TableName returns the database table name for Conversation.
func (Conversation) TableName() string { return "conversations" }

// Expired reports whether the conversation's hard TTL has elapsed at now.
func (c *Conversation) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// Message is a single utterance within a conversation. Messages are
// append-only: once written they are never updated or reordered. A message
// may carry file metadata instead of (or in addition to) text, and an
// optional intent label derived when the reply was computed.
//
// Position is the 1-based append order within the parent conversation,
// assigned transactionally so that retrieval order is deterministic.
type Message struct {
	ID             string    `json:"id"        gorm:"type:char(36);primaryKey"`
	ConversationID string    `json:"-"         gorm:"type:char(36);not null;index:idx_conv_msgs,priority:1"`
	Sender         string    `json:"sender"    gorm:"type:varchar(8);not null;check:sender IN ('user','bot')"`
	Content        string    `json:"message"   gorm:"type:text"`
	FileURL        string    `json:"fileUrl,omitempty"      gorm:"type:varchar(512)"`
	FileType       string    `json:"fileType,omitempty"     gorm:"type:varchar(128)"`
	OriginalName   string    `json:"originalName,omitempty" gorm:"type:varchar(255)"`
	Intent         string    `json:"intent,omitempty"       gorm:"type:varchar(32)"`
	Position       int       `json:"-"         gorm:"not null;index:idx_conv_msgs,priority:2"`
	CreatedAt      time.Time `json:"timestamp"`

	// Conversation is the parent thread. Messages are cascade-deleted when
	// their conversation is removed (e.g., by the TTL sweeper).
	Conversation Conversation `json:"-" gorm:"foreignKey:ConversationID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Message.
func (Message) TableName() string { return "messages" }

// ValidCategory reports whether s is one of the accepted feedback categories.
func ValidCategory(s string) bool {
	switch s {
	case CategoryInaccurate, CategoryBiased, CategoryIrrelevant:
		return true
	}
	return false
}
