// File: internal/domain/message.go
package domain

import (
	"time"
)

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}

// Message represents a single message within a chat.
// Ids are unique per chat, so the key is (OwnerID, ChatID, ID).
type Message struct {
	OwnerID   string    `gorm:"primaryKey;size:128;index:idx_messages_owner_ts,priority:1"`
	ChatID    uint64    `gorm:"primaryKey;autoIncrement:false"`
	ID        uint64    `gorm:"primaryKey;autoIncrement:false"`
	Role      Role      `gorm:"size:16;not null"`
	Content   string    `gorm:"type:text;not null"`
	Timestamp time.Time `gorm:"not null;index:idx_messages_owner_ts,priority:2"`

	WebSearchUsed        bool `gorm:"not null"`
	ImageBase64          *string
	ImagePath            *string
	ThinkingContent      *string
	IsThinking           bool `gorm:"not null"`
	ResponseTimeMs       *int64
	Reaction             *string
	GeneratedImageBase64 *string
	GeneratedImagePrompt *string
	GeneratedImageModel  *string
	IsGeneratingImage    bool `gorm:"not null"`
}

// Validate checks the field constraints of a message.
func (m *Message) Validate() error {
	if m.OwnerID == "" {
		return NewValidationError("validate_message", "owner id is required")
	}
	if m.ChatID == 0 {
		return NewValidationError("validate_message", "chat id must be positive")
	}
	if m.ID == 0 {
		return NewValidationError("validate_message", "message id must be positive")
	}
	if m.Role == "" {
		return NewValidationError("validate_message", "role is required")
	}
	if !m.Role.Valid() {
		return NewValidationError("validate_message", "role must be one of user, assistant, system")
	}
	if m.Content == "" {
		return NewValidationError("validate_message", "content is required")
	}
	return nil
}

// MessagePatch holds the fields a direct message update may change.
// Nil fields are left untouched.
type MessagePatch struct {
	Reaction             *string
	Content              *string
	IsThinking           *bool
	ThinkingContent      *string
	IsGeneratingImage    *bool
	GeneratedImageBase64 *string
}

// Apply copies the non-nil patch fields onto m.
func (p MessagePatch) Apply(m *Message) {
	if p.Reaction != nil {
		m.Reaction = p.Reaction
	}
	if p.Content != nil {
		m.Content = *p.Content
	}
	if p.IsThinking != nil {
		m.IsThinking = *p.IsThinking
	}
	if p.ThinkingContent != nil {
		m.ThinkingContent = p.ThinkingContent
	}
	if p.IsGeneratingImage != nil {
		m.IsGeneratingImage = *p.IsGeneratingImage
	}
	if p.GeneratedImageBase64 != nil {
		m.GeneratedImageBase64 = p.GeneratedImageBase64
	}
}
