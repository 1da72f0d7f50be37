// File: internal/domain/chat.go
package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// MaxChatTitleLength is the title limit in characters.
	MaxChatTitleLength = 500
	DefaultChatTitle   = "New Chat"
)

// Chat represents a single conversation thread owned by one user.
// The (OwnerID, ID) pair is the primary key; a non-nil DeletedAt marks a tombstone.
type Chat struct {
	OwnerID   string     `gorm:"primaryKey;size:128;index:idx_chats_owner_updated,priority:1"`
	ID        uint64     `gorm:"primaryKey;autoIncrement:false"`
	Title     string     `gorm:"size:500;not null"`
	CreatedAt time.Time  `gorm:"not null;autoCreateTime:false"`
	UpdatedAt time.Time  `gorm:"not null;autoUpdateTime:false;index:idx_chats_owner_updated,priority:2"`
	DeletedAt *time.Time `gorm:"index"`
}

// IsDeleted reports whether the chat is a tombstone.
func (c *Chat) IsDeleted() bool {
	return c.DeletedAt != nil
}

// Touch moves UpdatedAt forward to at. It never moves it backwards.
func (c *Chat) Touch(at time.Time) {
	at = NormalizeTime(at)
	if at.After(c.UpdatedAt) {
		c.UpdatedAt = at
	}
}

// SoftDelete marks the chat as deleted at the given time.
func (c *Chat) SoftDelete(at time.Time) {
	at = NormalizeTime(at)
	c.DeletedAt = &at
	c.Touch(at)
}

// Validate checks the field constraints of a chat.
func (c *Chat) Validate() error {
	if c.OwnerID == "" {
		return NewValidationError("validate_chat", "owner id is required")
	}
	if c.ID == 0 {
		return NewValidationError("validate_chat", "chat id must be positive")
	}
	if strings.TrimSpace(c.Title) == "" {
		return NewValidationError("validate_chat", "title is required")
	}
	if utf8.RuneCountInString(c.Title) > MaxChatTitleLength {
		return NewValidationError("validate_chat", "title must be 500 characters or less")
	}
	return nil
}
