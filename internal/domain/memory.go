// File: internal/domain/memory.go
package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

const MaxMemoryContentLength = 500

// Memory is a short note the assistant keeps about its owner. Memories are hard-deleted.
type Memory struct {
	OwnerID   string    `gorm:"primaryKey;size:128;index:idx_memories_owner_created,priority:1"`
	ID        uint64    `gorm:"primaryKey;autoIncrement:false"`
	Content   string    `gorm:"size:500;not null"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime:false;index:idx_memories_owner_created,priority:2"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime:false;index"`
}

// Validate checks the field constraints of a memory.
func (m *Memory) Validate() error {
	if m.OwnerID == "" {
		return NewValidationError("validate_memory", "owner id is required")
	}
	if m.ID == 0 {
		return NewValidationError("validate_memory", "memory id must be positive")
	}
	if strings.TrimSpace(m.Content) == "" {
		return NewValidationError("validate_memory", "content is required")
	}
	if utf8.RuneCountInString(m.Content) > MaxMemoryContentLength {
		return NewValidationError("validate_memory", "content must be 500 characters or less")
	}
	return nil
}
