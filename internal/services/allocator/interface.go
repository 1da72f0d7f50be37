package allocator

import (
	"context"
	"fmt"
)

// Logger mirrors services.Logger so the allocator stays free of service imports.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// Allocator hands out candidate ids. A returned id is a hint: callers insert
// through CreateWithRetry so a collision leads to a fresh allocation.
type Allocator interface {
	Next(ctx context.Context, scope Scope) (uint64, error)
}

type Kind string

const (
	KindChat    Kind = "chat"
	KindMessage Kind = "message"
	KindMemory  Kind = "memory"
)

// Scope is the id space an allocation draws from. Messages are scoped to their
// chat, chats and memories to their owner.
type Scope struct {
	Kind    Kind
	OwnerID string
	ChatID  uint64
}

func ChatScope(ownerID string) Scope {
	return Scope{Kind: KindChat, OwnerID: ownerID}
}

func MessageScope(ownerID string, chatID uint64) Scope {
	return Scope{Kind: KindMessage, OwnerID: ownerID, ChatID: chatID}
}

func MemoryScope(ownerID string) Scope {
	return Scope{Kind: KindMemory, OwnerID: ownerID}
}

// Key is the stable string form used by the counter table.
func (s Scope) Key() string {
	if s.Kind == KindMessage {
		return fmt.Sprintf("%s:%s:%d", s.Kind, s.OwnerID, s.ChatID)
	}
	return fmt.Sprintf("%s:%s", s.Kind, s.OwnerID)
}

func (s Scope) Validate() error {
	if s.OwnerID == "" {
		return fmt.Errorf("allocation scope has no owner")
	}
	switch s.Kind {
	case KindChat, KindMemory:
		return nil
	case KindMessage:
		if s.ChatID == 0 {
			return fmt.Errorf("message scope has no chat")
		}
		return nil
	}
	return fmt.Errorf("unknown allocation kind %q", s.Kind)
}
