package allocator

import (
	"context"
	"fmt"

	"github.com/iyunix/go-chatsync/internal/repository/chat"
	"github.com/iyunix/go-chatsync/internal/repository/memory"
	"github.com/iyunix/go-chatsync/internal/repository/message"
)

// MaxAllocator returns max(existing id in scope)+1. Tombstoned chats still count.
type MaxAllocator struct {
	chats    chat.ChatRepository
	messages message.MessageRepository
	memories memory.MemoryRepository
}

func NewMaxAllocator(chats chat.ChatRepository, messages message.MessageRepository, memories memory.MemoryRepository) *MaxAllocator {
	return &MaxAllocator{chats: chats, messages: messages, memories: memories}
}

func (a *MaxAllocator) Next(ctx context.Context, scope Scope) (uint64, error) {
	if err := scope.Validate(); err != nil {
		return 0, err
	}

	var (
		maxID uint64
		err   error
	)
	switch scope.Kind {
	case KindChat:
		maxID, err = a.chats.MaxID(ctx, scope.OwnerID)
	case KindMessage:
		maxID, err = a.messages.MaxID(ctx, scope.OwnerID, scope.ChatID)
	case KindMemory:
		maxID, err = a.memories.MaxID(ctx, scope.OwnerID)
	}
	if err != nil {
		return 0, fmt.Errorf("allocate %s id: %w", scope.Kind, err)
	}
	return maxID + 1, nil
}
