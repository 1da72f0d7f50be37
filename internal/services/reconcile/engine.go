// File: internal/services/reconcile/engine.go
package reconcile

import (
	"errors"

	"github.com/iyunix/go-chatsync/internal/domain"
	"github.com/iyunix/go-chatsync/internal/repository/chat"
	"github.com/iyunix/go-chatsync/internal/repository/memory"
	"github.com/iyunix/go-chatsync/internal/repository/message"
	"github.com/iyunix/go-chatsync/internal/services/allocator"
)

// Engine reconciles a device's local state with the server's: Pull hands out
// everything changed after a watermark, Push applies local changes with
// last-writer-wins.
type Engine struct {
	chats    chat.ChatRepository
	messages message.MessageRepository
	memories memory.MemoryRepository
	creator  *allocator.Creator
	clock    domain.Clock
	logger   Logger
}

func NewEngine(
	chats chat.ChatRepository,
	messages message.MessageRepository,
	memories memory.MemoryRepository,
	creator *allocator.Creator,
	clock domain.Clock,
	logger Logger,
) *Engine {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &Engine{
		chats:    chats,
		messages: messages,
		memories: memories,
		creator:  creator,
		clock:    clock,
		logger:   logger,
	}
}

// classify turns repository errors into domain errors for per-item reporting.
func classify(operation string, err error) error {
	var de *domain.Error
	switch {
	case errors.As(err, &de):
		return err
	case errors.Is(err, chat.ErrChatNotFound):
		return domain.NewNotFoundError(operation, "chat not found")
	case errors.Is(err, message.ErrMessageNotFound):
		return domain.NewNotFoundError(operation, "message not found")
	case errors.Is(err, memory.ErrMemoryNotFound):
		return domain.NewNotFoundError(operation, "memory not found")
	default:
		return domain.NewInternalError(operation, "store failure", err)
	}
}
