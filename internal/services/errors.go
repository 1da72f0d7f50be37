package services

import (
	"errors"

	"github.com/iyunix/go-chatsync/internal/domain"
	"github.com/iyunix/go-chatsync/internal/repository/chat"
	"github.com/iyunix/go-chatsync/internal/repository/memory"
	"github.com/iyunix/go-chatsync/internal/repository/message"
)

// storeError converts a repository error into the domain error returned to handlers.
func storeError(operation string, err error) error {
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
