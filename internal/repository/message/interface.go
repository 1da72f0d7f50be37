// File: internal/repository/message/interface.go
package message

import (
	"context"
	"time"

	"github.com/iyunix/go-chatsync/internal/domain"
	"github.com/iyunix/go-chatsync/internal/repository"
)

// MessageRepository handles message data operations. Messages are hard-deleted.
type MessageRepository interface {
	FindByKey(ctx context.Context, ownerID string, chatID, id uint64) (*domain.Message, error)
	// FindSince returns messages of the given chats with a timestamp after since, oldest first.
	FindSince(ctx context.Context, ownerID string, chatIDs []uint64, since time.Time) ([]domain.Message, error)
	// FindPageByChat returns the newest page of a chat's messages in ascending order.
	FindPageByChat(ctx context.Context, ownerID string, chatID uint64, page repository.Page) ([]domain.Message, error)

	Create(ctx context.Context, message *domain.Message) error
	Save(ctx context.Context, message *domain.Message) error
	Upsert(ctx context.Context, message *domain.Message) error

	Delete(ctx context.Context, ownerID string, chatID, id uint64) error
	DeleteByChat(ctx context.Context, ownerID string, chatID uint64) (int64, error)
	DeleteByChats(ctx context.Context, ownerID string, chatIDs []uint64) (int64, error)

	CountByChat(ctx context.Context, ownerID string, chatID uint64) (int64, error)
	MaxID(ctx context.Context, ownerID string, chatID uint64) (uint64, error)
}
