package chat

import (
	"context"
	"time"

	"github.com/iyunix/go-chatsync/internal/domain"
	"github.com/iyunix/go-chatsync/internal/repository"
)

// ChatRepository handles chat data operations. Tombstoned chats stay in the
// store: only the Live and Since finders filter them out.
type ChatRepository interface {
	// FindByKey returns the chat including tombstones, or ErrChatNotFound.
	FindByKey(ctx context.Context, ownerID string, id uint64) (*domain.Chat, error)
	// FindLive returns the chat unless it is missing or tombstoned.
	FindLive(ctx context.Context, ownerID string, id uint64) (*domain.Chat, error)
	// FindSince returns live chats updated after since (all when nil), newest first.
	FindSince(ctx context.Context, ownerID string, since *time.Time) ([]domain.Chat, error)
	FindLivePage(ctx context.Context, ownerID string, page repository.Page) ([]domain.Chat, error)

	// Create inserts a new row and returns repository.ErrDuplicateKey on collision.
	Create(ctx context.Context, chat *domain.Chat) error
	// Save overwrites every column of an existing row.
	Save(ctx context.Context, chat *domain.Chat) error
	// Upsert inserts or overwrites by primary key.
	Upsert(ctx context.Context, chat *domain.Chat) error

	SoftDelete(ctx context.Context, ownerID string, id uint64, at time.Time) error
	SoftDeleteAll(ctx context.Context, ownerID string, at time.Time) ([]uint64, error)
	// Touch moves updated_at of a live chat forward to at; it never moves it back.
	Touch(ctx context.Context, ownerID string, id uint64, at time.Time) error

	CountLive(ctx context.Context, ownerID string) (int64, error)
	// MaxID includes tombstoned chats.
	MaxID(ctx context.Context, ownerID string) (uint64, error)
}
