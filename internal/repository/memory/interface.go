package memory

import (
	"context"
	"time"

	"github.com/iyunix/go-chatsync/internal/domain"
)

// MemoryRepository handles memory data operations. Memories are hard-deleted.
type MemoryRepository interface {
	FindByKey(ctx context.Context, ownerID string, id uint64) (*domain.Memory, error)
	// FindSince returns memories updated after since (all when nil), newest update first.
	FindSince(ctx context.Context, ownerID string, since *time.Time) ([]domain.Memory, error)
	// FindAll lists an owner's memories newest first by creation time.
	FindAll(ctx context.Context, ownerID string) ([]domain.Memory, error)

	Create(ctx context.Context, memory *domain.Memory) error
	Save(ctx context.Context, memory *domain.Memory) error
	Upsert(ctx context.Context, memory *domain.Memory) error
	Delete(ctx context.Context, ownerID string, id uint64) error

	MaxID(ctx context.Context, ownerID string) (uint64, error)
}
