package services

import (
	"context"
	"strings"
	"time"

	"github.com/iyunix/go-chatsync/internal/domain"
	"github.com/iyunix/go-chatsync/internal/repository/memory"
	"github.com/iyunix/go-chatsync/internal/services/allocator"
)

// MemoryService backs the memory routes.
type MemoryService struct {
	memoryRepo memory.MemoryRepository
	creator    *allocator.Creator
	clock      domain.Clock
	logger     Logger
}

func NewMemoryService(memoryRepo memory.MemoryRepository, creator *allocator.Creator, clock domain.Clock, logger Logger) *MemoryService {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &MemoryService{memoryRepo: memoryRepo, creator: creator, clock: clock, logger: logger}
}

func (s *MemoryService) ListMemories(ctx context.Context, ownerID string) ([]domain.Memory, error) {
	memories, err := s.memoryRepo.FindAll(ctx, ownerID)
	if err != nil {
		return nil, storeError("list_memories", err)
	}
	return memories, nil
}

// NewMemory carries the fields of a direct create. Nil timestamps default to now.
type NewMemory struct {
	Content   string
	CreatedAt *time.Time
	UpdatedAt *time.Time
}

func (s *MemoryService) CreateMemory(ctx context.Context, ownerID string, draft NewMemory) (*domain.Memory, error) {
	now := s.clock.Now()
	mem := &domain.Memory{
		OwnerID:   ownerID,
		Content:   strings.TrimSpace(draft.Content),
		CreatedAt: timeOr(draft.CreatedAt, now),
		UpdatedAt: timeOr(draft.UpdatedAt, now),
	}

	_, err := s.creator.CreateWithRetry(ctx, allocator.MemoryScope(ownerID), func(ctx context.Context, id uint64) error {
		mem.ID = id
		return s.memoryRepo.Create(ctx, mem)
	})
	if err != nil {
		return nil, storeError("create_memory", err)
	}

	s.logger.Debug("memory created", "owner_id", ownerID, "memory_id", mem.ID)
	return mem, nil
}

func (s *MemoryService) UpdateMemory(ctx context.Context, ownerID string, memoryID uint64, content string) (*domain.Memory, error) {
	mem, err := s.memoryRepo.FindByKey(ctx, ownerID, memoryID)
	if err != nil {
		return nil, storeError("update_memory", err)
	}

	mem.Content = strings.TrimSpace(content)
	mem.UpdatedAt = s.clock.Now()
	if err := s.memoryRepo.Save(ctx, mem); err != nil {
		return nil, storeError("update_memory", err)
	}
	return mem, nil
}

func (s *MemoryService) DeleteMemory(ctx context.Context, ownerID string, memoryID uint64) error {
	if err := s.memoryRepo.Delete(ctx, ownerID, memoryID); err != nil {
		return storeError("delete_memory", err)
	}
	return nil
}
