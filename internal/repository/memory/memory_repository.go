// File: internal/repository/memory/memory_repository.go
package memory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iyunix/go-chatsync/internal/domain"
	"github.com/iyunix/go-chatsync/internal/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrMemoryNotFound = errors.New("memory not found")

type gormMemoryRepository struct {
	db     *gorm.DB
	logger repository.Logger
}

func NewMemoryRepository(db *gorm.DB, logger repository.Logger) MemoryRepository {
	return &gormMemoryRepository{db: db, logger: logger}
}

func (r *gormMemoryRepository) FindByKey(ctx context.Context, ownerID string, id uint64) (*domain.Memory, error) {
	if ownerID == "" || id == 0 {
		return nil, ErrMemoryNotFound
	}

	var memory domain.Memory
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Take(&memory).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemoryNotFound
		}
		r.logger.Error("[MemoryRepository] lookup failed", "owner_id", ownerID, "error", err)
		return nil, fmt.Errorf("find memory: %w", err)
	}
	return &memory, nil
}

func (r *gormMemoryRepository) FindSince(ctx context.Context, ownerID string, since *time.Time) ([]domain.Memory, error) {
	query := r.db.WithContext(ctx).Where("owner_id = ?", ownerID)
	if since != nil {
		query = query.Where("updated_at > ?", domain.NormalizeTime(*since))
	}

	memories := make([]domain.Memory, 0)
	if err := query.Order("updated_at DESC, id DESC").Find(&memories).Error; err != nil {
		r.logger.Error("[MemoryRepository] changed memories query failed", "owner_id", ownerID, "error", err)
		return nil, fmt.Errorf("find memories since: %w", err)
	}
	return memories, nil
}

func (r *gormMemoryRepository) FindAll(ctx context.Context, ownerID string) ([]domain.Memory, error) {
	memories := make([]domain.Memory, 0)
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC, id DESC").
		Find(&memories).Error
	if err != nil {
		r.logger.Error("[MemoryRepository] list failed", "owner_id", ownerID, "error", err)
		return nil, fmt.Errorf("list memories: %w", err)
	}
	return memories, nil
}

func (r *gormMemoryRepository) Create(ctx context.Context, memory *domain.Memory) error {
	if err := memory.Validate(); err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).Create(memory).Error; err != nil {
		if !repository.IsDuplicateKey(err) {
			r.logger.Error("[MemoryRepository] memory insert failed", "owner_id", memory.OwnerID, "error", err)
		}
		return repository.TranslateWriteError("create memory", err)
	}
	return nil
}

func (r *gormMemoryRepository) Save(ctx context.Context, memory *domain.Memory) error {
	if err := memory.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&domain.Memory{}).
		Where("owner_id = ? AND id = ?", memory.OwnerID, memory.ID).
		Select("content", "created_at", "updated_at").
		Updates(memory)
	if result.Error != nil {
		r.logger.Error("[MemoryRepository] memory update failed", "owner_id", memory.OwnerID, "error", result.Error)
		return fmt.Errorf("save memory: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrMemoryNotFound
	}
	return nil
}

func (r *gormMemoryRepository) Upsert(ctx context.Context, memory *domain.Memory) error {
	if err := memory.Validate(); err != nil {
		return err
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(memory).Error
	if err != nil {
		r.logger.Error("[MemoryRepository] memory upsert failed", "owner_id", memory.OwnerID, "error", err)
		return fmt.Errorf("upsert memory: %w", err)
	}
	return nil
}

func (r *gormMemoryRepository) Delete(ctx context.Context, ownerID string, id uint64) error {
	result := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Delete(&domain.Memory{})
	if result.Error != nil {
		r.logger.Error("[MemoryRepository] delete failed", "owner_id", ownerID, "error", result.Error)
		return fmt.Errorf("delete memory: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrMemoryNotFound
	}
	return nil
}

func (r *gormMemoryRepository) MaxID(ctx context.Context, ownerID string) (uint64, error) {
	var maxID uint64
	err := r.db.WithContext(ctx).
		Model(&domain.Memory{}).
		Where("owner_id = ?", ownerID).
		Select("COALESCE(MAX(id), 0)").
		Scan(&maxID).Error
	if err != nil {
		r.logger.Error("[MemoryRepository] max id query failed", "owner_id", ownerID, "error", err)
		return 0, fmt.Errorf("max memory id: %w", err)
	}
	return maxID, nil
}
