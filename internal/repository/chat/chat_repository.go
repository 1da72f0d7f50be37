// File: internal/repository/chat/chat_repository.go
package chat

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

var ErrChatNotFound = errors.New("chat not found")

const maxPageSize = 1000

type gormChatRepository struct {
	db     *gorm.DB
	logger repository.Logger
}

func NewChatRepository(db *gorm.DB, logger repository.Logger) ChatRepository {
	return &gormChatRepository{db: db, logger: logger}
}

func (r *gormChatRepository) FindByKey(ctx context.Context, ownerID string, id uint64) (*domain.Chat, error) {
	if ownerID == "" || id == 0 {
		return nil, ErrChatNotFound
	}

	var chat domain.Chat
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Take(&chat).Error
	return r.handleFindError(err, &chat, "FindByKey")
}

func (r *gormChatRepository) FindLive(ctx context.Context, ownerID string, id uint64) (*domain.Chat, error) {
	if ownerID == "" || id == 0 {
		return nil, ErrChatNotFound
	}

	var chat domain.Chat
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ? AND deleted_at IS NULL", ownerID, id).
		Take(&chat).Error
	return r.handleFindError(err, &chat, "FindLive")
}

func (r *gormChatRepository) FindSince(ctx context.Context, ownerID string, since *time.Time) ([]domain.Chat, error) {
	query := r.db.WithContext(ctx).
		Where("owner_id = ? AND deleted_at IS NULL", ownerID)
	if since != nil {
		query = query.Where("updated_at > ?", domain.NormalizeTime(*since))
	}

	chats := make([]domain.Chat, 0)
	if err := query.Order("updated_at DESC, id DESC").Find(&chats).Error; err != nil {
		r.logger.Error("[ChatRepository] changed chats query failed", "owner_id", ownerID, "error", err)
		return nil, fmt.Errorf("find chats since: %w", err)
	}
	return chats, nil
}

func (r *gormChatRepository) FindLivePage(ctx context.Context, ownerID string, page repository.Page) ([]domain.Chat, error) {
	page = page.Normalize(100, maxPageSize)

	chats := make([]domain.Chat, 0, page.Limit)
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND deleted_at IS NULL", ownerID).
		Order("updated_at DESC, id DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&chats).Error
	if err != nil {
		r.logger.Error("[ChatRepository] paginated query failed", "owner_id", ownerID, "error", err)
		return nil, fmt.Errorf("find chat page: %w", err)
	}
	return chats, nil
}

func (r *gormChatRepository) Create(ctx context.Context, chat *domain.Chat) error {
	if err := chat.Validate(); err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).Create(chat).Error; err != nil {
		if repository.IsDuplicateKey(err) {
			r.logger.Debug("[ChatRepository] chat id already taken", "owner_id", chat.OwnerID, "chat_id", chat.ID)
		} else {
			r.logger.Error("[ChatRepository] chat insert failed", "owner_id", chat.OwnerID, "chat_id", chat.ID, "error", err)
		}
		return repository.TranslateWriteError("create chat", err)
	}
	return nil
}

func (r *gormChatRepository) Save(ctx context.Context, chat *domain.Chat) error {
	if err := chat.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&domain.Chat{}).
		Where("owner_id = ? AND id = ?", chat.OwnerID, chat.ID).
		Select("title", "created_at", "updated_at", "deleted_at").
		Updates(chat)
	if result.Error != nil {
		r.logger.Error("[ChatRepository] chat update failed", "owner_id", chat.OwnerID, "chat_id", chat.ID, "error", result.Error)
		return fmt.Errorf("save chat: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrChatNotFound
	}
	return nil
}

func (r *gormChatRepository) Upsert(ctx context.Context, chat *domain.Chat) error {
	if err := chat.Validate(); err != nil {
		return err
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(chat).Error
	if err != nil {
		r.logger.Error("[ChatRepository] chat upsert failed", "owner_id", chat.OwnerID, "chat_id", chat.ID, "error", err)
		return fmt.Errorf("upsert chat: %w", err)
	}
	return nil
}

func (r *gormChatRepository) SoftDelete(ctx context.Context, ownerID string, id uint64, at time.Time) error {
	at = domain.NormalizeTime(at)

	result := r.db.WithContext(ctx).
		Model(&domain.Chat{}).
		Where("owner_id = ? AND id = ? AND deleted_at IS NULL", ownerID, id).
		Updates(map[string]interface{}{
			"deleted_at": at,
			"updated_at": gorm.Expr("MAX(updated_at, ?)", at),
		})
	if result.Error != nil {
		r.logger.Error("[ChatRepository] soft delete failed", "owner_id", ownerID, "chat_id", id, "error", result.Error)
		return fmt.Errorf("soft delete chat: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrChatNotFound
	}

	r.logger.Info("[ChatRepository] chat tombstoned", "owner_id", ownerID, "chat_id", id)
	return nil
}

func (r *gormChatRepository) SoftDeleteAll(ctx context.Context, ownerID string, at time.Time) ([]uint64, error) {
	at = domain.NormalizeTime(at)

	var ids []uint64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Chat{}).
			Where("owner_id = ? AND deleted_at IS NULL", ownerID).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		return tx.Model(&domain.Chat{}).
			Where("owner_id = ? AND id IN ?", ownerID, ids).
			Updates(map[string]interface{}{
				"deleted_at": at,
				"updated_at": gorm.Expr("MAX(updated_at, ?)", at),
			}).Error
	})
	if err != nil {
		r.logger.Error("[ChatRepository] bulk soft delete failed", "owner_id", ownerID, "error", err)
		return nil, fmt.Errorf("soft delete all chats: %w", err)
	}

	r.logger.Info("[ChatRepository] chats tombstoned", "owner_id", ownerID, "count", len(ids))
	return ids, nil
}

func (r *gormChatRepository) Touch(ctx context.Context, ownerID string, id uint64, at time.Time) error {
	at = domain.NormalizeTime(at)

	result := r.db.WithContext(ctx).
		Model(&domain.Chat{}).
		Where("owner_id = ? AND id = ? AND deleted_at IS NULL", ownerID, id).
		Update("updated_at", gorm.Expr("MAX(updated_at, ?)", at))
	if result.Error != nil {
		r.logger.Error("[ChatRepository] touch failed", "owner_id", ownerID, "chat_id", id, "error", result.Error)
		return fmt.Errorf("touch chat: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrChatNotFound
	}
	return nil
}

func (r *gormChatRepository) CountLive(ctx context.Context, ownerID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Chat{}).
		Where("owner_id = ? AND deleted_at IS NULL", ownerID).
		Count(&count).Error
	if err != nil {
		r.logger.Error("[ChatRepository] count failed", "owner_id", ownerID, "error", err)
		return 0, fmt.Errorf("count live chats: %w", err)
	}
	return count, nil
}

func (r *gormChatRepository) MaxID(ctx context.Context, ownerID string) (uint64, error) {
	var maxID uint64
	err := r.db.WithContext(ctx).
		Model(&domain.Chat{}).
		Where("owner_id = ?", ownerID).
		Select("COALESCE(MAX(id), 0)").
		Scan(&maxID).Error
	if err != nil {
		r.logger.Error("[ChatRepository] max id query failed", "owner_id", ownerID, "error", err)
		return 0, fmt.Errorf("max chat id: %w", err)
	}
	return maxID, nil
}

// handleFindError maps gorm's not-found to ErrChatNotFound.
func (r *gormChatRepository) handleFindError(err error, chat *domain.Chat, operation string) (*domain.Chat, error) {
	if err == nil {
		return chat, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrChatNotFound
	}
	r.logger.Error("[ChatRepository] lookup failed", "operation", operation, "error", err)
	return nil, fmt.Errorf("%s: %w", operation, err)
}
