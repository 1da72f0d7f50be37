// File: internal/repository/message/message_repository.go
package message

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

var ErrMessageNotFound = errors.New("message not found")

const maxPageSize = 1000

type gormMessageRepository struct {
	db     *gorm.DB
	logger repository.Logger
}

func NewMessageRepository(db *gorm.DB, logger repository.Logger) MessageRepository {
	return &gormMessageRepository{db: db, logger: logger}
}

func (r *gormMessageRepository) FindByKey(ctx context.Context, ownerID string, chatID, id uint64) (*domain.Message, error) {
	if ownerID == "" || chatID == 0 || id == 0 {
		return nil, ErrMessageNotFound
	}

	var message domain.Message
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND chat_id = ? AND id = ?", ownerID, chatID, id).
		Take(&message).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		r.logger.Error("[MessageRepository] lookup failed", "owner_id", ownerID, "chat_id", chatID, "error", err)
		return nil, fmt.Errorf("find message: %w", err)
	}
	return &message, nil
}

func (r *gormMessageRepository) FindSince(ctx context.Context, ownerID string, chatIDs []uint64, since time.Time) ([]domain.Message, error) {
	messages := make([]domain.Message, 0)
	if len(chatIDs) == 0 {
		return messages, nil
	}

	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND chat_id IN ? AND timestamp > ?", ownerID, chatIDs, domain.NormalizeTime(since)).
		Order("timestamp ASC, chat_id ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		r.logger.Error("[MessageRepository] changed messages query failed", "owner_id", ownerID, "chats", len(chatIDs), "error", err)
		return nil, fmt.Errorf("find messages since: %w", err)
	}
	return messages, nil
}

func (r *gormMessageRepository) FindPageByChat(ctx context.Context, ownerID string, chatID uint64, page repository.Page) ([]domain.Message, error) {
	page = page.Normalize(200, maxPageSize)

	messages := make([]domain.Message, 0, page.Limit)
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND chat_id = ?", ownerID, chatID).
		Order("timestamp DESC, id DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&messages).Error
	if err != nil {
		r.logger.Error("[MessageRepository] paginated query failed", "owner_id", ownerID, "chat_id", chatID, "error", err)
		return nil, fmt.Errorf("find message page: %w", err)
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (r *gormMessageRepository) Create(ctx context.Context, message *domain.Message) error {
	if err := message.Validate(); err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		if !repository.IsDuplicateKey(err) {
			r.logger.Error("[MessageRepository] message insert failed", "owner_id", message.OwnerID, "chat_id", message.ChatID, "error", err)
		}
		return repository.TranslateWriteError("create message", err)
	}
	return nil
}

func (r *gormMessageRepository) Save(ctx context.Context, message *domain.Message) error {
	if err := message.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&domain.Message{}).
		Where("owner_id = ? AND chat_id = ? AND id = ?", message.OwnerID, message.ChatID, message.ID).
		Select("*").
		Omit("owner_id", "chat_id", "id").
		Updates(message)
	if result.Error != nil {
		r.logger.Error("[MessageRepository] message update failed", "owner_id", message.OwnerID, "chat_id", message.ChatID, "error", result.Error)
		return fmt.Errorf("save message: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrMessageNotFound
	}
	return nil
}

func (r *gormMessageRepository) Upsert(ctx context.Context, message *domain.Message) error {
	if err := message.Validate(); err != nil {
		return err
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(message).Error
	if err != nil {
		r.logger.Error("[MessageRepository] message upsert failed", "owner_id", message.OwnerID, "chat_id", message.ChatID, "error", err)
		return fmt.Errorf("upsert message: %w", err)
	}
	return nil
}

func (r *gormMessageRepository) Delete(ctx context.Context, ownerID string, chatID, id uint64) error {
	result := r.db.WithContext(ctx).
		Where("owner_id = ? AND chat_id = ? AND id = ?", ownerID, chatID, id).
		Delete(&domain.Message{})
	if result.Error != nil {
		r.logger.Error("[MessageRepository] delete failed", "owner_id", ownerID, "chat_id", chatID, "error", result.Error)
		return fmt.Errorf("delete message: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrMessageNotFound
	}
	return nil
}

func (r *gormMessageRepository) DeleteByChat(ctx context.Context, ownerID string, chatID uint64) (int64, error) {
	return r.DeleteByChats(ctx, ownerID, []uint64{chatID})
}

func (r *gormMessageRepository) DeleteByChats(ctx context.Context, ownerID string, chatIDs []uint64) (int64, error) {
	if len(chatIDs) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).
		Where("owner_id = ? AND chat_id IN ?", ownerID, chatIDs).
		Delete(&domain.Message{})
	if result.Error != nil {
		r.logger.Error("[MessageRepository] bulk delete failed", "owner_id", ownerID, "chats", len(chatIDs), "error", result.Error)
		return 0, fmt.Errorf("delete messages by chat: %w", result.Error)
	}

	r.logger.Info("[MessageRepository] messages purged", "owner_id", ownerID, "chats", len(chatIDs), "count", result.RowsAffected)
	return result.RowsAffected, nil
}

func (r *gormMessageRepository) CountByChat(ctx context.Context, ownerID string, chatID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Message{}).
		Where("owner_id = ? AND chat_id = ?", ownerID, chatID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count messages: %w", err)
	}
	return count, nil
}

func (r *gormMessageRepository) MaxID(ctx context.Context, ownerID string, chatID uint64) (uint64, error) {
	var maxID uint64
	err := r.db.WithContext(ctx).
		Model(&domain.Message{}).
		Where("owner_id = ? AND chat_id = ?", ownerID, chatID).
		Select("COALESCE(MAX(id), 0)").
		Scan(&maxID).Error
	if err != nil {
		r.logger.Error("[MessageRepository] max id query failed", "owner_id", ownerID, "chat_id", chatID, "error", err)
		return 0, fmt.Errorf("max message id: %w", err)
	}
	return maxID, nil
}
