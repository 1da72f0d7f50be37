// File: internal/services/chat_service.go
package services

import (
	"context"
	"strings"
	"time"

	"github.com/iyunix/go-chatsync/internal/domain"
	"github.com/iyunix/go-chatsync/internal/repository"
	"github.com/iyunix/go-chatsync/internal/repository/chat"
	"github.com/iyunix/go-chatsync/internal/repository/message"
	"github.com/iyunix/go-chatsync/internal/services/allocator"
	"github.com/iyunix/go-chatsync/internal/services/quota"
)

// ChatService backs the direct chat routes.
type ChatService struct {
	chatRepo    chat.ChatRepository
	messageRepo message.MessageRepository
	creator     *allocator.Creator
	guard       *quota.Guard
	clock       domain.Clock
	logger      Logger
}

func NewChatService(
	chatRepo chat.ChatRepository,
	messageRepo message.MessageRepository,
	creator *allocator.Creator,
	guard *quota.Guard,
	clock domain.Clock,
	logger Logger,
) *ChatService {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &ChatService{
		chatRepo:    chatRepo,
		messageRepo: messageRepo,
		creator:     creator,
		guard:       guard,
		clock:       clock,
		logger:      logger,
	}
}

// NewChat carries the fields of a direct create. Nil timestamps default to now.
type NewChat struct {
	Title     string
	CreatedAt *time.Time
	UpdatedAt *time.Time
}

// ChatUpdate carries the fields a direct chat update may set.
type ChatUpdate struct {
	Title     *string
	UpdatedAt *time.Time
}

func (s *ChatService) ListChats(ctx context.Context, ownerID string, page repository.Page) ([]domain.Chat, error) {
	chats, err := s.chatRepo.FindLivePage(ctx, ownerID, page)
	if err != nil {
		return nil, storeError("list_chats", err)
	}
	return chats, nil
}

func (s *ChatService) GetChat(ctx context.Context, ownerID string, chatID uint64) (*domain.Chat, error) {
	c, err := s.chatRepo.FindLive(ctx, ownerID, chatID)
	if err != nil {
		return nil, storeError("get_chat", err)
	}
	return c, nil
}

// CreateChat enforces the live-chat quota, then inserts under a freshly allocated id.
func (s *ChatService) CreateChat(ctx context.Context, ownerID string, draft NewChat) (*domain.Chat, error) {
	title := strings.TrimSpace(draft.Title)
	if title == "" {
		title = domain.DefaultChatTitle
	}

	if err := s.guard.CheckAndReserve(ctx, ownerID); err != nil {
		s.logger.Warn("chat quota reached", "owner_id", ownerID, "limit", s.guard.Limit())
		return nil, err
	}

	now := s.clock.Now()
	newChat := &domain.Chat{
		OwnerID:   ownerID,
		Title:     title,
		CreatedAt: timeOr(draft.CreatedAt, now),
		UpdatedAt: timeOr(draft.UpdatedAt, now),
	}
	_, err := s.creator.CreateWithRetry(ctx, allocator.ChatScope(ownerID), func(ctx context.Context, id uint64) error {
		newChat.ID = id
		return s.chatRepo.Create(ctx, newChat)
	})
	if err != nil {
		return nil, storeError("create_chat", err)
	}

	s.logger.Info("chat created", "owner_id", ownerID, "chat_id", newChat.ID)
	return newChat, nil
}

// UpdateChat changes the title and moves updatedAt forward, never back.
func (s *ChatService) UpdateChat(ctx context.Context, ownerID string, chatID uint64, update ChatUpdate) (*domain.Chat, error) {
	c, err := s.chatRepo.FindLive(ctx, ownerID, chatID)
	if err != nil {
		return nil, storeError("update_chat", err)
	}

	if update.Title != nil {
		c.Title = strings.TrimSpace(*update.Title)
	}
	if update.UpdatedAt != nil {
		c.Touch(*update.UpdatedAt)
	} else {
		c.Touch(s.clock.Now())
	}

	if err := s.chatRepo.Save(ctx, c); err != nil {
		return nil, storeError("update_chat", err)
	}
	return c, nil
}

// DeleteChat tombstones the chat and hard-deletes its messages.
func (s *ChatService) DeleteChat(ctx context.Context, ownerID string, chatID uint64) error {
	if err := s.chatRepo.SoftDelete(ctx, ownerID, chatID, s.clock.Now()); err != nil {
		return storeError("delete_chat", err)
	}

	purged, err := s.messageRepo.DeleteByChat(ctx, ownerID, chatID)
	if err != nil {
		return storeError("delete_chat", err)
	}

	s.logger.Info("chat deleted", "owner_id", ownerID, "chat_id", chatID, "messages_purged", purged)
	return nil
}

// DeleteAllChats tombstones every live chat of the owner and purges their messages.
// It returns the number of chats deleted.
func (s *ChatService) DeleteAllChats(ctx context.Context, ownerID string) (int, error) {
	ids, err := s.chatRepo.SoftDeleteAll(ctx, ownerID, s.clock.Now())
	if err != nil {
		return 0, storeError("delete_all_chats", err)
	}

	purged, err := s.messageRepo.DeleteByChats(ctx, ownerID, ids)
	if err != nil {
		return 0, storeError("delete_all_chats", err)
	}

	s.logger.Info("all chats deleted", "owner_id", ownerID, "chats", len(ids), "messages_purged", purged)
	return len(ids), nil
}

func timeOr(t *time.Time, fallback time.Time) time.Time {
	if t == nil || t.IsZero() {
		return fallback
	}
	return domain.NormalizeTime(*t)
}
