package services

import (
	"context"
	"time"

	"github.com/iyunix/go-chatsync/internal/domain"
	"github.com/iyunix/go-chatsync/internal/repository"
	"github.com/iyunix/go-chatsync/internal/repository/chat"
	"github.com/iyunix/go-chatsync/internal/repository/message"
	"github.com/iyunix/go-chatsync/internal/services/allocator"
)

// MessageService backs the per-chat message routes. Every write bumps the chat.
type MessageService struct {
	chatRepo    chat.ChatRepository
	messageRepo message.MessageRepository
	creator     *allocator.Creator
	clock       domain.Clock
	logger      Logger
}

func NewMessageService(
	chatRepo chat.ChatRepository,
	messageRepo message.MessageRepository,
	creator *allocator.Creator,
	clock domain.Clock,
	logger Logger,
) *MessageService {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &MessageService{
		chatRepo:    chatRepo,
		messageRepo: messageRepo,
		creator:     creator,
		clock:       clock,
		logger:      logger,
	}
}

// ListMessages returns one page of a live chat's messages, oldest first within the page.
func (s *MessageService) ListMessages(ctx context.Context, ownerID string, chatID uint64, page repository.Page) ([]domain.Message, error) {
	if _, err := s.chatRepo.FindLive(ctx, ownerID, chatID); err != nil {
		return nil, storeError("list_messages", err)
	}

	messages, err := s.messageRepo.FindPageByChat(ctx, ownerID, chatID, page)
	if err != nil {
		return nil, storeError("list_messages", err)
	}
	return messages, nil
}

// CreateMessage allocates the next id within the chat. The message's ID,
// OwnerID and ChatID are set here; a zero Timestamp defaults to now.
func (s *MessageService) CreateMessage(ctx context.Context, ownerID string, chatID uint64, msg domain.Message) (*domain.Message, error) {
	if _, err := s.chatRepo.FindLive(ctx, ownerID, chatID); err != nil {
		return nil, storeError("create_message", err)
	}

	now := s.clock.Now()
	msg.OwnerID = ownerID
	msg.ChatID = chatID
	if msg.Timestamp.IsZero() {
		msg.Timestamp = now
	} else {
		msg.Timestamp = domain.NormalizeTime(msg.Timestamp)
	}

	_, err := s.creator.CreateWithRetry(ctx, allocator.MessageScope(ownerID, chatID), func(ctx context.Context, id uint64) error {
		msg.ID = id
		return s.messageRepo.Create(ctx, &msg)
	})
	if err != nil {
		return nil, storeError("create_message", err)
	}

	s.bumpChat(ctx, ownerID, chatID, now)
	return &msg, nil
}

func (s *MessageService) UpdateMessage(ctx context.Context, ownerID string, chatID, messageID uint64, patch domain.MessagePatch) (*domain.Message, error) {
	msg, err := s.messageRepo.FindByKey(ctx, ownerID, chatID, messageID)
	if err != nil {
		return nil, storeError("update_message", err)
	}

	patch.Apply(msg)
	if err := s.messageRepo.Save(ctx, msg); err != nil {
		return nil, storeError("update_message", err)
	}

	s.bumpChat(ctx, ownerID, chatID, s.clock.Now())
	return msg, nil
}

func (s *MessageService) DeleteMessage(ctx context.Context, ownerID string, chatID, messageID uint64) error {
	if err := s.messageRepo.Delete(ctx, ownerID, chatID, messageID); err != nil {
		return storeError("delete_message", err)
	}
	s.bumpChat(ctx, ownerID, chatID, s.clock.Now())
	return nil
}

func (s *MessageService) bumpChat(ctx context.Context, ownerID string, chatID uint64, at time.Time) {
	if err := s.chatRepo.Touch(ctx, ownerID, chatID, at); err != nil {
		s.logger.Warn("could not bump chat", "owner_id", ownerID, "chat_id", chatID, "error", err)
	}
}
