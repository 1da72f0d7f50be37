package reconcile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iyunix/go-chatsync/internal/domain"
	"github.com/iyunix/go-chatsync/internal/repository"
	"github.com/iyunix/go-chatsync/internal/repository/chat"
	"github.com/iyunix/go-chatsync/internal/repository/memory"
	"github.com/iyunix/go-chatsync/internal/repository/message"
	"github.com/iyunix/go-chatsync/internal/services/allocator"
)

// Push applies a device's local changes item by item: absent keys are created,
// present keys are overwritten with the incoming values regardless of which side
// is newer. A failing item is reported in its batch's errors and never stops the
// rest. Writes are not rolled back when the request is cancelled midway.
//
// Chats are applied before messages so a batch may carry a new chat together
// with its first messages. The chat quota does not apply here.
func (e *Engine) Push(ctx context.Context, ownerID string, batch Batch) (*PushResult, error) {
	if ownerID == "" {
		return nil, domain.NewValidationError("push", "owner id is required")
	}

	result := &PushResult{
		Chats:    BatchResult{Errors: []ItemError{}},
		Messages: BatchResult{Errors: []ItemError{}},
		Memories: BatchResult{Errors: []ItemError{}},
	}

	for i := range batch.Chats {
		o, err := e.pushChat(ctx, ownerID, batch.Chats[i])
		if err != nil {
			result.Chats.fail(batch.Chats[i].ID, 0, err)
			continue
		}
		result.Chats.record(o)
	}

	for i := range batch.Messages {
		o, err := e.pushMessage(ctx, ownerID, batch.Messages[i])
		if err != nil {
			result.Messages.fail(batch.Messages[i].ID, batch.Messages[i].ChatID, err)
			continue
		}
		result.Messages.record(o)
	}

	for i := range batch.Memories {
		o, err := e.pushMemory(ctx, ownerID, batch.Memories[i])
		if err != nil {
			result.Memories.fail(batch.Memories[i].ID, 0, err)
			continue
		}
		result.Memories.record(o)
	}

	e.logger.Info("push applied",
		"owner_id", ownerID,
		"chats_created", result.Chats.Created, "chats_updated", result.Chats.Updated, "chat_errors", len(result.Chats.Errors),
		"messages_created", result.Messages.Created, "messages_updated", result.Messages.Updated, "message_errors", len(result.Messages.Errors),
		"memories_created", result.Memories.Created, "memories_updated", result.Memories.Updated, "memory_errors", len(result.Memories.Errors))
	return result, nil
}

// pushChat never changes a stored chat's createdAt or tombstone, and moves its
// updatedAt forward to the server clock.
func (e *Engine) pushChat(ctx context.Context, ownerID string, in domain.Chat) (outcome, error) {
	const op = "push_chat"
	now := e.clock.Now()

	in.OwnerID = ownerID
	in.DeletedAt = nil
	if strings.TrimSpace(in.Title) == "" {
		in.Title = domain.DefaultChatTitle
	}
	in.CreatedAt = orNow(in.CreatedAt, now)
	in.UpdatedAt = orNow(in.UpdatedAt, now)

	if in.ID == 0 {
		_, err := e.creator.CreateWithRetry(ctx, allocator.ChatScope(ownerID), func(ctx context.Context, id uint64) error {
			in.ID = id
			return e.chats.Create(ctx, &in)
		})
		if err != nil {
			return 0, classify(op, err)
		}
		return outcomeCreated, nil
	}

	existing, err := e.chats.FindByKey(ctx, ownerID, in.ID)
	switch {
	case errors.Is(err, chat.ErrChatNotFound):
		err = e.chats.Create(ctx, &in)
		if err == nil {
			return outcomeCreated, nil
		}
		if !repository.IsDuplicateKey(err) {
			return 0, classify(op, err)
		}
		e.logger.Debug("chat created concurrently, overwriting", "owner_id", ownerID, "chat_id", in.ID)
		if existing, err = e.chats.FindByKey(ctx, ownerID, in.ID); err != nil {
			return 0, classify(op, err)
		}
	case err != nil:
		return 0, classify(op, err)
	}

	existing.Title = in.Title
	existing.Touch(now)
	if err := e.chats.Save(ctx, existing); err != nil {
		return 0, classify(op, err)
	}
	return outcomeUpdated, nil
}

// pushMessage creates messages only under a live chat of the same owner. Every
// successful write bumps the parent chat so pulls pick the chat up again.
func (e *Engine) pushMessage(ctx context.Context, ownerID string, in domain.Message) (outcome, error) {
	const op = "push_message"
	now := e.clock.Now()

	if in.ChatID == 0 {
		return 0, domain.NewValidationError(op, "chat id is required")
	}
	in.OwnerID = ownerID
	hasTimestamp := !in.Timestamp.IsZero()
	in.Timestamp = orNow(in.Timestamp, now)

	var (
		o   outcome
		err error
	)
	if in.ID == 0 {
		o, err = e.createMessage(ctx, &in, true)
	} else {
		o, err = e.upsertMessage(ctx, &in, hasTimestamp)
	}
	if err != nil {
		return 0, classify(op, err)
	}

	if err := e.chats.Touch(ctx, ownerID, in.ChatID, now); err != nil && !errors.Is(err, chat.ErrChatNotFound) {
		e.logger.Warn("could not bump chat after message write", "owner_id", ownerID, "chat_id", in.ChatID, "error", err)
	}
	return o, nil
}

func (e *Engine) upsertMessage(ctx context.Context, in *domain.Message, hasTimestamp bool) (outcome, error) {
	existing, err := e.messages.FindByKey(ctx, in.OwnerID, in.ChatID, in.ID)
	switch {
	case errors.Is(err, message.ErrMessageNotFound):
		o, err := e.createMessage(ctx, in, false)
		if err == nil {
			return o, nil
		}
		if !repository.IsDuplicateKey(err) {
			return 0, err
		}
		e.logger.Debug("message created concurrently, overwriting", "owner_id", in.OwnerID, "chat_id", in.ChatID, "message_id", in.ID)
		if existing, err = e.messages.FindByKey(ctx, in.OwnerID, in.ChatID, in.ID); err != nil {
			return 0, err
		}
	case err != nil:
		return 0, err
	}

	if !hasTimestamp {
		in.Timestamp = existing.Timestamp
	}
	if err := e.messages.Save(ctx, in); err != nil {
		return 0, err
	}
	return outcomeUpdated, nil
}

func (e *Engine) createMessage(ctx context.Context, in *domain.Message, allocate bool) (outcome, error) {
	if _, err := e.chats.FindLive(ctx, in.OwnerID, in.ChatID); err != nil {
		if errors.Is(err, chat.ErrChatNotFound) {
			return 0, domain.NewNotFoundError("push_message", fmt.Sprintf("chat %d not found", in.ChatID))
		}
		return 0, err
	}

	if !allocate {
		if err := e.messages.Create(ctx, in); err != nil {
			return 0, err
		}
		return outcomeCreated, nil
	}

	_, err := e.creator.CreateWithRetry(ctx, allocator.MessageScope(in.OwnerID, in.ChatID), func(ctx context.Context, id uint64) error {
		in.ID = id
		return e.messages.Create(ctx, in)
	})
	if err != nil {
		return 0, err
	}
	return outcomeCreated, nil
}

// pushMemory takes the incoming content and updatedAt on overwrite.
func (e *Engine) pushMemory(ctx context.Context, ownerID string, in domain.Memory) (outcome, error) {
	const op = "push_memory"
	now := e.clock.Now()

	in.OwnerID = ownerID
	in.CreatedAt = orNow(in.CreatedAt, now)
	in.UpdatedAt = orNow(in.UpdatedAt, now)

	if in.ID == 0 {
		_, err := e.creator.CreateWithRetry(ctx, allocator.MemoryScope(ownerID), func(ctx context.Context, id uint64) error {
			in.ID = id
			return e.memories.Create(ctx, &in)
		})
		if err != nil {
			return 0, classify(op, err)
		}
		return outcomeCreated, nil
	}

	existing, err := e.memories.FindByKey(ctx, ownerID, in.ID)
	switch {
	case errors.Is(err, memory.ErrMemoryNotFound):
		err = e.memories.Create(ctx, &in)
		if err == nil {
			return outcomeCreated, nil
		}
		if !repository.IsDuplicateKey(err) {
			return 0, classify(op, err)
		}
		if existing, err = e.memories.FindByKey(ctx, ownerID, in.ID); err != nil {
			return 0, classify(op, err)
		}
	case err != nil:
		return 0, classify(op, err)
	}

	existing.Content = in.Content
	existing.UpdatedAt = in.UpdatedAt
	if err := e.memories.Save(ctx, existing); err != nil {
		return 0, classify(op, err)
	}
	return outcomeUpdated, nil
}

func orNow(t, now time.Time) time.Time {
	if t.IsZero() {
		return now
	}
	return domain.NormalizeTime(t)
}
