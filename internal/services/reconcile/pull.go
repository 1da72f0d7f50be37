package reconcile

import (
	"context"
	"time"

	"github.com/iyunix/go-chatsync/internal/domain"
	"golang.org/x/sync/errgroup"
)

// Pull returns the owner's live chats and memories changed after since, plus the
// messages of those chats written after since. Without a watermark it returns
// every live chat and memory and no messages; clients page messages per chat.
// Tombstoned chats are never returned.
//
// The sub-queries are not isolated from concurrent pushes. Any failure fails the
// whole pull.
func (e *Engine) Pull(ctx context.Context, ownerID string, since *time.Time) (*PullResult, error) {
	if ownerID == "" {
		return nil, domain.NewValidationError("pull", "owner id is required")
	}
	if since != nil {
		normalized := domain.NormalizeTime(*since)
		since = &normalized
	}

	// Taken before the queries so a write racing this pull is seen by the next one.
	syncedAt := e.clock.Now()

	result := &PullResult{
		Chats:    []domain.Chat{},
		Messages: []domain.Message{},
		Memories: []domain.Memory{},
		SyncedAt: syncedAt,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		chats, err := e.chats.FindSince(gctx, ownerID, since)
		if err != nil {
			return err
		}
		result.Chats = chats

		if since == nil || len(chats) == 0 {
			return nil
		}
		chatIDs := make([]uint64, len(chats))
		for i := range chats {
			chatIDs[i] = chats[i].ID
		}
		messages, err := e.messages.FindSince(gctx, ownerID, chatIDs, *since)
		if err != nil {
			return err
		}
		result.Messages = messages
		return nil
	})

	g.Go(func() error {
		memories, err := e.memories.FindSince(gctx, ownerID, since)
		if err != nil {
			return err
		}
		result.Memories = memories
		return nil
	})

	if err := g.Wait(); err != nil {
		e.logger.Error("pull failed", "owner_id", ownerID, "error", err)
		return nil, domain.NewInternalError("pull", "could not read changes", err)
	}

	e.logger.Debug("pull served",
		"owner_id", ownerID,
		"chats", len(result.Chats),
		"messages", len(result.Messages),
		"memories", len(result.Memories))
	return result, nil
}
