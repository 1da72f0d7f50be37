package reconcile

import (
	"time"

	"github.com/iyunix/go-chatsync/internal/domain"
)

// Logger mirrors services.Logger.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// PullResult is everything that changed after the watermark.
type PullResult struct {
	Chats    []domain.Chat
	Messages []domain.Message
	Memories []domain.Memory
	// SyncedAt is the watermark the client should send on its next pull.
	SyncedAt time.Time
}

// Batch carries the client's local changes. Ids are client-chosen; an id of 0
// asks the server to allocate one. Zero timestamps default to the server clock.
// OwnerID on the items is ignored and replaced by the authenticated owner.
type Batch struct {
	Chats    []domain.Chat
	Messages []domain.Message
	Memories []domain.Memory
}

// ItemError reports one rejected item of a batch.
type ItemError struct {
	ID     uint64
	ChatID uint64
	Kind   domain.ErrorKind
	Error  string
}

type BatchResult struct {
	Created int
	Updated int
	Errors  []ItemError
}

type PushResult struct {
	Chats    BatchResult
	Messages BatchResult
	Memories BatchResult
}

type outcome int

const (
	outcomeCreated outcome = iota + 1
	outcomeUpdated
)

func (b *BatchResult) record(o outcome) {
	switch o {
	case outcomeCreated:
		b.Created++
	case outcomeUpdated:
		b.Updated++
	}
}

func (b *BatchResult) fail(id, chatID uint64, err error) {
	b.Errors = append(b.Errors, ItemError{
		ID:     id,
		ChatID: chatID,
		Kind:   domain.KindOf(err),
		Error:  domain.MessageOf(err),
	})
}
