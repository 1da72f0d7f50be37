package reconcile

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/iyunix/go-chatsync/internal/domain"
	"github.com/iyunix/go-chatsync/internal/repository/chat"
	"github.com/iyunix/go-chatsync/internal/repository/memory"
	"github.com/iyunix/go-chatsync/internal/repository/message"
	"github.com/iyunix/go-chatsync/internal/services/allocator"
	"github.com/iyunix/go-chatsync/internal/testutil"
)

type harness struct {
	db       *gorm.DB
	clock    *domain.FixedClock
	chats    chat.ChatRepository
	messages message.MessageRepository
	memories memory.MemoryRepository
	engine   *Engine
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := testutil.OpenDB(t)
	log := testutil.NopLogger{}

	h := &harness{
		db:       db,
		clock:    &domain.FixedClock{At: testutil.At(0)},
		chats:    chat.NewChatRepository(db, log),
		messages: message.NewMessageRepository(db, log),
		memories: memory.NewMemoryRepository(db, log),
	}
	creator := allocator.NewCreator(
		allocator.NewMaxAllocator(h.chats, h.messages, h.memories),
		allocator.DefaultConfig(),
		log,
	)
	h.engine = NewEngine(h.chats, h.messages, h.memories, creator, h.clock, log)
	return h
}

func (h *harness) push(t *testing.T, owner string, batch Batch) *PushResult {
	t.Helper()
	res, err := h.engine.Push(context.Background(), owner, batch)
	require.NoError(t, err)
	return res
}

func (h *harness) pull(t *testing.T, owner string, since *time.Time) *PullResult {
	t.Helper()
	res, err := h.engine.Pull(context.Background(), owner, since)
	require.NoError(t, err)
	return res
}

func msg(chatID, id uint64, content string, ts int) domain.Message {
	return domain.Message{ChatID: chatID, ID: id, Role: domain.RoleUser, Content: content, Timestamp: testutil.At(ts)}
}

func ptr(t time.Time) *time.Time { return &t }

func TestPush_CreatesThenUpdates(t *testing.T) {
	h := newHarness(t)
	batch := Batch{
		Chats:    []domain.Chat{{ID: 1, Title: "Trip", CreatedAt: testutil.At(1), UpdatedAt: testutil.At(1)}},
		Messages: []domain.Message{msg(1, 1, "hello", 2)},
		Memories: []domain.Memory{{ID: 1, Content: "likes tea", CreatedAt: testutil.At(1), UpdatedAt: testutil.At(1)}},
	}

	first := h.push(t, "u1", batch)
	assert.Equal(t, 1, first.Chats.Created)
	assert.Equal(t, 1, first.Messages.Created)
	assert.Equal(t, 1, first.Memories.Created)
	assert.Empty(t, first.Messages.Errors)

	second := h.push(t, "u1", batch)
	assert.Equal(t, 0, second.Chats.Created)
	assert.Equal(t, 1, second.Chats.Updated)
	assert.Equal(t, 1, second.Messages.Updated)
	assert.Equal(t, 1, second.Memories.Updated)

	count, err := h.messages.CountByChat(context.Background(), "u1", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "re-pushing does not duplicate")
}

func TestPush_AllocatesWhenIDMissing(t *testing.T) {
	h := newHarness(t)
	h.push(t, "u1", Batch{Chats: []domain.Chat{{ID: 5, Title: "pushed"}}})

	res := h.push(t, "u1", Batch{
		Chats:    []domain.Chat{{Title: "server id"}},
		Messages: []domain.Message{{ChatID: 5, Role: domain.RoleUser, Content: "x"}},
	})
	assert.Equal(t, 1, res.Chats.Created)
	assert.Equal(t, 1, res.Messages.Created)

	c, err := h.chats.FindByKey(context.Background(), "u1", 6)
	require.NoError(t, err)
	assert.Equal(t, "server id", c.Title)

	m, err := h.messages.FindByKey(context.Background(), "u1", 5, 1)
	require.NoError(t, err)
	assert.True(t, m.Timestamp.Equal(testutil.At(0)), "missing timestamp defaults to the server clock")
}

func TestPush_PartialBatch(t *testing.T) {
	h := newHarness(t)
	h.push(t, "u1", Batch{Chats: []domain.Chat{{ID: 1, Title: "a"}}})

	res := h.push(t, "u1", Batch{Messages: []domain.Message{
		msg(1, 1, "one", 1),
		msg(99, 2, "orphan", 2),
		msg(1, 3, "three", 3),
	}})

	assert.Equal(t, 2, res.Messages.Created)
	require.Len(t, res.Messages.Errors, 1)
	assert.Equal(t, uint64(2), res.Messages.Errors[0].ID)
	assert.Equal(t, uint64(99), res.Messages.Errors[0].ChatID)
	assert.Equal(t, domain.ErrKindNotFound, res.Messages.Errors[0].Kind)
	assert.Equal(t, "chat 99 not found", res.Messages.Errors[0].Error)
}

func TestPush_RejectsMessageForOtherOwnersChat(t *testing.T) {
	h := newHarness(t)
	h.push(t, "alice", Batch{Chats: []domain.Chat{{ID: 1, Title: "private"}}})

	res := h.push(t, "bob", Batch{Messages: []domain.Message{msg(1, 1, "sneaky", 1)}})
	assert.Zero(t, res.Messages.Created)
	require.Len(t, res.Messages.Errors, 1)

	count, err := h.messages.CountByChat(context.Background(), "alice", 1)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestPush_InvalidItemsAreReported(t *testing.T) {
	h := newHarness(t)
	h.push(t, "u1", Batch{Chats: []domain.Chat{{ID: 1, Title: "a"}}})

	res := h.push(t, "u1", Batch{
		Messages: []domain.Message{{ChatID: 1, ID: 1, Role: "robot", Content: "x"}, {ID: 2, Role: domain.RoleUser, Content: "no chat"}},
		Memories: []domain.Memory{{ID: 1, Content: ""}},
	})

	require.Len(t, res.Messages.Errors, 2)
	assert.Equal(t, domain.ErrKindValidation, res.Messages.Errors[0].Kind)
	assert.Equal(t, domain.ErrKindValidation, res.Messages.Errors[1].Kind)
	require.Len(t, res.Memories.Errors, 1)
	assert.Equal(t, domain.ErrKindValidation, res.Memories.Errors[0].Kind)
}

func TestPush_BlankTitleDefaults(t *testing.T) {
	h := newHarness(t)
	h.push(t, "u1", Batch{Chats: []domain.Chat{{ID: 1, Title: "  "}}})

	c, err := h.chats.FindByKey(context.Background(), "u1", 1)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultChatTitle, c.Title)
}

func TestPush_IgnoresChatQuota(t *testing.T) {
	h := newHarness(t)
	chats := make([]domain.Chat, 101)
	for i := range chats {
		chats[i] = domain.Chat{ID: uint64(i + 1), Title: "c"}
	}

	res := h.push(t, "u1", Batch{Chats: chats})
	assert.Equal(t, 101, res.Chats.Created)

	count, err := h.chats.CountLive(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(101), count)
}

func TestPush_MessageWriteBumpsChat(t *testing.T) {
	h := newHarness(t)
	h.push(t, "u1", Batch{Chats: []domain.Chat{{ID: 1, Title: "a", UpdatedAt: testutil.At(0)}}})

	h.clock.Set(testutil.At(50))
	h.push(t, "u1", Batch{Messages: []domain.Message{msg(1, 1, "hi", 10)}})

	c, err := h.chats.FindByKey(context.Background(), "u1", 1)
	require.NoError(t, err)
	assert.True(t, c.UpdatedAt.Equal(testutil.At(50)))
}

func TestPush_DoesNotResurrectTombstone(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.push(t, "u1", Batch{Chats: []domain.Chat{{ID: 1, Title: "a"}}})
	require.NoError(t, h.chats.SoftDelete(ctx, "u1", 1, testutil.At(10)))

	h.clock.Set(testutil.At(20))
	res := h.push(t, "u1", Batch{
		Chats:    []domain.Chat{{ID: 1, Title: "stale device"}},
		Messages: []domain.Message{msg(1, 1, "late", 15)},
	})
	assert.Equal(t, 1, res.Chats.Updated)
	require.Len(t, res.Messages.Errors, 1, "messages cannot be created under a tombstone")

	_, err := h.chats.FindLive(ctx, "u1", 1)
	assert.ErrorIs(t, err, chat.ErrChatNotFound)
}

func TestPull_FullThenIncremental(t *testing.T) {
	h := newHarness(t)
	h.clock.Set(testutil.At(100))
	h.push(t, "u1", Batch{
		Chats: []domain.Chat{
			{ID: 1, Title: "old", CreatedAt: testutil.At(1), UpdatedAt: testutil.At(1)},
			{ID: 2, Title: "new", CreatedAt: testutil.At(2), UpdatedAt: testutil.At(2)},
		},
		Memories: []domain.Memory{{ID: 1, Content: "m", CreatedAt: testutil.At(3), UpdatedAt: testutil.At(3)}},
	})

	full := h.pull(t, "u1", nil)
	require.Len(t, full.Chats, 2)
	assert.Empty(t, full.Messages, "full pulls carry no messages")
	require.Len(t, full.Memories, 1)
	assert.True(t, full.SyncedAt.Equal(testutil.At(100)))

	h.clock.Set(testutil.At(101))
	h.push(t, "u1", Batch{Messages: []domain.Message{msg(2, 1, "hello", 101)}})

	inc := h.pull(t, "u1", ptr(full.SyncedAt))
	require.Len(t, inc.Chats, 1, "only the bumped chat")
	assert.Equal(t, uint64(2), inc.Chats[0].ID)
	require.Len(t, inc.Messages, 1)
	assert.Equal(t, "hello", inc.Messages[0].Content)
	assert.Empty(t, inc.Memories)
}

func TestPull_ResultSlicesAreNeverNil(t *testing.T) {
	h := newHarness(t)
	res := h.pull(t, "nobody", ptr(testutil.At(0)))

	assert.NotNil(t, res.Chats)
	assert.NotNil(t, res.Messages)
	assert.NotNil(t, res.Memories)
}

func TestPull_RequiresOwner(t *testing.T) {
	h := newHarness(t)
	_, err := h.engine.Pull(context.Background(), "", nil)
	assert.Equal(t, domain.ErrKindValidation, domain.KindOf(err))

	_, err = h.engine.Push(context.Background(), "", Batch{})
	assert.Equal(t, domain.ErrKindValidation, domain.KindOf(err))
}

func TestPull_OwnersAreIsolated(t *testing.T) {
	h := newHarness(t)
	h.push(t, "alice", Batch{Chats: []domain.Chat{{ID: 1, Title: "a"}}})

	res := h.pull(t, "bob", nil)
	assert.Empty(t, res.Chats)
}

// A device that pulled before a delete never learns about it: tombstones are
// filtered from pulls, so the chat lingers locally until a full resync.
func TestPull_TombstoneIsNotPropagated(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.clock.Set(testutil.At(10))
	h.push(t, "u1", Batch{Chats: []domain.Chat{{ID: 1, Title: "a"}}})
	before := h.pull(t, "u1", nil)

	require.NoError(t, h.chats.SoftDelete(ctx, "u1", 1, testutil.At(20)))

	after := h.pull(t, "u1", ptr(before.SyncedAt))
	assert.Empty(t, after.Chats)
}

// Push overwrites regardless of timestamps, so an offline device re-pushing an
// old copy undoes a newer edit made elsewhere.
func TestPush_StaleDeviceOverwritesNewerEdit(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.push(t, "u1", Batch{Memories: []domain.Memory{{ID: 1, Content: "v1", CreatedAt: testutil.At(1), UpdatedAt: testutil.At(1)}}})
	h.push(t, "u1", Batch{Memories: []domain.Memory{{ID: 1, Content: "v2", CreatedAt: testutil.At(1), UpdatedAt: testutil.At(20)}}})
	h.push(t, "u1", Batch{Memories: []domain.Memory{{ID: 1, Content: "v1", CreatedAt: testutil.At(1), UpdatedAt: testutil.At(1)}}})

	got, err := h.memories.FindByKey(ctx, "u1", 1)
	require.NoError(t, err)
	assert.Equal(t, "v1", got.Content)
	assert.True(t, got.UpdatedAt.Equal(testutil.At(1)))
}

func TestPush_MessageUpdateKeepsTimestampWhenMissing(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.push(t, "u1", Batch{Chats: []domain.Chat{{ID: 1, Title: "a"}}})
	h.push(t, "u1", Batch{Messages: []domain.Message{msg(1, 1, "first", 5)}})

	h.clock.Set(testutil.At(90))
	h.push(t, "u1", Batch{Messages: []domain.Message{{ChatID: 1, ID: 1, Role: domain.RoleUser, Content: "edited"}}})

	got, err := h.messages.FindByKey(ctx, "u1", 1, 1)
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Content)
	assert.True(t, got.Timestamp.Equal(testutil.At(5)))
}
