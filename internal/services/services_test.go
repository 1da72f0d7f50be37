package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iyunix/go-chatsync/internal/domain"
	"github.com/iyunix/go-chatsync/internal/repository"
	"github.com/iyunix/go-chatsync/internal/repository/chat"
	"github.com/iyunix/go-chatsync/internal/repository/memory"
	"github.com/iyunix/go-chatsync/internal/repository/message"
	"github.com/iyunix/go-chatsync/internal/services/allocator"
	"github.com/iyunix/go-chatsync/internal/services/quota"
	"github.com/iyunix/go-chatsync/internal/testutil"
)

type serviceSet struct {
	clock    *domain.FixedClock
	chats    *ChatService
	messages *MessageService
	memories *MemoryService
	msgRepo  message.MessageRepository
	chatRepo chat.ChatRepository
}

func newServiceSet(t *testing.T, maxChats int) *serviceSet {
	t.Helper()
	db := testutil.OpenDB(t)
	log := &NoOpLogger{}
	clock := &domain.FixedClock{At: testutil.At(0)}

	chatRepo := chat.NewChatRepository(db, log)
	msgRepo := message.NewMessageRepository(db, log)
	memRepo := memory.NewMemoryRepository(db, log)
	creator := allocator.NewCreator(allocator.NewMaxAllocator(chatRepo, msgRepo, memRepo), allocator.DefaultConfig(), log)

	return &serviceSet{
		clock:    clock,
		chats:    NewChatService(chatRepo, msgRepo, creator, quota.NewGuard(chatRepo, maxChats), clock, log),
		messages: NewMessageService(chatRepo, msgRepo, creator, clock, log),
		memories: NewMemoryService(memRepo, creator, clock, log),
		msgRepo:  msgRepo,
		chatRepo: chatRepo,
	}
}

func TestChatService_CreateAndQuota(t *testing.T) {
	ctx := context.Background()
	s := newServiceSet(t, 2)

	first, err := s.chats.CreateChat(ctx, "u1", NewChat{})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), first.ID)
	assert.Equal(t, domain.DefaultChatTitle, first.Title)

	_, err = s.chats.CreateChat(ctx, "u1", NewChat{Title: "second"})
	require.NoError(t, err)

	_, err = s.chats.CreateChat(ctx, "u1", NewChat{Title: "third"})
	assert.Equal(t, domain.ErrKindQuotaExceeded, domain.KindOf(err))

	require.NoError(t, s.chats.DeleteChat(ctx, "u1", first.ID))
	third, err := s.chats.CreateChat(ctx, "u1", NewChat{Title: "third"})
	require.NoError(t, err, "tombstones free quota")
	assert.Equal(t, uint64(3), third.ID, "tombstoned ids are not reused")
}

func TestChatService_UpdateMovesForwardOnly(t *testing.T) {
	ctx := context.Background()
	s := newServiceSet(t, 10)
	s.clock.Set(testutil.At(100))

	c, err := s.chats.CreateChat(ctx, "u1", NewChat{Title: "a"})
	require.NoError(t, err)

	title := "renamed"
	old := testutil.At(10)
	updated, err := s.chats.UpdateChat(ctx, "u1", c.ID, ChatUpdate{Title: &title, UpdatedAt: &old})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)
	assert.True(t, updated.UpdatedAt.Equal(testutil.At(100)))

	_, err = s.chats.UpdateChat(ctx, "u1", 42, ChatUpdate{Title: &title})
	assert.Equal(t, domain.ErrKindNotFound, domain.KindOf(err))

	blank := " "
	_, err = s.chats.UpdateChat(ctx, "u1", c.ID, ChatUpdate{Title: &blank})
	assert.Equal(t, domain.ErrKindValidation, domain.KindOf(err))
}

func TestChatService_DeleteCascadesToMessages(t *testing.T) {
	ctx := context.Background()
	s := newServiceSet(t, 10)

	c, err := s.chats.CreateChat(ctx, "u1", NewChat{Title: "a"})
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err := s.messages.CreateMessage(ctx, "u1", c.ID, domain.Message{Role: domain.RoleUser, Content: "hi"})
		require.NoError(t, err)
	}

	require.NoError(t, s.chats.DeleteChat(ctx, "u1", c.ID))

	count, err := s.msgRepo.CountByChat(ctx, "u1", c.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = s.chats.GetChat(ctx, "u1", c.ID)
	assert.Equal(t, domain.ErrKindNotFound, domain.KindOf(err))

	err = s.chats.DeleteChat(ctx, "u1", c.ID)
	assert.Equal(t, domain.ErrKindNotFound, domain.KindOf(err))
}

func TestChatService_DeleteAll(t *testing.T) {
	ctx := context.Background()
	s := newServiceSet(t, 10)
	for i := 0; i < 3; i++ {
		c, err := s.chats.CreateChat(ctx, "u1", NewChat{})
		require.NoError(t, err)
		_, err = s.messages.CreateMessage(ctx, "u1", c.ID, domain.Message{Role: domain.RoleUser, Content: "hi"})
		require.NoError(t, err)
	}

	n, err := s.chats.DeleteAllChats(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	list, err := s.chats.ListChats(ctx, "u1", repository.Page{})
	require.NoError(t, err)
	assert.Empty(t, list)

	for id := uint64(1); id <= 3; id++ {
		count, err := s.msgRepo.CountByChat(ctx, "u1", id)
		require.NoError(t, err)
		assert.Zero(t, count)
	}
}

func TestMessageService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	s := newServiceSet(t, 10)

	c, err := s.chats.CreateChat(ctx, "u1", NewChat{})
	require.NoError(t, err)

	s.clock.Set(testutil.At(30))
	m, err := s.messages.CreateMessage(ctx, "u1", c.ID, domain.Message{Role: domain.RoleAssistant, Content: "thinking", IsThinking: true})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), m.ID)
	assert.True(t, m.Timestamp.Equal(testutil.At(30)))

	bumped, err := s.chatRepo.FindByKey(ctx, "u1", c.ID)
	require.NoError(t, err)
	assert.True(t, bumped.UpdatedAt.Equal(testutil.At(30)))

	content := "done"
	done := false
	s.clock.Set(testutil.At(40))
	updated, err := s.messages.UpdateMessage(ctx, "u1", c.ID, m.ID, domain.MessagePatch{Content: &content, IsThinking: &done})
	require.NoError(t, err)
	assert.Equal(t, "done", updated.Content)
	assert.False(t, updated.IsThinking)

	list, err := s.messages.ListMessages(ctx, "u1", c.ID, repository.Page{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].IsThinking)

	require.NoError(t, s.messages.DeleteMessage(ctx, "u1", c.ID, m.ID))
	err = s.messages.DeleteMessage(ctx, "u1", c.ID, m.ID)
	assert.Equal(t, domain.ErrKindNotFound, domain.KindOf(err))

	_, err = s.messages.CreateMessage(ctx, "u1", 999, domain.Message{Role: domain.RoleUser, Content: "x"})
	assert.Equal(t, domain.ErrKindNotFound, domain.KindOf(err))
}

func TestMemoryService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	s := newServiceSet(t, 10)

	m, err := s.memories.CreateMemory(ctx, "u1", NewMemory{Content: " likes tea "})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), m.ID)
	assert.Equal(t, "likes tea", m.Content)

	_, err = s.memories.CreateMemory(ctx, "u1", NewMemory{Content: ""})
	assert.Equal(t, domain.ErrKindValidation, domain.KindOf(err))

	s.clock.Set(testutil.At(60))
	updated, err := s.memories.UpdateMemory(ctx, "u1", m.ID, "likes coffee")
	require.NoError(t, err)
	assert.Equal(t, "likes coffee", updated.Content)
	assert.True(t, updated.UpdatedAt.Equal(testutil.At(60)))

	list, err := s.memories.ListMemories(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, s.memories.DeleteMemory(ctx, "u1", m.ID))
	err = s.memories.DeleteMemory(ctx, "u1", m.ID)
	assert.Equal(t, domain.ErrKindNotFound, domain.KindOf(err))
}

func TestNewLogger(t *testing.T) {
	_, isNoop := NewLogger("chatsync", "test", "info").(*NoOpLogger)
	assert.True(t, isNoop)

	_, isProd := NewLogger("chatsync", "production", "info").(*ProductionLogger)
	assert.True(t, isProd)
}
