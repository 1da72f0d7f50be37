package quota

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iyunix/go-chatsync/internal/domain"
)

type countStub struct {
	count int64
	err   error
}

func (c countStub) CountLive(ctx context.Context, ownerID string) (int64, error) {
	return c.count, c.err
}

func TestGuard_CheckAndReserve(t *testing.T) {
	ctx := context.Background()

	assert.NoError(t, NewGuard(countStub{count: 99}, 100).CheckAndReserve(ctx, "u1"))

	err := NewGuard(countStub{count: 100}, 100).CheckAndReserve(ctx, "u1")
	assert.Equal(t, domain.ErrKindQuotaExceeded, domain.KindOf(err))
	assert.Equal(t, "maximum 100 chats per user", domain.MessageOf(err))

	err = NewGuard(countStub{err: errors.New("locked")}, 100).CheckAndReserve(ctx, "u1")
	assert.Equal(t, domain.ErrKindInternal, domain.KindOf(err))
}

func TestGuard_DefaultLimit(t *testing.T) {
	assert.Equal(t, int64(DefaultMaxChats), NewGuard(countStub{}, 0).Limit())
	assert.Equal(t, int64(5), NewGuard(countStub{}, 5).Limit())
}
