package quota

import (
	"context"

	"github.com/iyunix/go-chatsync/internal/domain"
)

// DefaultMaxChats is the live-chat ceiling applied when none is configured.
const DefaultMaxChats = 100

// LiveCounter counts an owner's non-tombstoned chats.
type LiveCounter interface {
	CountLive(ctx context.Context, ownerID string) (int64, error)
}

// Guard caps the number of live chats an owner may create directly.
// The sync push path does not consult it, so a device can still upload chats
// it created offline after the ceiling was reached elsewhere.
type Guard struct {
	chats LiveCounter
	limit int64
}

func NewGuard(chats LiveCounter, limit int) *Guard {
	if limit <= 0 {
		limit = DefaultMaxChats
	}
	return &Guard{chats: chats, limit: int64(limit)}
}

// CheckAndReserve returns a QUOTA_EXCEEDED error once the owner is at the ceiling.
// Nothing is held: the check and the following insert are not atomic.
func (g *Guard) CheckAndReserve(ctx context.Context, ownerID string) error {
	count, err := g.chats.CountLive(ctx, ownerID)
	if err != nil {
		return domain.NewInternalError("check_quota", "could not count chats", err)
	}
	if count >= g.limit {
		return domain.NewQuotaExceededError("check_quota", g.limit)
	}
	return nil
}

func (g *Guard) Limit() int64 {
	return g.limit
}
