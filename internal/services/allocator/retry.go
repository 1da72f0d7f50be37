package allocator

import (
	"context"
	"strings"

	"github.com/iyunix/go-chatsync/internal/domain"
	"github.com/iyunix/go-chatsync/internal/repository"
)

// InsertFunc writes the entity under id. It must report a key collision with an
// error that repository.IsDuplicateKey recognises.
type InsertFunc func(ctx context.Context, id uint64) error

// Creator pairs an Allocator with bounded retry on key collisions.
type Creator struct {
	alloc       Allocator
	maxAttempts int
	logger      Logger
}

func NewCreator(alloc Allocator, config *Config, logger Logger) *Creator {
	attempts := config.MaxAttempts
	if attempts < 2 {
		attempts = 2
	}
	return &Creator{alloc: alloc, maxAttempts: attempts, logger: logger}
}

// CreateWithRetry allocates an id and inserts; on a collision it allocates again.
// It returns the id that was written, or a CONFLICT error once every attempt collided.
func (c *Creator) CreateWithRetry(ctx context.Context, scope Scope, insert InsertFunc) (uint64, error) {
	var lastErr error

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		id, err := c.alloc.Next(ctx, scope)
		if err != nil {
			return 0, domain.NewInternalError("allocate_id", "could not allocate an id", err)
		}

		err = insert(ctx, id)
		if err == nil {
			if attempt > 1 {
				c.logger.Info("insert succeeded after id collision", "scope", scope.Key(), "attempts", attempt)
			}
			return id, nil
		}
		if !repository.IsDuplicateKey(err) {
			return 0, err
		}

		lastErr = err
		c.logger.Warn("id collision, reallocating", "scope", scope.Key(), "id", id, "attempt", attempt)
	}

	c.logger.Error("id allocation kept colliding", "scope", scope.Key(), "attempts", c.maxAttempts)
	return 0, domain.NewConflictError("create_with_retry", "identifier already in use, retry the request", lastErr)
}

// New builds the allocator selected by config.
func New(config *Config, byMax *MaxAllocator, byCounter *CounterAllocator) Allocator {
	if strings.EqualFold(config.Strategy, StrategyCounter) {
		return byCounter
	}
	return byMax
}
