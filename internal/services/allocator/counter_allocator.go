package allocator

import (
	"context"
	"fmt"

	"github.com/iyunix/go-chatsync/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CounterAllocator keeps one persisted counter per scope. Each call bumps the
// counter past both its previous value and the current max id of the scope, so
// ids written by pushes with client-chosen values are never handed out again.
type CounterAllocator struct {
	db     *gorm.DB
	logger Logger
}

func NewCounterAllocator(db *gorm.DB, logger Logger) *CounterAllocator {
	return &CounterAllocator{db: db, logger: logger}
}

func (a *CounterAllocator) Next(ctx context.Context, scope Scope) (uint64, error) {
	if err := scope.Validate(); err != nil {
		return 0, err
	}
	key := scope.Key()

	var next uint64
	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seed, err := maxInScope(tx, scope)
		if err != nil {
			return err
		}

		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&domain.IDSequence{Scope: key, LastID: seed}).Error; err != nil {
			return fmt.Errorf("seed sequence: %w", err)
		}

		if err := tx.Model(&domain.IDSequence{}).
			Where("scope = ?", key).
			Update("last_id", gorm.Expr("MAX(last_id, ?) + 1", seed)).Error; err != nil {
			return fmt.Errorf("bump sequence: %w", err)
		}

		var seq domain.IDSequence
		if err := tx.Where("scope = ?", key).Take(&seq).Error; err != nil {
			return fmt.Errorf("read sequence: %w", err)
		}
		next = seq.LastID
		return nil
	})
	if err != nil {
		a.logger.Error("counter allocation failed", "scope", key, "error", err)
		return 0, fmt.Errorf("allocate %s id: %w", scope.Kind, err)
	}

	a.logger.Debug("id allocated", "scope", key, "id", next)
	return next, nil
}

// maxInScope runs on the transaction handle; the pool holds a single connection.
func maxInScope(tx *gorm.DB, scope Scope) (uint64, error) {
	var query *gorm.DB
	switch scope.Kind {
	case KindChat:
		query = tx.Model(&domain.Chat{}).Where("owner_id = ?", scope.OwnerID)
	case KindMessage:
		query = tx.Model(&domain.Message{}).Where("owner_id = ? AND chat_id = ?", scope.OwnerID, scope.ChatID)
	case KindMemory:
		query = tx.Model(&domain.Memory{}).Where("owner_id = ?", scope.OwnerID)
	default:
		return 0, fmt.Errorf("unknown allocation kind %q", scope.Kind)
	}

	var maxID uint64
	if err := query.Select("COALESCE(MAX(id), 0)").Scan(&maxID).Error; err != nil {
		return 0, fmt.Errorf("max id in scope: %w", err)
	}
	return maxID, nil
}
