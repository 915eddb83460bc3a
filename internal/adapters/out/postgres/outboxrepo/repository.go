package outboxrepo

import (
	"context"
	"time"

	"laundry/internal/core/domain/model/event"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOutboxRepository implements ports.OutboxRepository using GORM.
type GormOutboxRepository struct {
	db *gorm.DB
}

func NewGormOutboxRepository(db *gorm.DB) *GormOutboxRepository {
	return &GormOutboxRepository{db: db}
}

// Append stores events in the caller's transaction.
func (r *GormOutboxRepository) Append(ctx context.Context, events []event.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	rows := make([]MessageDTO, 0, len(events))
	for _, e := range events {
		dto, err := fromEvent(e)
		if err != nil {
			return err
		}
		rows = append(rows, dto)
	}

	return r.db.WithContext(ctx).Create(&rows).Error
}

// Unpublished locks the returned rows with SKIP LOCKED, so relays running in
// several instances never pick the same message inside their transactions.
func (r *GormOutboxRepository) Unpublished(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	var dtos []MessageDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("published_at IS NULL").
		Order("occurred_at, id").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	messages := make([]ports.OutboxMessage, 0, len(dtos))
	for _, dto := range dtos {
		m, err := toMessage(dto)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, nil
}

func (r *GormOutboxRepository) MarkPublished(ctx context.Context, ids []kernel.UUID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}

	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.Bytes())
	}

	return r.db.WithContext(ctx).Model(&MessageDTO{}).
		Where("id IN ?", raw).
		Update("published_at", at).Error
}
