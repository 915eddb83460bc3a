// Package outboxrepo stores domain events in the transactional outbox and
// hands them to the relay.
package outboxrepo

import (
	"encoding/json"
	"time"

	"laundry/internal/core/domain/model/event"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type MessageDTO struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey"`
	AggregateID uuid.UUID      `gorm:"type:uuid;index"`
	EventType   string         `gorm:"size:64"`
	Payload     datatypes.JSON `gorm:"type:jsonb"`
	OccurredAt  time.Time      `gorm:"index:idx_outbox_unpublished,where:published_at IS NULL"`
	PublishedAt *time.Time
}

func (MessageDTO) TableName() string {
	return "outbox_messages"
}

func fromEvent(e event.DomainEvent) (MessageDTO, error) {
	payload, err := json.Marshal(e.Payload())
	if err != nil {
		return MessageDTO{}, err
	}

	return MessageDTO{
		ID:          e.ID().Bytes(),
		AggregateID: e.AggregateID().Bytes(),
		EventType:   e.Type(),
		Payload:     datatypes.JSON(payload),
		OccurredAt:  e.OccurredAt(),
	}, nil
}

func toMessage(dto MessageDTO) (ports.OutboxMessage, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return ports.OutboxMessage{}, err
	}
	aggregateID, err := kernel.UUIDFromBytes(dto.AggregateID[:])
	if err != nil {
		return ports.OutboxMessage{}, err
	}

	return ports.OutboxMessage{
		ID:          id,
		AggregateID: aggregateID,
		EventType:   dto.EventType,
		Payload:     []byte(dto.Payload),
		OccurredAt:  dto.OccurredAt,
	}, nil
}
