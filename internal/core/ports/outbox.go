package ports

import (
	"context"
	"time"

	"laundry/internal/core/domain/model/kernel"
)

// OutboxMessage is a domain event stored in the same transaction as the
// aggregate change that raised it.
type OutboxMessage struct {
	ID          kernel.UUID
	AggregateID kernel.UUID
	EventType   string
	Payload     []byte
	OccurredAt  time.Time
}

// OutboxRepository reads and acknowledges stored events.
type OutboxRepository interface {
	// Unpublished returns up to limit messages in occurrence order.
	Unpublished(ctx context.Context, limit int) ([]OutboxMessage, error)

	MarkPublished(ctx context.Context, ids []kernel.UUID, at time.Time) error
}

// EventPublisher delivers outbox messages to the message broker.
type EventPublisher interface {
	Publish(ctx context.Context, messages []OutboxMessage) error
}

// Outbox runs fn against an outbox repository bound to its own transaction.
// The transaction commits only when fn returns nil.
type Outbox interface {
	WithinTransaction(ctx context.Context, fn func(OutboxRepository) error) error
}
