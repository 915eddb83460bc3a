// Package event defines the domain events raised by marketplace aggregates.
//
// Aggregates embed a Recorder and append events as their state changes. The
// unit of work drains them on commit and stores them in the transactional
// outbox, from where they are relayed to Kafka.
package event

import (
	"time"

	"laundry/internal/core/domain/model/kernel"
)

// Event types. They double as the audit-trail action names.
const (
	OrderCreated         = "order.created"
	OrderStatusChanged   = "order.status_changed"
	OrderRepriced        = "order.repriced"
	DeliveryConfirmed    = "order.delivery_confirmed"
	PaymentSubmitted     = "payment.submitted"
	PaymentVerified      = "payment.verified"
	PaymentRejected      = "payment.rejected"
	PayoutCreated        = "payout.created"
	PayoutStatusChanged  = "payout.status_changed"
	ReviewSubmitted      = "review.submitted"
	ReviewUpdated        = "review.updated"
	ReviewModerated      = "review.moderated"
	ListingRatingChanged = "listing.rating_changed"
)

// DomainEvent is an immutable fact about an aggregate.
type DomainEvent struct {
	id          kernel.UUID
	eventType   string
	aggregateID kernel.UUID
	occurredAt  time.Time
	payload     map[string]any
}

// New creates an event with a fresh identifier.
func New(eventType string, aggregateID kernel.UUID, occurredAt time.Time, payload map[string]any) DomainEvent {
	if payload == nil {
		payload = map[string]any{}
	}
	return DomainEvent{
		id:          kernel.NewUUID(),
		eventType:   eventType,
		aggregateID: aggregateID,
		occurredAt:  occurredAt.UTC(),
		payload:     payload,
	}
}

func (e DomainEvent) ID() kernel.UUID { return e.id }
func (e DomainEvent) Type() string { return e.eventType }
func (e DomainEvent) AggregateID() kernel.UUID { return e.aggregateID }
func (e DomainEvent) OccurredAt() time.Time { return e.occurredAt }

// Payload returns a copy of the event attributes.
func (e DomainEvent) Payload() map[string]any {
	out := make(map[string]any, len(e.payload))
	for k, v := range e.payload {
		out[k] = v
	}
	return out
}

// Recorder collects events raised by an aggregate until they are drained.
type Recorder struct {
	events []DomainEvent
}

// Record appends an event.
func (r *Recorder) Record(e DomainEvent) {
	r.events = append(r.events, e)
}

// DomainEvents returns the recorded events in order.
func (r *Recorder) DomainEvents() []DomainEvent {
	out := make([]DomainEvent, len(r.events))
	copy(out, r.events)
	return out
}

// ClearDomainEvents forgets recorded events once they have been persisted.
func (r *Recorder) ClearDomainEvents() {
	r.events = nil
}

// Source is implemented by every aggregate that records events.
type Source interface {
	DomainEvents() []DomainEvent
	ClearDomainEvents()
}
