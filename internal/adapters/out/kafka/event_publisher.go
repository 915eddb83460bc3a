// Package kafka relays outbox messages to a Kafka topic with sarama.
package kafka

import (
	"context"
	"errors"
	"fmt"
	"time"

	"laundry/internal/core/ports"

	"github.com/IBM/sarama"
)

const (
	headerEventID     = "event_id"
	headerEventType   = "event_type"
	headerOccurredAt  = "occurred_at"
	defaultClientName = "laundry-marketplace"
)

// NewSyncProducer connects a synchronous producer that waits for all in-sync
// replicas, so a message counts as published only once it is durable.
func NewSyncProducer(brokers []string) (sarama.SyncProducer, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka: no brokers configured")
	}

	cfg := sarama.NewConfig()
	cfg.ClientID = defaultClientName
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Idempotent = true
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Return.Successes = true
	cfg.Net.MaxOpenRequests = 1

	return sarama.NewSyncProducer(brokers, cfg)
}

// EventPublisher implements ports.EventPublisher. Messages are keyed by
// aggregate id so the events of one order stay in order on one partition.
type EventPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

func NewEventPublisher(producer sarama.SyncProducer, topic string) *EventPublisher {
	return &EventPublisher{producer: producer, topic: topic}
}

// Publish sends the batch and fails if any message was not acknowledged.
// Relays mark nothing as published on error, so the batch is retried and
// consumers must tolerate duplicates by event id.
func (p *EventPublisher) Publish(ctx context.Context, messages []ports.OutboxMessage) error {
	if len(messages) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	batch := make([]*sarama.ProducerMessage, 0, len(messages))
	for _, m := range messages {
		batch = append(batch, p.toProducerMessage(m))
	}

	if err := p.producer.SendMessages(batch); err != nil {
		var perrs sarama.ProducerErrors
		if errors.As(err, &perrs) && len(perrs) > 0 {
			return fmt.Errorf("kafka: %d of %d messages failed: %w", len(perrs), len(batch), perrs[0].Err)
		}
		return fmt.Errorf("kafka: %w", err)
	}
	return nil
}

func (p *EventPublisher) toProducerMessage(m ports.OutboxMessage) *sarama.ProducerMessage {
	return &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(m.AggregateID.String()),
		Value: sarama.ByteEncoder(m.Payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte(headerEventID), Value: []byte(m.ID.String())},
			{Key: []byte(headerEventType), Value: []byte(m.EventType)},
			{Key: []byte(headerOccurredAt), Value: []byte(m.OccurredAt.UTC().Format(time.RFC3339Nano))},
		},
		Timestamp: m.OccurredAt,
	}
}

// Close releases the producer.
func (p *EventPublisher) Close() error {
	return p.producer.Close()
}
