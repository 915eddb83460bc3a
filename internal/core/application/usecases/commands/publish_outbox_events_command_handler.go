package commands

import (
	"context"
	"errors"
	"time"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/ports"
)

// ErrNoOutboxMessages is returned when a relay run found nothing to publish.
var ErrNoOutboxMessages = errors.New("no unpublished outbox messages")

// PublishOutboxEventsCommandHandler moves a batch of outbox messages to the
// broker. Messages are marked published in the transaction that locked them,
// so a failed publish leaves them for the next run.
type PublishOutboxEventsCommandHandler struct {
	outbox    ports.Outbox
	publisher ports.EventPublisher
}

func NewPublishOutboxEventsCommandHandler(outbox ports.Outbox, publisher ports.EventPublisher) PublishOutboxEventsCommandHandler {
	return PublishOutboxEventsCommandHandler{
		outbox:    outbox,
		publisher: publisher,
	}
}

// Handle returns the number of published messages.
func (h *PublishOutboxEventsCommandHandler) Handle(ctx context.Context, cmd PublishOutboxEventsCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	published := 0
	err := h.outbox.WithinTransaction(ctx, func(repo ports.OutboxRepository) error {
		messages, err := repo.Unpublished(ctx, cmd.BatchSize())
		if err != nil {
			return err
		}
		if len(messages) == 0 {
			return ErrNoOutboxMessages
		}

		if err = h.publisher.Publish(ctx, messages); err != nil {
			return err
		}

		ids := make([]kernel.UUID, 0, len(messages))
		for _, m := range messages {
			ids = append(ids, m.ID)
		}
		if err = repo.MarkPublished(ctx, ids, time.Now().UTC()); err != nil {
			return err
		}
		published = len(messages)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return published, nil
}
