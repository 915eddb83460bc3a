package commands_test

import (
	"errors"
	"testing"
	"time"

	"laundry/internal/core/application/usecases/commands"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/ports"
	"laundry/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func outboxMessages(n int) []ports.OutboxMessage {
	messages := make([]ports.OutboxMessage, 0, n)
	for range n {
		messages = append(messages, ports.OutboxMessage{
			ID:          kernel.NewUUID(),
			AggregateID: kernel.NewUUID(),
			EventType:   "order.created",
			Payload:     []byte(`{}`),
			OccurredAt:  time.Now().UTC(),
		})
	}
	return messages
}

func relay(t *testing.T, outbox *MockOutbox, publisher *MockEventPublisher) (int, error) {
	t.Helper()
	cmd, err := commands.NewPublishOutboxEventsCommand(10)
	require.NoError(t, err)
	h := commands.NewPublishOutboxEventsCommandHandler(outbox, publisher)
	return h.Handle(t.Context(), cmd)
}

func TestPublishOutboxEventsCommandHandler_Handle(t *testing.T) {
	t.Run("publishes and acknowledges the batch", func(t *testing.T) {
		ctx := t.Context()
		messages := outboxMessages(3)
		ids := []kernel.UUID{messages[0].ID, messages[1].ID, messages[2].ID}

		outbox := &MockOutbox{Repo: new(MockOutboxRepository)}
		outbox.On("WithinTransaction", ctx).Return(nil).Once()
		outbox.Repo.On("Unpublished", ctx, 10).Return(messages, nil).Once()
		outbox.Repo.On("MarkPublished", ctx, ids, mock.AnythingOfType("time.Time")).Return(nil).Once()
		publisher := new(MockEventPublisher)
		publisher.On("Publish", ctx, messages).Return(nil).Once()

		published, err := relay(t, outbox, publisher)

		require.NoError(t, err)
		assert.Equal(t, 3, published)
		outbox.Repo.AssertExpectations(t)
		publisher.AssertExpectations(t)
	})

	t.Run("empty outbox", func(t *testing.T) {
		ctx := t.Context()
		outbox := &MockOutbox{Repo: new(MockOutboxRepository)}
		outbox.On("WithinTransaction", ctx).Return(nil).Once()
		outbox.Repo.On("Unpublished", ctx, 10).Return(nil, nil).Once()
		publisher := new(MockEventPublisher)

		published, err := relay(t, outbox, publisher)

		require.ErrorIs(t, err, commands.ErrNoOutboxMessages)
		assert.Zero(t, published)
		publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("broker failure leaves messages unpublished", func(t *testing.T) {
		ctx := t.Context()
		messages := outboxMessages(1)
		outbox := &MockOutbox{Repo: new(MockOutboxRepository)}
		outbox.On("WithinTransaction", ctx).Return(nil).Once()
		outbox.Repo.On("Unpublished", ctx, 10).Return(messages, nil).Once()
		publisher := new(MockEventPublisher)
		publisher.On("Publish", ctx, messages).Return(errors.New("kafka: leader not available")).Once()

		published, err := relay(t, outbox, publisher)

		require.EqualError(t, err, "kafka: leader not available")
		assert.Zero(t, published)
		outbox.Repo.AssertNotCalled(t, "MarkPublished", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("transaction cannot start", func(t *testing.T) {
		ctx := t.Context()
		outbox := &MockOutbox{Repo: new(MockOutboxRepository)}
		outbox.On("WithinTransaction", ctx).Return(errors.New("connection refused")).Once()

		_, err := relay(t, outbox, new(MockEventPublisher))

		require.EqualError(t, err, "connection refused")
	})
}

func TestNewPublishOutboxEventsCommand(t *testing.T) {
	_, err := commands.NewPublishOutboxEventsCommand(0)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	h := commands.NewPublishOutboxEventsCommandHandler(new(MockOutbox), new(MockEventPublisher))
	_, err = h.Handle(t.Context(), commands.PublishOutboxEventsCommand{})
	require.ErrorIs(t, err, commands.ErrPublishOutboxEventsCommandIsNotConstructed)
}
