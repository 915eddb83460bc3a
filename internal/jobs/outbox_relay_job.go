package jobs

import (
	"context"
	"errors"

	"laundry/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// OutboxRelayHandler publishes one batch of outbox messages.
type OutboxRelayHandler interface {
	Handle(ctx context.Context, cmd commands.PublishOutboxEventsCommand) (int, error)
}

// OutboxRelayJob publishes stored domain events to the broker.
type OutboxRelayJob struct {
	handler   OutboxRelayHandler
	spec      string
	batchSize int
	cron      *cron.Cron
	logger    logrus.FieldLogger
}

// NewOutboxRelayJob creates the relay. spec is a six field cron expression.
func NewOutboxRelayJob(handler OutboxRelayHandler, spec string, batchSize int, logger logrus.FieldLogger) *OutboxRelayJob {
	return &OutboxRelayJob{
		handler:   handler,
		spec:      spec,
		batchSize: batchSize,
		cron:      cron.New(cron.WithSeconds()),
		logger:    logger.WithField("component", "outbox_relay_job"),
	}
}

// Run relays a single batch.
func (j *OutboxRelayJob) Run(ctx context.Context) {
	cmd, err := commands.NewPublishOutboxEventsCommand(j.batchSize)
	if err != nil {
		j.logger.WithError(err).Error("Outbox relay job misconfigured")
		return
	}

	published, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		if !errors.Is(err, commands.ErrNoOutboxMessages) {
			j.logger.WithError(err).Error("Outbox relay job failed")
		}
		return
	}
	j.logger.WithField("published", published).Debug("Outbox messages published")
}

// Start schedules the relay.
func (j *OutboxRelayJob) Start() error {
	if _, err := j.cron.AddFunc(j.spec, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.WithField("schedule", j.spec).Info("Outbox relay job started")
	return nil
}

// Stop waits for a running batch to finish.
func (j *OutboxRelayJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Outbox relay job stopped")
}
