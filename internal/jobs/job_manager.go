package jobs

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Schedules used when the configuration leaves them empty.
const (
	DefaultOutboxRelaySchedule    = "*/5 * * * * *"
	DefaultReconciliationSchedule = "0 * * * * *"
)

// Config holds the cron expressions and batch sizes of all jobs.
type Config struct {
	OutboxRelaySchedule    string
	OutboxBatchSize        int
	ReconciliationSchedule string
	ReconcileBatchSize     int
}

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	outboxRelayJob    *OutboxRelayJob
	reconciliationJob *SettlementReconciliationJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes command handlers as dependencies to wire up the job execution.
func NewJobManager(
	relay OutboxRelayHandler,
	reconciler SettlementReconciler,
	cfg Config,
	logger logrus.FieldLogger,
) *JobManager {
	if cfg.OutboxRelaySchedule == "" {
		cfg.OutboxRelaySchedule = DefaultOutboxRelaySchedule
	}
	if cfg.ReconciliationSchedule == "" {
		cfg.ReconciliationSchedule = DefaultReconciliationSchedule
	}

	return &JobManager{
		outboxRelayJob:    NewOutboxRelayJob(relay, cfg.OutboxRelaySchedule, cfg.OutboxBatchSize, logger),
		reconciliationJob: NewSettlementReconciliationJob(reconciler, cfg.ReconciliationSchedule, cfg.ReconcileBatchSize, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.outboxRelayJob.Start(); err != nil {
		return fmt.Errorf("failed to start outbox relay job: %w", err)
	}

	if err := jm.reconciliationJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.outboxRelayJob.Stop()
		return fmt.Errorf("failed to start settlement reconciliation job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.reconciliationJob.Stop()
	jm.outboxRelayJob.Stop()
}
