// Package jobs provides scheduled background tasks for the laundry marketplace.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. OutboxRelayJob - Runs every five seconds and publishes stored domain events to Kafka
// 2. SettlementReconciliationJob - Runs every minute and settles paid, delivered orders without a payout
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(relayHandler, reconcileHandler, jobs.Config{
//		OutboxBatchSize:    100,
//		ReconcileBatchSize: 50,
//	}, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Schedules are six field cron expressions (seconds first). Empty schedules
// fall back to DefaultOutboxRelaySchedule and DefaultReconciliationSchedule.
//
// # Error Handling
//
// - An empty outbox and an empty reconciliation batch are not logged
// - A partner without a verified bank account defers settlement to the next run
// - Failed job starts will stop any already running jobs
package jobs
