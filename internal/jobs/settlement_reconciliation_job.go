package jobs

import (
	"context"
	"errors"

	"laundry/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// SettlementReconciler settles paid orders that were left without a payout.
type SettlementReconciler interface {
	Handle(ctx context.Context, cmd commands.ReconcileSettlementsCommand) (commands.ReconcileResult, error)
}

// SettlementReconciliationJob retries settlements that were deferred, mostly
// for partners that had no verified bank account at delivery time.
type SettlementReconciliationJob struct {
	handler   SettlementReconciler
	spec      string
	batchSize int
	cron      *cron.Cron
	logger    logrus.FieldLogger
}

func NewSettlementReconciliationJob(
	handler SettlementReconciler,
	spec string,
	batchSize int,
	logger logrus.FieldLogger,
) *SettlementReconciliationJob {
	return &SettlementReconciliationJob{
		handler:   handler,
		spec:      spec,
		batchSize: batchSize,
		cron:      cron.New(cron.WithSeconds()),
		logger:    logger.WithField("component", "settlement_reconciliation_job"),
	}
}

// Run reconciles a single batch.
func (j *SettlementReconciliationJob) Run(ctx context.Context) {
	cmd, err := commands.NewReconcileSettlementsCommand(j.batchSize)
	if err != nil {
		j.logger.WithError(err).Error("Settlement reconciliation job misconfigured")
		return
	}

	result, err := j.handler.Handle(ctx, cmd)
	if errors.Is(err, commands.ErrNoOrdersToSettle) {
		return
	}
	if err != nil {
		// Per-order failures are logged by the handler.
		j.logger.WithError(err).Error("Settlement reconciliation job failed")
	}
	if result.Settled > 0 || result.Deferred > 0 {
		j.logger.WithFields(logrus.Fields{
			"settled":  result.Settled,
			"deferred": result.Deferred,
			"skipped":  result.Skipped,
		}).Info("Settlements reconciled")
	}
}

func (j *SettlementReconciliationJob) Start() error {
	if _, err := j.cron.AddFunc(j.spec, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.WithField("schedule", j.spec).Info("Settlement reconciliation job started")
	return nil
}

func (j *SettlementReconciliationJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Settlement reconciliation job stopped")
}
