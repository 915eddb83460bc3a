package commands

import (
	"context"
	"errors"
	"time"

	"laundry/internal/core/domain/model/order"
	"laundry/internal/core/domain/model/partner"
	"laundry/internal/core/domain/model/payout"
	"laundry/internal/core/domain/services"

	"github.com/sirupsen/logrus"
)

// ErrNoOrdersToSettle is returned when every settleable order has a payout.
var ErrNoOrdersToSettle = errors.New("no orders awaiting settlement")

var errNoLongerSettleable = errors.New("order is no longer settleable")

// ReconcileResult counts the outcome of one reconciliation run.
type ReconcileResult struct {
	Settled  int
	Deferred int
	Skipped  int
}

// ReconcileSettlementsCommandHandler settles each candidate order in its own
// transaction so one failing order never blocks the rest of the batch.
type ReconcileSettlementsCommandHandler struct {
	uowFactory SettlementUoWFactory
	settlement services.SettlementEngine
	logger     logrus.FieldLogger
}

func NewReconcileSettlementsCommandHandler(
	uowFactory SettlementUoWFactory,
	settlement services.SettlementEngine,
	logger logrus.FieldLogger,
) ReconcileSettlementsCommandHandler {
	return ReconcileSettlementsCommandHandler{
		uowFactory: uowFactory,
		settlement: settlement,
		logger:     logger,
	}
}

func (h *ReconcileSettlementsCommandHandler) Handle(ctx context.Context, cmd ReconcileSettlementsCommand) (ReconcileResult, error) {
	if err := cmd.Validate(); err != nil {
		return ReconcileResult{}, err
	}

	candidates, err := h.uowFactory.Create().OrderRepository().ListSettleableWithoutPayout(ctx, cmd.BatchSize())
	if err != nil {
		return ReconcileResult{}, err
	}
	if len(candidates) == 0 {
		return ReconcileResult{}, ErrNoOrdersToSettle
	}

	var (
		result ReconcileResult
		failed []error
	)
	for _, candidate := range candidates {
		err = h.settleOne(ctx, candidate)
		switch {
		case err == nil:
			result.Settled++
		case errors.Is(err, payout.ErrAlreadySettled), errors.Is(err, errNoLongerSettleable):
			result.Skipped++
		case errors.Is(err, partner.ErrBankAccountNotVerified):
			result.Deferred++
		default:
			h.logger.WithField("order_id", candidate.ID().String()).WithError(err).Error("reconciling settlement failed")
			failed = append(failed, err)
		}
	}
	return result, errors.Join(failed...)
}

func (h *ReconcileSettlementsCommandHandler) settleOne(ctx context.Context, candidate *order.Order) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	// The candidate was read outside the transaction.
	o, err := uow.OrderRepository().Get(ctx, candidate.ID())
	if err != nil {
		return err
	}
	if !o.IsSettleable() {
		return errNoLongerSettleable
	}

	created, err := settleOrder(ctx, uow, h.settlement, o, time.Now().UTC())
	if err != nil {
		return err
	}
	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.logger.WithFields(logrus.Fields{
		"order_id":  o.ID().String(),
		"payout_id": created.ID().String(),
		"earning":   created.Earning().String(),
	}).Info("order settled by reconciliation")
	return nil
}
