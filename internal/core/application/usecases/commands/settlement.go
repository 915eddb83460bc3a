package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/core/domain/model/partner"
	"laundry/internal/core/domain/model/payment"
	"laundry/internal/core/domain/model/payout"
	"laundry/internal/core/domain/services"
	"laundry/internal/pkg/errs"

	"github.com/sirupsen/logrus"
)

// errPayoutRecorded marks a payout found before insertion. A unique index
// conflict on insert is reported as plain payout.ErrAlreadySettled, since the
// database has aborted the transaction by then.
var errPayoutRecorded = fmt.Errorf("%w: payout already recorded", payout.ErrAlreadySettled)

type settlementRepos interface {
	PartnerRepoFactory
	PaymentRepoFactory
	PayoutRepoFactory
}

// settleOrder creates and stores the payout of o. An existing payout yields
// payout.ErrAlreadySettled.
func settleOrder(
	ctx context.Context,
	repos settlementRepos,
	engine services.SettlementEngine,
	o *order.Order,
	now time.Time,
) (*payout.Payout, error) {
	payoutRepo := repos.PayoutRepository()
	if _, err := payoutRepo.GetByOrder(ctx, o.ID()); err == nil {
		return nil, fmt.Errorf("%w: %s", errPayoutRecorded, o.Number())
	} else if !errors.Is(err, errs.ErrObjectNotFound) {
		return nil, err
	}

	var p *payment.Payment
	if !o.IsCOD() {
		var err error
		p, err = repos.PaymentRepository().GetByOrder(ctx, o.ID())
		if errors.Is(err, errs.ErrObjectNotFound) {
			return nil, fmt.Errorf("%w: no payment submitted for %s", services.ErrPaymentNotVerified, o.Number())
		}
		if err != nil {
			return nil, err
		}
	}

	owner, err := repos.PartnerRepository().Get(ctx, o.PartnerID())
	if err != nil {
		return nil, err
	}
	account, err := owner.VerifiedBankAccount()
	if err != nil {
		return nil, err
	}

	created, err := engine.Settle(o, p, payout.SnapshotOf(account), now)
	if err != nil {
		return nil, err
	}
	if err = payoutRepo.Add(ctx, created); err != nil {
		return nil, err
	}
	return created, nil
}

// settleIfDue is run after every status change and payment verification. It
// settles paid orders and is a no-op when the payout already exists. A partner
// without a verified bank account is left for the reconciliation job. A payout
// inserted concurrently fails the caller's transaction.
func settleIfDue(
	ctx context.Context,
	repos settlementRepos,
	engine services.SettlementEngine,
	logger logrus.FieldLogger,
	o *order.Order,
	now time.Time,
) error {
	if !o.IsPaid() || o.Status() == order.Cancelled {
		return nil
	}

	created, err := settleOrder(ctx, repos, engine, o, now)
	switch {
	case err == nil:
		logger.WithFields(logrus.Fields{
			"order_id":  o.ID().String(),
			"payout_id": created.ID().String(),
			"earning":   created.Earning().String(),
		}).Info("order settled")
		return nil
	case errors.Is(err, errPayoutRecorded):
		return nil
	case errors.Is(err, partner.ErrBankAccountNotVerified):
		logger.WithField("order_id", o.ID().String()).WithError(err).Warn("settlement deferred")
		return nil
	}
	return err
}

// afterStatusChange books the side effects of reaching a new status.
func afterStatusChange(
	ctx context.Context,
	uow SettlementUoW,
	engine services.SettlementEngine,
	logger logrus.FieldLogger,
	o *order.Order,
	actor kernel.Actor,
	now time.Time,
) error {
	switch o.Status() {
	case order.Delivered:
		if err := uow.ListingRepository().IncrementCompletedOrders(ctx, o.ListingID()); err != nil {
			return err
		}
	case order.Cancelled:
		return voidPayout(ctx, uow, logger, o, actor, now)
	}
	return settleIfDue(ctx, uow, engine, logger, o, now)
}

// voidPayout fails the pending payout of a cancelled order that was settled
// on payment verification. A transfer already in progress is only logged.
func voidPayout(
	ctx context.Context,
	repos PayoutRepoFactory,
	logger logrus.FieldLogger,
	o *order.Order,
	actor kernel.Actor,
	now time.Time,
) error {
	payoutRepo := repos.PayoutRepository()
	p, err := payoutRepo.GetByOrder(ctx, o.ID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if p.Status() != payout.StatusPending {
		logger.WithFields(logrus.Fields{
			"order_id":  o.ID().String(),
			"payout_id": p.ID().String(),
			"status":    p.Status().String(),
		}).Warn("cancelled order keeps its payout")
		return nil
	}

	if err = p.Void(actor, "order "+o.Number()+" cancelled", now); err != nil {
		return err
	}
	return payoutRepo.Update(ctx, p)
}
