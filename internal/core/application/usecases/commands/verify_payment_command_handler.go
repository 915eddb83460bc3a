package commands

import (
	"context"
	"time"

	"laundry/internal/core/domain/services"

	"github.com/sirupsen/logrus"
)

// VerifyPaymentCommandHandler records an admin's decision on a payment.
// Verification marks the order paid and settles it in the same transaction;
// a settlement failure rolls the verification back. The payment update is a
// compare-and-swap on its version, so of two concurrent decisions only one
// commits.
type VerifyPaymentCommandHandler struct {
	uowFactory SettlementUoWFactory
	settlement services.SettlementEngine
	logger     logrus.FieldLogger
}

func NewVerifyPaymentCommandHandler(
	uowFactory SettlementUoWFactory,
	settlement services.SettlementEngine,
	logger logrus.FieldLogger,
) VerifyPaymentCommandHandler {
	return VerifyPaymentCommandHandler{
		uowFactory: uowFactory,
		settlement: settlement,
		logger:     logger,
	}
}

func (h *VerifyPaymentCommandHandler) Handle(ctx context.Context, cmd VerifyPaymentCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	paymentRepo := uow.PaymentRepository()
	p, err := paymentRepo.Get(ctx, cmd.PaymentID())
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if !cmd.Approved() {
		if err = p.Reject(cmd.Admin(), cmd.Notes(), now); err != nil {
			return err
		}
		if err = paymentRepo.Update(ctx, p); err != nil {
			return err
		}
		return uow.Commit(ctx)
	}

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, p.OrderID())
	if err != nil {
		return err
	}

	if err = p.Verify(cmd.Admin(), cmd.Notes(), now); err != nil {
		return err
	}
	if err = o.MarkPaid(); err != nil {
		return err
	}
	if err = paymentRepo.Update(ctx, p); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}
	if err = settleIfDue(ctx, uow, h.settlement, h.logger, o, now); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
