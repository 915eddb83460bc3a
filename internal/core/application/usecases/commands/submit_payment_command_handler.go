package commands

import (
	"context"
	"errors"
	"time"

	"laundry/internal/core/domain/model/payment"
	"laundry/internal/pkg/errs"
)

// SubmitPaymentCommandHandler creates the order's payment, or resubmits it
// when an earlier proof is still pending or was rejected.
type SubmitPaymentCommandHandler struct {
	uowFactory SettlementUoWFactory
}

func NewSubmitPaymentCommandHandler(uowFactory SettlementUoWFactory) SubmitPaymentCommandHandler {
	return SubmitPaymentCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle returns payment.ErrCODNeedsNoPayment for COD orders and
// payment.ErrPaymentAlreadyVerified once the payment was accepted.
func (h *SubmitPaymentCommandHandler) Handle(ctx context.Context, cmd SubmitPaymentCommand) error {
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

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	paymentRepo := uow.PaymentRepository()
	existing, err := paymentRepo.GetByOrder(ctx, o.ID())
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		p, newErr := payment.NewPayment(cmd.PaymentID(), o, cmd.ProofRef(), cmd.Customer(), now)
		if newErr != nil {
			return newErr
		}
		if err = paymentRepo.Add(ctx, p); err != nil {
			return err
		}
	case err != nil:
		return err
	default:
		if err = existing.Resubmit(o, cmd.ProofRef(), cmd.Customer(), now); err != nil {
			return err
		}
		if err = paymentRepo.Update(ctx, existing); err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}
