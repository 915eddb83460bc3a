package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"laundry/internal/core/domain/model/payout"
	"laundry/internal/core/domain/services"
	"laundry/internal/pkg/errs"
)

// SettleOrderCommandHandler creates the payout of a paid order on request.
// Unlike the automatic settlement after status changes, every failure is
// reported to the caller, including payout.ErrAlreadySettled.
//
// Example:
//
//	cmd, _ := NewSettleOrderCommand(orderID, &paymentID, admin)
//	p, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, payout.ErrAlreadySettled) {
//	    // the order was settled before
//	}
type SettleOrderCommandHandler struct {
	uowFactory SettlementUoWFactory
	settlement services.SettlementEngine
}

func NewSettleOrderCommandHandler(uowFactory SettlementUoWFactory, settlement services.SettlementEngine) SettleOrderCommandHandler {
	return SettleOrderCommandHandler{
		uowFactory: uowFactory,
		settlement: settlement,
	}
}

func (h *SettleOrderCommandHandler) Handle(ctx context.Context, cmd SettleOrderCommand) (*payout.Payout, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if id := cmd.PaymentID(); id != nil {
		p, getErr := uow.PaymentRepository().Get(ctx, *id)
		if errors.Is(getErr, errs.ErrObjectNotFound) {
			return nil, fmt.Errorf("%w: %w", services.ErrPaymentNotVerified, getErr)
		}
		if getErr != nil {
			return nil, getErr
		}
		if !p.OrderID().IsEqual(o.ID()) {
			return nil, fmt.Errorf("%w: payment %s belongs to another order", services.ErrPaymentNotVerified, p.ID())
		}
	}

	created, err := settleOrder(ctx, uow, h.settlement, o, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}
