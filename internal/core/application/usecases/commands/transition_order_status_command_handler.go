package commands

import (
	"context"
	"time"

	"laundry/internal/core/domain/services"

	"github.com/sirupsen/logrus"
)

// TransitionOrderStatusCommandHandler applies a status change and its side
// effects in one transaction: reaching delivered bumps the listing's
// completed-order counter, and a delivered paid order is settled.
type TransitionOrderStatusCommandHandler struct {
	uowFactory SettlementUoWFactory
	settlement services.SettlementEngine
	logger     logrus.FieldLogger
}

func NewTransitionOrderStatusCommandHandler(
	uowFactory SettlementUoWFactory,
	settlement services.SettlementEngine,
	logger logrus.FieldLogger,
) TransitionOrderStatusCommandHandler {
	return TransitionOrderStatusCommandHandler{
		uowFactory: uowFactory,
		settlement: settlement,
		logger:     logger,
	}
}

// Handle returns order.ErrInvalidTransition for backward moves and moves out
// of a terminal status, and kernel.ErrForbidden for partners acting on
// another partner's order.
func (h *TransitionOrderStatusCommandHandler) Handle(ctx context.Context, cmd TransitionOrderStatusCommand) error {
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

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if err = o.Transition(cmd.Target(), cmd.Actor(), cmd.Note(), now); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}
	if err = afterStatusChange(ctx, uow, h.settlement, h.logger, o, cmd.Actor(), now); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
