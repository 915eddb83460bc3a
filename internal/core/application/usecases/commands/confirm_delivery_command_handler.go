package commands

import (
	"context"
	"time"

	"laundry/internal/core/domain/services"

	"github.com/sirupsen/logrus"
)

// ConfirmDeliveryCommandHandler stamps the actual delivery of an order and
// settles it when it is paid.
type ConfirmDeliveryCommandHandler struct {
	uowFactory SettlementUoWFactory
	settlement services.SettlementEngine
	logger     logrus.FieldLogger
}

func NewConfirmDeliveryCommandHandler(
	uowFactory SettlementUoWFactory,
	settlement services.SettlementEngine,
	logger logrus.FieldLogger,
) ConfirmDeliveryCommandHandler {
	return ConfirmDeliveryCommandHandler{
		uowFactory: uowFactory,
		settlement: settlement,
		logger:     logger,
	}
}

func (h *ConfirmDeliveryCommandHandler) Handle(ctx context.Context, cmd ConfirmDeliveryCommand) error {
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
	if err = o.ConfirmDelivery(cmd.Customer(), cmd.Note(), now); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}
	if err = afterStatusChange(ctx, uow, h.settlement, h.logger, o, cmd.Customer(), now); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
