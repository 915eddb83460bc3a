package commands

import (
	"context"
	"time"

	"laundry/internal/core/domain/model/voucher"
	"laundry/internal/core/domain/services"

	"github.com/sirupsen/logrus"
)

// RepriceOrderCommandHandler recomputes an order's price breakdown after the
// partner weighed the laundry. A voucher redeemed at creation is applied again
// on its terms, without touching its quota.
type RepriceOrderCommandHandler struct {
	uowFactory OrderingUoWFactory
	pricing    services.PricingEngine
	logger     logrus.FieldLogger
}

func NewRepriceOrderCommandHandler(
	uowFactory OrderingUoWFactory,
	pricing services.PricingEngine,
	logger logrus.FieldLogger,
) RepriceOrderCommandHandler {
	return RepriceOrderCommandHandler{
		uowFactory: uowFactory,
		pricing:    pricing,
		logger:     logger,
	}
}

// Handle returns services.ErrInvalidWeight, services.ErrListingUnavailable or
// order.ErrRepriceNotAllowed when the order can no longer change.
func (h *RepriceOrderCommandHandler) Handle(ctx context.Context, cmd RepriceOrderCommand) error {
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

	l, err := uow.ListingRepository().Get(ctx, o.ListingID())
	if err != nil {
		return err
	}

	schedule, err := uow.FeeScheduleRepository().Get(ctx)
	if err != nil {
		return err
	}

	distance := o.Distance()
	if cmd.Distance().Valid {
		distance = cmd.Distance().Decimal
	}

	var redeemed *voucher.Voucher
	if id := o.VoucherID(); id != nil {
		if redeemed, err = uow.VoucherRepository().Get(ctx, *id); err != nil {
			return err
		}
	}

	now := time.Now().UTC()
	quote, err := h.pricing.Price(services.PriceRequest{
		Listing:  l,
		Weight:   cmd.Weight(),
		Distance: distance,
		Schedule: schedule,
		Voucher:  redeemed,
		Redeemed: true,
		Now:      now,
	})
	if err != nil {
		return err
	}
	if quote.VoucherErr != nil {
		h.logger.WithField("order_id", o.ID().String()).WithError(quote.VoucherErr).Info("voucher no longer grants a discount")
	}

	if err = o.Reprice(cmd.Weight(), distance, quote.Pricing, cmd.Actor(), now); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
