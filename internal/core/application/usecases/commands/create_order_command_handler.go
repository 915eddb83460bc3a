package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/core/domain/model/voucher"
	"laundry/internal/core/domain/services"
	"laundry/internal/core/ports"
	"laundry/internal/pkg/errs"

	"github.com/sirupsen/logrus"
)

// CreateOrderCommandHandler places a pending order. It prices the order from
// the listing, the COD fee schedule and the optional voucher, and consumes one
// unit of voucher quota in the same transaction.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, pricing, logger)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("order creation failed: %w", err)
//	}
type CreateOrderCommandHandler struct {
	uowFactory OrderingUoWFactory
	pricing    services.PricingEngine
	logger     logrus.FieldLogger
}

func NewCreateOrderCommandHandler(
	uowFactory OrderingUoWFactory,
	pricing services.PricingEngine,
	logger logrus.FieldLogger,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		pricing:    pricing,
		logger:     logger,
	}
}

// Handle processes the order creation command.
//
// An unknown, expired or exhausted voucher does not fail the order; it is
// logged and the order is priced without a discount.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
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

	draft := cmd.Draft()
	now := time.Now().UTC()

	l, err := uow.ListingRepository().Get(ctx, draft.ListingID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return fmt.Errorf("%w: %w", services.ErrListingUnavailable, err)
	}
	if err != nil {
		return err
	}

	schedule, err := uow.FeeScheduleRepository().Get(ctx)
	if err != nil {
		return err
	}

	req := services.PriceRequest{
		Listing:  l,
		Weight:   draft.Weight,
		Distance: draft.Pickup.DistanceTo(l.Location()),
		Schedule: schedule,
		Now:      now,
	}

	orderRepo := uow.OrderRepository()
	if draft.VoucherCode != "" {
		v, pastUsages, lookupErr := lookupVoucher(ctx, uow, orderRepo, draft.VoucherCode, cmd.Customer().ID())
		if lookupErr != nil {
			return lookupErr
		}
		req.Voucher = v
		req.PastUsages = pastUsages
	}

	quote, err := h.pricing.Price(req)
	if err != nil {
		return err
	}
	if draft.VoucherCode != "" && req.Voucher == nil {
		quote.VoucherErr = fmt.Errorf("%w: %s does not exist", voucher.ErrVoucherInvalid, draft.VoucherCode)
	}
	if err = l.AcceptWeight(draft.Weight); err != nil {
		return err
	}

	var voucherID *kernel.UUID
	if quote.VoucherApplied {
		err = uow.VoucherRepository().IncrementUsage(ctx, req.Voucher.ID())
		switch {
		case err == nil:
			id := req.Voucher.ID()
			voucherID = &id
		case errors.Is(err, voucher.ErrVoucherQuotaExhausted):
			quote.VoucherErr = fmt.Errorf("%w: %w", voucher.ErrVoucherInvalid, err)
			req.Voucher = nil
			if quote, err = h.pricing.Price(req); err != nil {
				return err
			}
		default:
			return err
		}
	}
	if quote.VoucherErr != nil {
		h.logger.WithFields(logrus.Fields{
			"order_id": cmd.OrderID().String(),
			"voucher":  draft.VoucherCode,
		}).WithError(quote.VoucherErr).Info("voucher not applied")
	}

	o, err := order.NewOrder(cmd.OrderID(), order.Details{
		CustomerID:      cmd.Customer().ID(),
		ListingID:       l.ID(),
		PartnerID:       l.PartnerID(),
		ServiceType:     draft.ServiceType,
		PaymentMethod:   draft.PaymentMethod,
		Weight:          draft.Weight,
		Distance:        req.Distance,
		PickupAddress:   draft.PickupAddress,
		DeliveryAddress: draft.DeliveryAddress,
		PickupTime:      draft.PickupTime,
		Notes:           draft.Notes,
	}, quote.Pricing, voucherID, now)
	if err != nil {
		return err
	}

	if err = orderRepo.Add(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// lookupVoucher resolves a voucher code. An unknown code yields a nil voucher
// so the order is priced without a discount.
func lookupVoucher(
	ctx context.Context,
	repos VoucherRepoFactory,
	orders ports.OrderRepository,
	code string,
	customerID kernel.UUID,
) (*voucher.Voucher, int, error) {
	v, err := repos.VoucherRepository().GetByCode(ctx, code)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, err
	}

	pastUsages, err := orders.CountByCustomerAndVoucher(ctx, customerID, v.ID())
	if err != nil {
		return nil, 0, err
	}
	return v, pastUsages, nil
}
