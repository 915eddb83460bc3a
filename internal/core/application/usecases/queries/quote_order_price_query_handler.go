package queries

import (
	"context"
	"errors"
	"fmt"
	"time"

	"laundry/internal/core/domain/model/voucher"
	"laundry/internal/core/domain/services"
	"laundry/internal/core/ports"
	"laundry/internal/pkg/errs"
)

// QuoteOrderPriceQueryHandler runs the pricing engine against stored
// listings, fee tiers and vouchers. It reads outside a transaction and
// consumes no voucher quota.
type QuoteOrderPriceQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
	pricing    services.PricingEngine
}

func NewQuoteOrderPriceQueryHandler(
	uowFactory ports.UnitOfWorkFactory,
	pricing services.PricingEngine,
) QuoteOrderPriceQueryHandler {
	return QuoteOrderPriceQueryHandler{
		uowFactory: uowFactory,
		pricing:    pricing,
	}
}

func (h QuoteOrderPriceQueryHandler) Handle(
	ctx context.Context,
	query QuoteOrderPriceQuery,
) (QuoteOrderPriceQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return QuoteOrderPriceQueryResponse{}, err
	}

	in := query.Input()
	repos := h.uowFactory.Create()

	l, err := repos.ListingRepository().Get(ctx, in.ListingID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return QuoteOrderPriceQueryResponse{}, fmt.Errorf("%w: %w", services.ErrListingUnavailable, err)
	}
	if err != nil {
		return QuoteOrderPriceQueryResponse{}, err
	}

	schedule, err := repos.FeeScheduleRepository().Get(ctx)
	if err != nil {
		return QuoteOrderPriceQueryResponse{}, err
	}

	req := services.PriceRequest{
		Listing:  l,
		Weight:   in.Weight,
		Distance: in.Distance.Decimal,
		Schedule: schedule,
		Now:      time.Now().UTC(),
	}
	if !in.Distance.Valid {
		req.Distance = in.Pickup.DistanceTo(l.Location())
	}

	var unknownVoucher error
	if in.VoucherCode != "" {
		v, lookupErr := repos.VoucherRepository().GetByCode(ctx, in.VoucherCode)
		switch {
		case errors.Is(lookupErr, errs.ErrObjectNotFound):
			unknownVoucher = fmt.Errorf("%w: %s does not exist", voucher.ErrVoucherInvalid, in.VoucherCode)
		case lookupErr != nil:
			return QuoteOrderPriceQueryResponse{}, lookupErr
		default:
			req.Voucher = v
		}
	}
	if req.Voucher != nil && in.CustomerID != nil {
		req.PastUsages, err = repos.OrderRepository().CountByCustomerAndVoucher(ctx, *in.CustomerID, req.Voucher.ID())
		if err != nil {
			return QuoteOrderPriceQueryResponse{}, err
		}
	}

	quote, err := h.pricing.Price(req)
	if err != nil {
		return QuoteOrderPriceQueryResponse{}, err
	}

	resp := QuoteOrderPriceQueryResponse{
		Distance:       req.Distance.Round(2),
		Pricing:        quote.Pricing,
		VoucherApplied: quote.VoucherApplied,
	}
	switch {
	case unknownVoucher != nil:
		resp.VoucherMessage = unknownVoucher.Error()
	case quote.VoucherErr != nil:
		resp.VoucherMessage = quote.VoucherErr.Error()
	}
	return resp, nil
}
