package queries

import (
	"errors"
	"strings"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/pkg/errs"
	"laundry/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrQuoteOrderPriceQueryIsNotConstructed = errors.New(
		"QuoteOrderPriceQuery must be created via NewQuoteOrderPriceQuery constructor",
	)
	ErrDistanceOrPickupIsRequired = errors.New("either a distance or a pickup point is required")
)

// QuoteInput is what a customer enters before placing an order. Distance
// wins over Pickup when both are set. CustomerID is optional and only used to
// count earlier uses of the voucher.
type QuoteInput struct {
	ListingID   kernel.UUID
	Weight      decimal.Decimal
	Distance    decimal.NullDecimal
	Pickup      *kernel.Coordinates
	VoucherCode string
	CustomerID  *kernel.UUID
}

// QuoteOrderPriceQuery prices a prospective order without storing anything.
//
// Example:
//
//	query, err := NewQuoteOrderPriceQuery(QuoteInput{
//	    ListingID:   listingID,
//	    Weight:      decimal.NewFromInt(5),
//	    Distance:    decimal.NewNullDecimal(decimal.NewFromInt(6)),
//	    VoucherCode: "HEMAT10",
//	})
//	if err != nil {
//	    return err
//	}
//
//	quote, err := handler.Handle(ctx, query)
type QuoteOrderPriceQuery struct { //nolint:recvcheck //using for validation
	input QuoteInput
	guard guard.ConstructorGuard
}

func NewQuoteOrderPriceQuery(input QuoteInput) (QuoteOrderPriceQuery, error) {
	q := QuoteOrderPriceQuery{guard: guard.NewConstructorGuard()}
	if err := q.setInput(input); err != nil {
		return QuoteOrderPriceQuery{}, err
	}
	return q, nil
}

// Validate ensures the query was created through the constructor.
func (q QuoteOrderPriceQuery) Validate() error {
	return q.guard.Validate(ErrQuoteOrderPriceQueryIsNotConstructed)
}

func (q QuoteOrderPriceQuery) Input() QuoteInput {
	return q.input
}

func (q *QuoteOrderPriceQuery) setInput(in QuoteInput) error {
	var errList []error
	if err := in.ListingID.Validate(); err != nil {
		errList = append(errList, err)
	}
	switch {
	case in.Distance.Valid:
		if in.Distance.Decimal.IsNegative() {
			errList = append(errList, errs.NewValueIsOutOfRangeError("distance", in.Distance.Decimal.String(), 0, "unbounded"))
		}
	case in.Pickup != nil:
		if err := in.Pickup.Validate(); err != nil {
			errList = append(errList, err)
		}
	default:
		errList = append(errList, ErrDistanceOrPickupIsRequired)
	}
	if in.CustomerID != nil {
		if err := in.CustomerID.Validate(); err != nil {
			errList = append(errList, err)
		}
	}
	if err := errors.Join(errList...); err != nil {
		return err
	}

	in.VoucherCode = strings.ToUpper(strings.TrimSpace(in.VoucherCode))
	q.input = in
	return nil
}

// QuoteOrderPriceQueryResponse is the price breakdown. VoucherMessage says
// why a supplied voucher gave no discount.
type QuoteOrderPriceQueryResponse struct {
	Distance       decimal.Decimal
	Pricing        order.Pricing
	VoucherApplied bool
	VoucherMessage string
}
