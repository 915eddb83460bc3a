package services

import (
	"errors"
	"fmt"
	"time"

	"laundry/internal/core/domain/model/fee"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/listing"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/core/domain/model/voucher"
	"laundry/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidWeight is returned for weights outside (0, max] kilograms.
	ErrInvalidWeight = errors.New("invalid order weight")

	// ErrListingUnavailable is returned when the listing is missing, inactive or closed.
	ErrListingUnavailable = errors.New("listing is unavailable")

	// DefaultPlatformFeeRate is the platform commission on the laundry price.
	DefaultPlatformFeeRate = decimal.RequireFromString("0.03")
)

// PriceRequest carries everything needed to price one order.
type PriceRequest struct {
	Listing  *listing.Listing
	Weight   decimal.Decimal
	Distance decimal.Decimal
	Schedule fee.Schedule

	// Voucher is optional. PastUsages is how many orders the customer already
	// placed with it. Redeemed is set when repricing an order that already
	// consumed the voucher, so only its terms are applied.
	Voucher    *voucher.Voucher
	PastUsages int
	Redeemed   bool

	Now time.Time
}

// Quote is the result of pricing. VoucherErr explains why a supplied voucher
// gave no discount; it wraps voucher.ErrVoucherInvalid and is not a failure.
type Quote struct {
	Pricing        order.Pricing
	VoucherApplied bool
	VoucherErr     error
}

// PricingEngine computes order price breakdowns. It never mutates the
// listing, the schedule or the voucher.
//
// Algorithm:
//  1. laundry = price per kg * weight
//  2. cod = fee schedule resolved for the distance
//  3. platform = laundry * fee rate
//  4. subtotal = laundry + cod + platform
//  5. discount = voucher discount clamped to [0, subtotal]
//  6. total = subtotal - discount
//
// Every component is rounded to whole currency units before it is summed, so
// the total always equals the sum of the stored components.
type PricingEngine struct {
	feeRate   decimal.Decimal
	maxWeight decimal.Decimal
}

// NewPricingEngine validates feeRate (in [0, 1)) and maxWeight (> 0).
//
// Example:
//
//	engine, err := services.NewPricingEngine(services.DefaultPlatformFeeRate, order.MaxWeight)
func NewPricingEngine(feeRate, maxWeight decimal.Decimal) (PricingEngine, error) {
	var errList []error
	if feeRate.IsNegative() || feeRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		errList = append(errList, errs.NewValueIsOutOfRangeError("feeRate", feeRate.String(), 0, "1 (exclusive)"))
	}
	if !maxWeight.IsPositive() || maxWeight.GreaterThan(order.MaxWeight) {
		errList = append(errList, errs.NewValueIsOutOfRangeError("maxWeight", maxWeight.String(), "0 (exclusive)", order.MaxWeight.String()))
	}
	if err := errors.Join(errList...); err != nil {
		return PricingEngine{}, err
	}
	return PricingEngine{feeRate: feeRate, maxWeight: maxWeight}, nil
}

func (e PricingEngine) FeeRate() decimal.Decimal {
	return e.feeRate
}

// Price computes the breakdown for req.
//
// Returns:
//   - Quote: pricing plus the voucher outcome
//   - error: ErrInvalidWeight or ErrListingUnavailable (wrapped)
func (e PricingEngine) Price(req PriceRequest) (Quote, error) {
	weight := req.Weight.Round(2)
	if !weight.IsPositive() || weight.GreaterThan(e.maxWeight) {
		return Quote{}, fmt.Errorf("%w: %s kg must be in (0, %s]", ErrInvalidWeight, req.Weight, e.maxWeight)
	}
	if req.Listing == nil || req.Listing.Validate() != nil {
		return Quote{}, fmt.Errorf("%w: listing not found", ErrListingUnavailable)
	}
	if !req.Listing.IsAvailable() {
		return Quote{}, fmt.Errorf("%w: %s is inactive or closed", ErrListingUnavailable, req.Listing.ID())
	}

	distance := req.Distance.Round(2)
	if distance.IsNegative() {
		return Quote{}, errs.NewValueIsInvalidErrorWithCause("distance", fmt.Errorf("%s is negative", req.Distance))
	}

	laundry := req.Listing.PricePerKg().Mul(weight).Round()
	cod := req.Schedule.Resolve(distance).Round()
	platform := laundry.Mul(e.feeRate).Round()
	subtotal := laundry.Add(cod).Add(platform)

	discount, voucherErr := e.discount(req, laundry, weight, cod)
	discount = discount.Round().Clamp(kernel.ZeroMoney(), subtotal)

	pricing, err := order.NewPricing(laundry, cod, platform, discount)
	if err != nil {
		return Quote{}, err
	}

	return Quote{
		Pricing:        pricing,
		VoucherApplied: req.Voucher != nil && voucherErr == nil,
		VoucherErr:     voucherErr,
	}, nil
}

func (e PricingEngine) discount(req PriceRequest, laundry kernel.Money, weight decimal.Decimal, cod kernel.Money) (kernel.Money, error) {
	v := req.Voucher
	if v == nil {
		return kernel.ZeroMoney(), nil
	}
	if !v.AppliesTo(req.Listing.ID()) {
		return kernel.ZeroMoney(), fmt.Errorf("%w: %s was issued for another listing", voucher.ErrVoucherInvalid, v.Code())
	}

	var amount kernel.Money
	if req.Redeemed {
		amount = v.DiscountFor(laundry, weight, cod)
	} else {
		if !v.CanBeUsedBy(req.PastUsages, req.Now) {
			return kernel.ZeroMoney(), fmt.Errorf("%w: %s is expired, exhausted or already used", voucher.ErrVoucherInvalid, v.Code())
		}
		amount = v.CalculateDiscount(laundry, weight, cod, req.Now)
	}

	if !amount.Round().IsPositive() {
		return kernel.ZeroMoney(), fmt.Errorf("%w: %s minimum order not met", voucher.ErrVoucherInvalid, v.Code())
	}
	return amount, nil
}
