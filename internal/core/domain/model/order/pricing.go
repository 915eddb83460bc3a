package order

import (
	"errors"
	"fmt"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/pkg/errs"
	"laundry/internal/pkg/guard"
)

var ErrPricingIsNotConstructed = errs.NewValueIsRequiredError("pricing must be created via NewPricing constructor")

// Pricing is the price breakdown of an order. It is replaced as a whole
// whenever an order is repriced, so the components always agree:
//
//	total = laundry + cod + platform - discount, with 0 <= discount <= subtotal
type Pricing struct { //nolint:recvcheck //using for validation
	laundryPrice    kernel.Money
	codFee          kernel.Money
	platformFee     kernel.Money
	voucherDiscount kernel.Money
	totalPrice      kernel.Money
	guard           guard.ConstructorGuard
}

// NewPricing derives the total from its components and validates the invariants.
//
// Example:
//
//	p, err := order.NewPricing(
//	    kernel.MoneyFromInt(40000), kernel.MoneyFromInt(12000),
//	    kernel.MoneyFromInt(1200), kernel.ZeroMoney(),
//	) // p.TotalPrice() == 53200
func NewPricing(laundryPrice, codFee, platformFee, voucherDiscount kernel.Money) (Pricing, error) {
	var errList []error
	for name, m := range map[string]kernel.Money{
		"laundryPrice":    laundryPrice,
		"codFee":          codFee,
		"platformFee":     platformFee,
		"voucherDiscount": voucherDiscount,
	} {
		if m.IsNegative() {
			errList = append(errList, errs.NewValueIsInvalidErrorWithCause(name, fmt.Errorf("%s is negative", m)))
		}
	}
	if err := errors.Join(errList...); err != nil {
		return Pricing{}, err
	}

	subtotal := laundryPrice.Add(codFee).Add(platformFee)
	if voucherDiscount.GreaterThan(subtotal) {
		return Pricing{}, errs.NewValueIsInvalidErrorWithCause(
			"voucherDiscount",
			fmt.Errorf("%s exceeds subtotal %s", voucherDiscount, subtotal),
		)
	}

	return Pricing{
		laundryPrice:    laundryPrice,
		codFee:          codFee,
		platformFee:     platformFee,
		voucherDiscount: voucherDiscount,
		totalPrice:      subtotal.Sub(voucherDiscount),
		guard:           guard.NewConstructorGuard(),
	}, nil
}

func (p Pricing) Validate() error {
	return p.guard.Validate(ErrPricingIsNotConstructed)
}

func (p Pricing) LaundryPrice() kernel.Money {
	return p.laundryPrice
}

func (p Pricing) CODFee() kernel.Money {
	return p.codFee
}

func (p Pricing) PlatformFee() kernel.Money {
	return p.platformFee
}

func (p Pricing) VoucherDiscount() kernel.Money {
	return p.voucherDiscount
}

func (p Pricing) TotalPrice() kernel.Money {
	return p.totalPrice
}

// Subtotal is the price before the voucher discount.
func (p Pricing) Subtotal() kernel.Money {
	return p.laundryPrice.Add(p.codFee).Add(p.platformFee)
}
