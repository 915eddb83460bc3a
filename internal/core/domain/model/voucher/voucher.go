// Package voucher implements partner-issued discount vouchers: their validity
// window, quota and per-customer limits, and the discount each kind grants.
package voucher

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var (
	ErrVoucherIsNotConstructed = errors.New("Voucher must be created via NewVoucher or RestoreVoucher constructor")

	// ErrVoucherInvalid reports a voucher that cannot be applied to an order.
	// Callers log it and price the order without a discount.
	ErrVoucherInvalid = errors.New("voucher is not applicable")

	// ErrVoucherQuotaExhausted is returned when redeeming a voucher whose quota is used up.
	ErrVoucherQuotaExhausted = errors.New("voucher quota is exhausted")
)

var hundred = decimal.NewFromInt(100)

// Terms are the partner-defined conditions of a voucher.
type Terms struct {
	Kind  Kind
	Value decimal.Decimal

	// MaxDiscount caps percentage discounts. Nil or zero means uncapped.
	MaxDiscount *kernel.Money

	MinOrderAmount  kernel.Money
	MinOrderWeight  decimal.Decimal
	MaxUsagePerUser int
	TotalQuota      int
	ValidFrom       time.Time
	ValidUntil      time.Time
}

// Voucher is a discount code issued for a single partner listing.
//
// Invariants:
//   - usedCount never exceeds totalQuota
//   - a voucher is usable only while active, approved and inside its validity window
type Voucher struct {
	id        kernel.UUID
	listingID kernel.UUID
	code      string
	terms     Terms
	usedCount int
	active    bool
	approved  bool

	isConstructed bool
}

// NewVoucher creates an active voucher awaiting admin approval.
//
// Example:
//
//	v, err := voucher.NewVoucher(kernel.NewUUID(), listingID, "hemat10", voucher.Terms{
//	    Kind:            voucher.KindPercentage,
//	    Value:           decimal.NewFromInt(10),
//	    MaxUsagePerUser: 1,
//	    TotalQuota:      100,
//	    ValidFrom:       now,
//	    ValidUntil:      now.AddDate(0, 1, 0),
//	})
func NewVoucher(id, listingID kernel.UUID, code string, terms Terms) (*Voucher, error) {
	v := &Voucher{
		active:        true,
		isConstructed: true,
	}

	if err := errors.Join(
		v.setIDs(id, listingID),
		v.setCode(code),
		v.setTerms(terms),
	); err != nil {
		return nil, err
	}

	return v, nil
}

// RestoreVoucher rebuilds a voucher from storage. Only identity and the usage
// counter are checked; the terms are taken as persisted, including kinds this
// version does not know.
func RestoreVoucher(
	id, listingID kernel.UUID,
	code string,
	terms Terms,
	usedCount int,
	active, approved bool,
) (*Voucher, error) {
	v := &Voucher{
		code:          code,
		terms:         terms,
		active:        active,
		approved:      approved,
		isConstructed: true,
	}

	var countErr error
	if usedCount < 0 {
		countErr = errs.NewValueIsInvalidErrorWithCause("usedCount", fmt.Errorf("%d is negative", usedCount))
	}
	if err := errors.Join(v.setIDs(id, listingID), countErr); err != nil {
		return nil, err
	}
	v.usedCount = usedCount

	return v, nil
}

func (v *Voucher) Validate() error {
	if v == nil || !v.isConstructed {
		return ErrVoucherIsNotConstructed
	}
	return nil
}

func (v *Voucher) ID() kernel.UUID { return v.id }
func (v *Voucher) ListingID() kernel.UUID { return v.listingID }
func (v *Voucher) Code() string { return v.code }
func (v *Voucher) Terms() Terms { return v.terms }
func (v *Voucher) Kind() Kind { return v.terms.Kind }
func (v *Voucher) UsedCount() int { return v.usedCount }
func (v *Voucher) IsActive() bool { return v.active }
func (v *Voucher) IsApproved() bool { return v.approved }

// Approve marks the voucher as approved by an administrator.
func (v *Voucher) Approve() {
	v.approved = true
}

// Deactivate withdraws the voucher.
func (v *Voucher) Deactivate() {
	v.active = false
}

// IsValid reports whether the voucher can be used at all at instant now:
// active, approved, within [validFrom, validUntil] and with quota left.
func (v *Voucher) IsValid(now time.Time) bool {
	return v.active &&
		v.approved &&
		!now.Before(v.terms.ValidFrom) &&
		!now.After(v.terms.ValidUntil) &&
		v.usedCount < v.terms.TotalQuota
}

// CanBeUsedBy reports whether a customer who has already used the voucher on
// pastUsages orders may use it again.
func (v *Voucher) CanBeUsedBy(pastUsages int, now time.Time) bool {
	return v.IsValid(now) && pastUsages < v.terms.MaxUsagePerUser
}

// AppliesTo reports whether the voucher was issued for listingID.
func (v *Voucher) AppliesTo(listingID kernel.UUID) bool {
	return v.listingID.IsEqual(listingID)
}

// CalculateDiscount returns the unrounded discount for an order whose laundry
// price is orderAmount. It is zero when the voucher is not valid at now.
//
// Example:
//
//	discount := v.CalculateDiscount(kernel.MoneyFromInt(30000), decimal.NewFromInt(3), codFee, time.Now())
func (v *Voucher) CalculateDiscount(
	orderAmount kernel.Money,
	orderWeight decimal.Decimal,
	deliveryFee kernel.Money,
	now time.Time,
) kernel.Money {
	if !v.IsValid(now) {
		return kernel.ZeroMoney()
	}
	return v.DiscountFor(orderAmount, orderWeight, deliveryFee)
}

// DiscountFor applies the voucher terms without checking validity or quota.
// It is used to reprice orders that already redeemed the voucher.
//
//   - free_shipping: the delivery fee
//   - percentage_discount: orderAmount * value / 100, capped at MaxDiscount
//   - fixed_discount: value
//   - free_kg: (orderAmount / orderWeight) * value, zero for zero weight
//   - unknown kinds: zero
//
// Orders below the minimum amount or weight get zero.
func (v *Voucher) DiscountFor(orderAmount kernel.Money, orderWeight decimal.Decimal, deliveryFee kernel.Money) kernel.Money {
	if orderAmount.LessThan(v.terms.MinOrderAmount) || orderWeight.LessThan(v.terms.MinOrderWeight) {
		return kernel.ZeroMoney()
	}

	switch v.terms.Kind {
	case KindFreeShipping:
		return deliveryFee
	case KindPercentage:
		discount := orderAmount.Mul(v.terms.Value).Div(hundred)
		if v.terms.MaxDiscount != nil && v.terms.MaxDiscount.IsPositive() {
			discount = discount.Min(*v.terms.MaxDiscount)
		}
		return discount
	case KindFixed:
		return moneyOf(v.terms.Value)
	case KindFreeKg:
		if !orderWeight.IsPositive() {
			return kernel.ZeroMoney()
		}
		return orderAmount.Div(orderWeight).Mul(v.terms.Value)
	case KindUnknown:
		return kernel.ZeroMoney()
	}

	return kernel.ZeroMoney()
}

// Redeem consumes one unit of quota. It is the in-memory counterpart of the
// repository's conditional increment.
func (v *Voucher) Redeem() error {
	if v.usedCount >= v.terms.TotalQuota {
		return fmt.Errorf("%w: %s used %d of %d", ErrVoucherQuotaExhausted, v.code, v.usedCount, v.terms.TotalQuota)
	}
	v.usedCount++
	return nil
}

func moneyOf(d decimal.Decimal) kernel.Money {
	m, err := kernel.NewMoney(d)
	if err != nil {
		return kernel.ZeroMoney()
	}
	return m
}

func (v *Voucher) setIDs(id, listingID kernel.UUID) error {
	if err := errors.Join(id.Validate(), listingID.Validate()); err != nil {
		return err
	}
	v.id = id
	v.listingID = listingID
	return nil
}

func (v *Voucher) setCode(code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return errs.NewValueIsRequiredError("code")
	}
	v.code = code
	return nil
}

func (v *Voucher) setTerms(terms Terms) error {
	var errList []error

	if err := terms.Kind.Validate(); err != nil {
		errList = append(errList, err)
	}
	if terms.Value.IsNegative() {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("value", fmt.Errorf("%s is negative", terms.Value)))
	}
	if terms.Kind == KindPercentage && terms.Value.GreaterThan(hundred) {
		errList = append(errList, errs.NewValueIsOutOfRangeError("value", terms.Value.String(), 0, 100))
	}
	if terms.MaxDiscount != nil && terms.MaxDiscount.IsNegative() {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("maxDiscount", errors.New("is negative")))
	}
	if terms.MinOrderAmount.IsNegative() || terms.MinOrderWeight.IsNegative() {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("minimumOrder", errors.New("is negative")))
	}
	if terms.MaxUsagePerUser < 1 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"maxUsagePerUser", fmt.Errorf("%d is less than 1", terms.MaxUsagePerUser)))
	}
	if terms.TotalQuota < 1 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"totalQuota", fmt.Errorf("%d is less than 1", terms.TotalQuota)))
	}
	if terms.ValidUntil.Before(terms.ValidFrom) {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"validUntil", errors.New("ends before validity starts")))
	}

	if err := errors.Join(errList...); err != nil {
		return err
	}

	v.terms = terms
	return nil
}
