// Package fee resolves the distance-based cash-on-delivery (COD) fee charged on
// every order. Tiers are configuration data loaded from storage; the schedule
// falls back to a default fee when no active tier covers a distance.
package fee

import (
	"errors"
	"fmt"
	"sort"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/pkg/errs"
	"laundry/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// DefaultFee applies when no active tier covers the distance.
var DefaultFee = kernel.MoneyFromInt(5000)

var ErrTierIsNotConstructed = errs.NewValueIsRequiredError("fee tier must be created via NewTier constructor")

// Tier is a flat fee for distances in [minKm, maxKm], both bounds inclusive.
type Tier struct { //nolint:recvcheck //using for validation
	minKm  decimal.Decimal
	maxKm  decimal.Decimal
	fee    kernel.Money
	active bool
	guard  guard.ConstructorGuard
}

// NewTier validates that the bounds are non-negative, ordered, and the fee is not negative.
//
// Example:
//
//	near, _ := fee.NewTier(decimal.Zero, decimal.NewFromInt(3), kernel.MoneyFromInt(5000), true)
//	mid, _ := fee.NewTier(decimal.RequireFromString("3.01"), decimal.NewFromInt(5), kernel.MoneyFromInt(8000), true)
func NewTier(minKm, maxKm decimal.Decimal, fee kernel.Money, active bool) (Tier, error) {
	var errList []error
	if minKm.IsNegative() {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("minKm", fmt.Errorf("%s is negative", minKm)))
	}
	if maxKm.LessThan(minKm) {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"maxKm",
			fmt.Errorf("%s is less than minKm %s", maxKm, minKm),
		))
	}
	if fee.IsNegative() {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("fee", fmt.Errorf("%s is negative", fee)))
	}
	if err := errors.Join(errList...); err != nil {
		return Tier{}, err
	}

	return Tier{
		minKm:  minKm,
		maxKm:  maxKm,
		fee:    fee,
		active: active,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (t Tier) MinKm() decimal.Decimal { return t.minKm }
func (t Tier) MaxKm() decimal.Decimal { return t.maxKm }
func (t Tier) Fee() kernel.Money { return t.fee }
func (t Tier) IsActive() bool { return t.active }

func (t Tier) Validate() error {
	return t.guard.Validate(ErrTierIsNotConstructed)
}

// Covers reports whether distance lies within the tier bounds.
func (t Tier) Covers(distance decimal.Decimal) bool {
	return distance.GreaterThanOrEqual(t.minKm) && distance.LessThanOrEqual(t.maxKm)
}

// Schedule is an ordered set of tiers plus the fallback fee.
type Schedule struct {
	tiers      []Tier
	defaultFee kernel.Money
}

// NewSchedule orders tiers by ascending minimum distance. Tiers sharing a
// minimum keep their given order. A negative defaultFee is replaced by DefaultFee.
func NewSchedule(tiers []Tier, defaultFee kernel.Money) Schedule {
	ordered := make([]Tier, len(tiers))
	copy(ordered, tiers)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].minKm.LessThan(ordered[j].minKm)
	})

	if defaultFee.IsNegative() {
		defaultFee = DefaultFee
	}

	return Schedule{tiers: ordered, defaultFee: defaultFee}
}

// Resolve returns the fee of the first active tier, in ascending minimum
// distance order, whose bounds contain distance. Overlapping tiers therefore
// resolve to the one with the lowest minimum. If nothing matches, the default
// fee is returned.
//
// Example:
//
//	schedule := fee.NewSchedule(tiers, fee.DefaultFee)
//	codFee := schedule.Resolve(decimal.RequireFromString("4.2"))
func (s Schedule) Resolve(distance decimal.Decimal) kernel.Money {
	for _, t := range s.tiers {
		if t.active && t.Covers(distance) {
			return t.fee
		}
	}
	return s.defaultFee
}

// Tiers returns the ordered tiers.
func (s Schedule) Tiers() []Tier {
	out := make([]Tier, len(s.tiers))
	copy(out, s.tiers)
	return out
}

func (s Schedule) DefaultFee() kernel.Money {
	return s.defaultFee
}
