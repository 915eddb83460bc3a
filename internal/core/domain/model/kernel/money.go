package kernel

import (
	"fmt"

	"laundry/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Money is an exact amount in the marketplace currency (IDR). It is backed by
// shopspring/decimal so price arithmetic never accumulates binary rounding error.
//
// The zero value is a valid zero amount. Arithmetic may produce negative
// intermediate values (e.g. gross minus fee); NewMoney is the only constructor
// that enforces non-negativity.
//
// Example:
//
//	price, _ := kernel.NewMoney(decimal.NewFromInt(8000))
//	laundry := price.Mul(decimal.RequireFromString("2.5")) // 20000
//	fee := laundry.Mul(decimal.RequireFromString("0.03")).Round() // 600
type Money struct {
	amount decimal.Decimal
}

// NewMoney validates that amount is not negative.
func NewMoney(amount decimal.Decimal) (Money, error) {
	if amount.IsNegative() {
		return Money{}, errs.NewValueIsInvalidErrorWithCause(
			"amount",
			fmt.Errorf("%s is negative", amount.String()),
		)
	}
	return Money{amount: amount}, nil
}

// MoneyFromInt builds an amount of whole currency units.
func MoneyFromInt(units int64) Money {
	return Money{amount: decimal.NewFromInt(units)}
}

// ZeroMoney returns an amount of zero.
func ZeroMoney() Money {
	return Money{amount: decimal.Zero}
}

// Decimal returns the underlying decimal value.
func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

func (m Money) Sub(other Money) Money {
	return Money{amount: m.amount.Sub(other.amount)}
}

func (m Money) Mul(factor decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(factor)}
}

// Div divides by divisor. A zero divisor yields zero rather than panicking.
func (m Money) Div(divisor decimal.Decimal) Money {
	if divisor.IsZero() {
		return ZeroMoney()
	}
	return Money{amount: m.amount.Div(divisor)}
}

// Round rounds half away from zero to whole currency units.
func (m Money) Round() Money {
	return Money{amount: m.amount.Round(0)}
}

// Clamp limits the amount to [lower, upper].
func (m Money) Clamp(lower, upper Money) Money {
	if m.LessThan(lower) {
		return lower
	}
	if m.GreaterThan(upper) {
		return upper
	}
	return m
}

func (m Money) Min(other Money) Money {
	if other.LessThan(m) {
		return other
	}
	return m
}

func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

func (m Money) Equal(other Money) bool {
	return m.amount.Equal(other.amount)
}

func (m Money) LessThan(other Money) bool {
	return m.amount.LessThan(other.amount)
}

func (m Money) GreaterThan(other Money) bool {
	return m.amount.GreaterThan(other.amount)
}

// String renders the amount with two decimals, e.g. "53200.00".
func (m Money) String() string {
	return m.amount.StringFixed(2)
}
