package services

import (
	"errors"
	"fmt"
	"time"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/core/domain/model/payment"
	"laundry/internal/core/domain/model/payout"
)

// ErrPaymentNotVerified is returned when settling an order whose payment has
// not been verified (online) or collected (COD).
var ErrPaymentNotVerified = errors.New("payment is not verified")

// SettlementEngine turns a paid order into the partner payout.
//
// Business rules:
//   - online orders need their own payment in verified status
//   - COD orders need no payment but must be paid, i.e. delivered
//   - cancelled orders are never settled
//   - gross is the order total and the fee is the order's platform fee
//
// Settle does not know whether a payout already exists. Callers check the
// payout repository first and the unique index rejects concurrent duplicates.
type SettlementEngine struct{}

func NewSettlementEngine() SettlementEngine {
	return SettlementEngine{}
}

// Settle creates the payout for o. p is nil for COD orders.
//
// Example:
//
//	p, err := engine.Settle(o, verifiedPayment, payout.SnapshotOf(account), time.Now())
//	if errors.Is(err, services.ErrPaymentNotVerified) {
//	    // wait for verification
//	}
func (SettlementEngine) Settle(o *order.Order, p *payment.Payment, bank payout.BankAccount, now time.Time) (*payout.Payout, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if o.Status() == order.Cancelled {
		return nil, fmt.Errorf("%w: %s", order.ErrOrderCancelled, o.Number())
	}

	if o.IsCOD() {
		if !o.IsPaid() {
			return nil, fmt.Errorf("%w: cash for %s not collected yet", ErrPaymentNotVerified, o.Number())
		}
	} else {
		if p == nil || p.Validate() != nil {
			return nil, fmt.Errorf("%w: no payment for %s", ErrPaymentNotVerified, o.Number())
		}
		if !p.OrderID().IsEqual(o.ID()) {
			return nil, fmt.Errorf("%w: payment %s belongs to another order", ErrPaymentNotVerified, p.ID())
		}
		if !p.IsVerified() {
			return nil, fmt.Errorf("%w: payment %s is %s", ErrPaymentNotVerified, p.ID(), p.Status())
		}
	}

	pricing := o.Pricing()
	return payout.NewPayout(
		kernel.NewUUID(),
		o.ID(),
		o.PartnerID(),
		pricing.TotalPrice(),
		pricing.PlatformFee(),
		bank,
		now,
	)
}
