// Package payment models the proof of an online payment and its manual
// verification by an administrator. COD orders have no Payment.
package payment

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"laundry/internal/core/domain/model/event"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/pkg/errs"
)

var (
	ErrPaymentIsNotConstructed = errors.New("Payment must be created via NewPayment or RestorePayment constructor")

	// ErrCODNeedsNoPayment is returned when a proof is submitted for a cash-on-delivery order.
	ErrCODNeedsNoPayment = errors.New("cash on delivery orders are paid at hand-over")

	// ErrPaymentNotPending is returned when verifying or rejecting a payment that was already decided.
	ErrPaymentNotPending = errors.New("payment is not pending verification")

	// ErrPaymentAlreadyVerified is returned when resubmitting a verified payment.
	ErrPaymentAlreadyVerified = errors.New("payment is already verified")
)

// State is the persisted form of a payment.
type State struct {
	ID         kernel.UUID
	OrderID    kernel.UUID
	CustomerID kernel.UUID
	Method     order.PaymentMethod
	Amount     kernel.Money
	ProofRef   string
	Status     Status
	VerifiedBy *kernel.UUID
	VerifiedAt *time.Time
	AdminNotes string
	CreatedAt  time.Time
	Version    int
}

// Payment is one-to-one with an online order.
//
// Invariants:
//   - the method is never COD
//   - only a pending payment is verified or rejected, and only by an admin
//   - a verified payment is final
type Payment struct {
	id         kernel.UUID
	orderID    kernel.UUID
	customerID kernel.UUID
	method     order.PaymentMethod
	amount     kernel.Money
	proofRef   string
	status     Status
	verifiedBy *kernel.UUID
	verifiedAt *time.Time
	adminNotes string
	createdAt  time.Time
	version    int

	event.Recorder
	isConstructed bool
}

// NewPayment records the customer's proof for o. The amount is the order total
// at submission time.
func NewPayment(id kernel.UUID, o *order.Order, proofRef string, actor kernel.Actor, now time.Time) (*Payment, error) {
	if err := errors.Join(id.Validate(), o.Validate()); err != nil {
		return nil, err
	}
	if err := checkSubmitter(o, actor); err != nil {
		return nil, err
	}

	p := &Payment{
		id:            id,
		orderID:       o.ID(),
		customerID:    o.CustomerID(),
		method:        o.PaymentMethod(),
		createdAt:     now,
		isConstructed: true,
	}
	if err := p.submit(o, proofRef, now); err != nil {
		return nil, err
	}
	return p, nil
}

// RestorePayment rebuilds a payment from storage.
func RestorePayment(s State) (*Payment, error) {
	var methodErr error
	if s.Method.IsCOD() {
		methodErr = ErrCODNeedsNoPayment
	}
	if err := errors.Join(
		s.ID.Validate(),
		s.OrderID.Validate(),
		s.CustomerID.Validate(),
		s.Method.Validate(),
		s.Status.Validate(),
		methodErr,
	); err != nil {
		return nil, err
	}

	return &Payment{
		id:            s.ID,
		orderID:       s.OrderID,
		customerID:    s.CustomerID,
		method:        s.Method,
		amount:        s.Amount,
		proofRef:      s.ProofRef,
		status:        s.Status,
		verifiedBy:    s.VerifiedBy,
		verifiedAt:    s.VerifiedAt,
		adminNotes:    s.AdminNotes,
		createdAt:     s.CreatedAt,
		version:       s.Version,
		isConstructed: true,
	}, nil
}

func (p *Payment) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrPaymentIsNotConstructed
	}
	return nil
}

func (p *Payment) ID() kernel.UUID { return p.id }
func (p *Payment) OrderID() kernel.UUID { return p.orderID }
func (p *Payment) CustomerID() kernel.UUID { return p.customerID }
func (p *Payment) Method() order.PaymentMethod { return p.method }
func (p *Payment) Amount() kernel.Money { return p.amount }
func (p *Payment) ProofRef() string { return p.proofRef }
func (p *Payment) Status() Status { return p.status }
func (p *Payment) VerifiedBy() *kernel.UUID { return p.verifiedBy }
func (p *Payment) VerifiedAt() *time.Time { return p.verifiedAt }
func (p *Payment) AdminNotes() string { return p.adminNotes }
func (p *Payment) CreatedAt() time.Time { return p.createdAt }
func (p *Payment) Version() int { return p.version }
func (p *Payment) IncrementVersion() { p.version++ }
func (p *Payment) IsVerified() bool { return p.status == StatusVerified }

// Resubmit replaces the proof of a pending or rejected payment and puts it
// back in the verification queue.
func (p *Payment) Resubmit(o *order.Order, proofRef string, actor kernel.Actor, now time.Time) error {
	if p.status == StatusVerified {
		return fmt.Errorf("%w: %s", ErrPaymentAlreadyVerified, p.id)
	}
	if !o.ID().IsEqual(p.orderID) {
		return errs.NewValueIsInvalidErrorWithCause("order", fmt.Errorf("payment %s belongs to order %s", p.id, p.orderID))
	}
	if err := checkSubmitter(o, actor); err != nil {
		return err
	}
	return p.submit(o, proofRef, now)
}

// Verify accepts the proof. The caller marks the order paid and settles it
// within the same unit of work.
func (p *Payment) Verify(actor kernel.Actor, notes string, now time.Time) error {
	return p.decide(StatusVerified, event.PaymentVerified, actor, notes, now)
}

// Reject declines the proof. A rejected payment never produces a payout.
func (p *Payment) Reject(actor kernel.Actor, notes string, now time.Time) error {
	return p.decide(StatusRejected, event.PaymentRejected, actor, notes, now)
}

func (p *Payment) decide(target Status, eventType string, actor kernel.Actor, notes string, now time.Time) error {
	if err := actor.Require(kernel.CapVerifyPayment); err != nil {
		return err
	}
	if p.status != StatusPending {
		return fmt.Errorf("%w: %s is %s", ErrPaymentNotPending, p.id, p.status)
	}

	verifier := actor.ID()
	decidedAt := now
	p.status = target
	p.verifiedBy = &verifier
	p.verifiedAt = &decidedAt
	p.adminNotes = strings.TrimSpace(notes)

	p.Record(event.New(eventType, p.id, now, map[string]any{
		"orderId": p.orderID.String(),
		"adminId": verifier.String(),
		"amount":  p.amount.String(),
		"notes":   p.adminNotes,
	}))
	return nil
}

func (p *Payment) submit(o *order.Order, proofRef string, now time.Time) error {
	proofRef = strings.TrimSpace(proofRef)
	if proofRef == "" {
		return errs.NewValueIsRequiredError("proofRef")
	}

	p.amount = o.Pricing().TotalPrice()
	p.proofRef = proofRef
	p.status = StatusPending
	p.verifiedBy = nil
	p.verifiedAt = nil
	p.adminNotes = ""

	p.Record(event.New(event.PaymentSubmitted, p.id, now, map[string]any{
		"orderId":    p.orderID.String(),
		"customerId": p.customerID.String(),
		"method":     p.method.String(),
		"amount":     p.amount.String(),
	}))
	return nil
}

func checkSubmitter(o *order.Order, actor kernel.Actor) error {
	if err := actor.Require(kernel.CapSubmitPayment); err != nil {
		return err
	}
	if !actor.ID().IsEqual(o.CustomerID()) {
		return fmt.Errorf("%w: customer %s did not place order %s", kernel.ErrForbidden, actor.ID(), o.Number())
	}
	if o.IsCOD() {
		return fmt.Errorf("%w: order %s", ErrCODNeedsNoPayment, o.Number())
	}
	if o.Status() == order.Cancelled {
		return fmt.Errorf("%w: %s", order.ErrOrderCancelled, o.Number())
	}
	return nil
}
