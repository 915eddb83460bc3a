// Package payout models what the marketplace owes a partner for one order
// ("mitra transaction"): the earning after platform commission, a snapshot of
// the destination bank account and the progress of the manual transfer.
package payout

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"laundry/internal/core/domain/model/event"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/partner"
	"laundry/internal/pkg/errs"
)

var (
	ErrPayoutIsNotConstructed = errors.New("Payout must be created via NewPayout or RestorePayout constructor")

	// ErrAlreadySettled is returned when an order already has a payout.
	ErrAlreadySettled = errors.New("order is already settled")

	// ErrInvalidTransferTransition is returned for transfer moves the state machine forbids.
	ErrInvalidTransferTransition = errors.New("invalid payout status transition")
)

// BankAccount is the destination account copied into the payout when it is
// created. Later changes to the partner's account do not affect it.
type BankAccount struct {
	BankName      string
	AccountNumber string
	AccountHolder string
}

// SnapshotOf copies a verified partner account.
func SnapshotOf(account partner.BankAccount) BankAccount {
	return BankAccount{
		BankName:      account.BankName(),
		AccountNumber: account.AccountNumber(),
		AccountHolder: account.AccountHolder(),
	}
}

func (b BankAccount) validate() error {
	var errList []error
	if strings.TrimSpace(b.BankName) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("bankName"))
	}
	if strings.TrimSpace(b.AccountNumber) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("accountNumber"))
	}
	if strings.TrimSpace(b.AccountHolder) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("accountHolder"))
	}
	return errors.Join(errList...)
}

// State is the persisted form of a payout.
type State struct {
	ID            kernel.UUID
	OrderID       kernel.UUID
	PartnerID     kernel.UUID
	GrossAmount   kernel.Money
	PlatformFee   kernel.Money
	Earning       kernel.Money
	NeedsReview   bool
	Bank          BankAccount
	Status        Status
	TransferRef   string
	TransferNotes string
	ProcessedBy   *kernel.UUID
	ProcessedAt   *time.Time
	CompletedBy   *kernel.UUID
	CompletedAt   *time.Time
	FailedAt      *time.Time
	CreatedAt     time.Time
	Version       int
}

// Payout is created once per settled order.
//
// Invariants:
//   - earning = gross - platform fee, or 0 with NeedsReview when that is negative
//   - the bank details never change after creation
//   - the transfer only moves pending -> processing -> completed, or to failed before completion
type Payout struct {
	id            kernel.UUID
	orderID       kernel.UUID
	partnerID     kernel.UUID
	grossAmount   kernel.Money
	platformFee   kernel.Money
	earning       kernel.Money
	needsReview   bool
	bank          BankAccount
	status        Status
	transferRef   string
	transferNotes string
	processedBy   *kernel.UUID
	processedAt   *time.Time
	completedBy   *kernel.UUID
	completedAt   *time.Time
	failedAt      *time.Time
	createdAt     time.Time
	version       int

	event.Recorder
	isConstructed bool
}

// NewPayout computes the partner earning and opens a pending transfer.
//
// Example:
//
//	p, err := payout.NewPayout(kernel.NewUUID(), o.ID(), o.PartnerID(),
//	    kernel.MoneyFromInt(53200), kernel.MoneyFromInt(1200),
//	    payout.SnapshotOf(account), time.Now()) // earning 52000
func NewPayout(
	id, orderID, partnerID kernel.UUID,
	gross, platformFee kernel.Money,
	bank BankAccount,
	now time.Time,
) (*Payout, error) {
	var errList []error
	if gross.IsNegative() {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("grossAmount", fmt.Errorf("%s is negative", gross)))
	}
	if platformFee.IsNegative() {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("platformFee", fmt.Errorf("%s is negative", platformFee)))
	}
	if err := errors.Join(
		id.Validate(),
		orderID.Validate(),
		partnerID.Validate(),
		bank.validate(),
		errors.Join(errList...),
	); err != nil {
		return nil, err
	}

	earning := gross.Sub(platformFee)
	needsReview := earning.IsNegative()
	if needsReview {
		earning = kernel.ZeroMoney()
	}

	p := &Payout{
		id:            id,
		orderID:       orderID,
		partnerID:     partnerID,
		grossAmount:   gross,
		platformFee:   platformFee,
		earning:       earning,
		needsReview:   needsReview,
		bank:          bank,
		status:        StatusPending,
		createdAt:     now,
		isConstructed: true,
	}
	p.Record(event.New(event.PayoutCreated, id, now, map[string]any{
		"orderId":     orderID.String(),
		"partnerId":   partnerID.String(),
		"grossAmount": gross.String(),
		"platformFee": platformFee.String(),
		"earning":     earning.String(),
		"needsReview": needsReview,
	}))
	return p, nil
}

// RestorePayout rebuilds a payout from storage.
func RestorePayout(s State) (*Payout, error) {
	if err := errors.Join(
		s.ID.Validate(),
		s.OrderID.Validate(),
		s.PartnerID.Validate(),
		s.Status.Validate(),
	); err != nil {
		return nil, err
	}

	return &Payout{
		id:            s.ID,
		orderID:       s.OrderID,
		partnerID:     s.PartnerID,
		grossAmount:   s.GrossAmount,
		platformFee:   s.PlatformFee,
		earning:       s.Earning,
		needsReview:   s.NeedsReview,
		bank:          s.Bank,
		status:        s.Status,
		transferRef:   s.TransferRef,
		transferNotes: s.TransferNotes,
		processedBy:   s.ProcessedBy,
		processedAt:   s.ProcessedAt,
		completedBy:   s.CompletedBy,
		completedAt:   s.CompletedAt,
		failedAt:      s.FailedAt,
		createdAt:     s.CreatedAt,
		version:       s.Version,
		isConstructed: true,
	}, nil
}

func (p *Payout) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrPayoutIsNotConstructed
	}
	return nil
}

func (p *Payout) ID() kernel.UUID {
	return p.id
}

func (p *Payout) OrderID() kernel.UUID {
	return p.orderID
}

func (p *Payout) PartnerID() kernel.UUID {
	return p.partnerID
}

// GrossAmount is the order total the customer paid.
func (p *Payout) GrossAmount() kernel.Money {
	return p.grossAmount
}

func (p *Payout) PlatformFee() kernel.Money {
	return p.platformFee
}

func (p *Payout) Earning() kernel.Money {
	return p.earning
}

// NeedsReview is set when the fee exceeded the gross amount and the earning was clamped to zero.
func (p *Payout) NeedsReview() bool {
	return p.needsReview
}

func (p *Payout) Bank() BankAccount {
	return p.bank
}

func (p *Payout) Status() Status {
	return p.status
}

func (p *Payout) TransferRef() string {
	return p.transferRef
}

func (p *Payout) TransferNotes() string {
	return p.transferNotes
}

func (p *Payout) ProcessedBy() *kernel.UUID {
	return p.processedBy
}

func (p *Payout) ProcessedAt() *time.Time {
	return p.processedAt
}

func (p *Payout) CompletedBy() *kernel.UUID {
	return p.completedBy
}

func (p *Payout) CompletedAt() *time.Time {
	return p.completedAt
}

func (p *Payout) FailedAt() *time.Time {
	return p.failedAt
}

func (p *Payout) CreatedAt() time.Time {
	return p.createdAt
}

func (p *Payout) Version() int {
	return p.version
}

func (p *Payout) IncrementVersion() {
	p.version++
}

// StartProcessing marks the transfer as initiated by an admin.
func (p *Payout) StartProcessing(actor kernel.Actor, transferRef, notes string, now time.Time) error {
	if err := p.move(StatusProcessing, actor, transferRef, notes, now, StatusPending); err != nil {
		return err
	}
	id := actor.ID()
	at := now
	p.processedBy = &id
	p.processedAt = &at
	return nil
}

// Complete confirms the money arrived. The transfer must be processing.
func (p *Payout) Complete(actor kernel.Actor, transferRef, notes string, now time.Time) error {
	if err := p.move(StatusCompleted, actor, transferRef, notes, now, StatusProcessing); err != nil {
		return err
	}
	id := actor.ID()
	at := now
	p.completedBy = &id
	p.completedAt = &at
	return nil
}

// Fail abandons a pending or processing transfer.
func (p *Payout) Fail(actor kernel.Actor, notes string, now time.Time) error {
	if err := p.move(StatusFailed, actor, "", notes, now, StatusPending, StatusProcessing); err != nil {
		return err
	}
	at := now
	p.failedAt = &at
	return nil
}

// Void fails a pending payout whose order was cancelled. The cancelling
// actor was authorized by the order, so no transfer capability is needed.
// Transfers already processing are left to an admin.
func (p *Payout) Void(actor kernel.Actor, reason string, now time.Time) error {
	if err := p.transition(StatusFailed, actor, "", reason, now, StatusPending); err != nil {
		return err
	}
	at := now
	p.failedAt = &at
	return nil
}

func (p *Payout) move(target Status, actor kernel.Actor, transferRef, notes string, now time.Time, from ...Status) error {
	if err := actor.Require(kernel.CapManageTransfers); err != nil {
		return err
	}
	return p.transition(target, actor, transferRef, notes, now, from...)
}

func (p *Payout) transition(target Status, actor kernel.Actor, transferRef, notes string, now time.Time, from ...Status) error {
	allowed := false
	for _, s := range from {
		if p.status == s {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransferTransition, p.status, target)
	}

	previous := p.status
	p.status = target
	if ref := strings.TrimSpace(transferRef); ref != "" {
		p.transferRef = ref
	}
	if n := strings.TrimSpace(notes); n != "" {
		p.transferNotes = n
	}

	p.Record(event.New(event.PayoutStatusChanged, p.id, now, map[string]any{
		"orderId":     p.orderID.String(),
		"partnerId":   p.partnerID.String(),
		"from":        previous.String(),
		"to":          target.String(),
		"transferRef": p.transferRef,
		"actorRole":   actor.Role().String(),
		"actorId":     actor.ID().String(),
	}))
	return nil
}
