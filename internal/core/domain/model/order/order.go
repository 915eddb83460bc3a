package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"laundry/internal/core/domain/model/event"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// EstimatedTurnaround is added to the creation time to estimate delivery.
const EstimatedTurnaround = 72 * time.Hour

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// the NewOrder or RestoreOrder factory methods.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrRepriceNotAllowed is returned when the breakdown of an order that is
	// already being processed, paid or closed would change.
	ErrRepriceNotAllowed = errors.New("order can no longer be repriced")

	// ErrOrderCancelled is returned when paying for a cancelled order.
	ErrOrderCancelled = errors.New("order is cancelled")

	// MaxWeight is the heaviest order accepted, in kilograms.
	MaxWeight = decimal.NewFromInt(1000)
)

// Details are the customer-supplied attributes of a new order.
type Details struct {
	CustomerID      kernel.UUID
	ListingID       kernel.UUID
	PartnerID       kernel.UUID
	ServiceType     string
	PaymentMethod   PaymentMethod
	Weight          decimal.Decimal
	Distance        decimal.Decimal
	PickupAddress   string
	DeliveryAddress string
	PickupTime      time.Time
	Notes           string
}

// State is the full persisted state of an order, used by RestoreOrder.
type State struct {
	ID                kernel.UUID
	Number            string
	Details           Details
	VoucherID         *kernel.UUID
	Pricing           Pricing
	Status            Status
	Paid              bool
	EstimatedDelivery time.Time
	ActualDelivery    *time.Time
	History           []HistoryEntry
	CreatedAt         time.Time
	Version           int
}

// Order is the aggregate root of a laundry order. It owns the price
// breakdown, the status lifecycle and its append-only history.
//
// Order follows these invariants:
//   - weight is in (0, 1000] kg with two decimals; distance is not negative
//   - the price breakdown is replaced atomically, never field by field
//   - status only moves forward (or to Cancelled), and every move is recorded in history
//   - actual delivery is stamped only by the customer's confirmation
//   - a delivered COD order is paid
type Order struct {
	id                kernel.UUID
	number            string
	details           Details
	voucherID         *kernel.UUID
	pricing           Pricing
	status            Status
	paid              bool
	estimatedDelivery time.Time
	actualDelivery    *time.Time
	history           []HistoryEntry
	createdAt         time.Time
	version           int

	event.Recorder
	isConstructed bool
}

// NewOrder creates a pending order on behalf of its customer.
//
// Parameters:
//   - id: Unique identifier for the order (must be valid UUID)
//   - details: Customer, listing, addresses, weight and distance
//   - pricing: The breakdown computed by the pricing engine
//   - voucherID: The redeemed voucher, or nil
//   - now: Creation instant
//
// Returns:
//   - *Order: The created order if all validations pass
//   - error: Every validation error found, joined
//
// Example:
//
//	o, err := order.NewOrder(kernel.NewUUID(), order.Details{
//	    CustomerID:      customerID,
//	    ListingID:       l.ID(),
//	    PartnerID:       l.PartnerID(),
//	    ServiceType:     "regular",
//	    PaymentMethod:   order.PaymentCOD,
//	    Weight:          decimal.NewFromInt(5),
//	    Distance:        decimal.RequireFromString("4.2"),
//	    PickupAddress:   "Jl. Darmo 1",
//	    DeliveryAddress: "Jl. Darmo 1",
//	    PickupTime:      now.Add(2 * time.Hour),
//	}, pricing, nil, now)
func NewOrder(id kernel.UUID, details Details, pricing Pricing, voucherID *kernel.UUID, now time.Time) (*Order, error) {
	o := &Order{
		status:            Pending,
		createdAt:         now,
		estimatedDelivery: now.Add(EstimatedTurnaround),
		isConstructed:     true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setDetails(details),
		o.setPricing(pricing),
		o.setVoucher(voucherID),
	); err != nil {
		return nil, err
	}

	customer, err := kernel.NewActor(kernel.RoleCustomer, details.CustomerID)
	if err != nil {
		return nil, err
	}

	o.number = "SB" + id.ShortCode(8)
	o.history = []HistoryEntry{newHistoryEntry(Pending, "order created", customer, now)}
	o.Record(event.New(event.OrderCreated, o.id, now, map[string]any{
		"orderNumber":     o.number,
		"customerId":      details.CustomerID.String(),
		"listingId":       details.ListingID.String(),
		"partnerId":       details.PartnerID.String(),
		"paymentMethod":   details.PaymentMethod.String(),
		"voucherDiscount": pricing.VoucherDiscount().String(),
		"totalPrice":      pricing.TotalPrice().String(),
	}))

	return o, nil
}

// RestoreOrder rebuilds an order from persisted state without raising events.
func RestoreOrder(s State) (*Order, error) {
	o := &Order{
		number:            s.Number,
		paid:              s.Paid,
		estimatedDelivery: s.EstimatedDelivery,
		actualDelivery:    s.ActualDelivery,
		createdAt:         s.CreatedAt,
		version:           s.Version,
		isConstructed:     true,
	}

	if err := errors.Join(
		o.setID(s.ID),
		o.setDetails(s.Details),
		o.setPricing(s.Pricing),
		o.setVoucher(s.VoucherID),
		s.Status.Validate(),
	); err != nil {
		return nil, err
	}

	o.status = s.Status
	o.history = append([]HistoryEntry(nil), s.History...)
	return o, nil
}

// Validate ensures the Order instance was constructed through NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

// Number is the human-readable order number, "SB" followed by eight hex digits.
func (o *Order) Number() string {
	return o.number
}

func (o *Order) CustomerID() kernel.UUID {
	return o.details.CustomerID
}

func (o *Order) ListingID() kernel.UUID {
	return o.details.ListingID
}

func (o *Order) PartnerID() kernel.UUID {
	return o.details.PartnerID
}

func (o *Order) Details() Details {
	return o.details
}

func (o *Order) VoucherID() *kernel.UUID {
	return o.voucherID
}

func (o *Order) Weight() decimal.Decimal {
	return o.details.Weight
}

func (o *Order) Distance() decimal.Decimal {
	return o.details.Distance
}

func (o *Order) Pricing() Pricing {
	return o.pricing
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) PaymentMethod() PaymentMethod {
	return o.details.PaymentMethod
}

func (o *Order) IsCOD() bool {
	return o.details.PaymentMethod.IsCOD()
}

func (o *Order) IsPaid() bool {
	return o.paid
}

func (o *Order) EstimatedDelivery() time.Time {
	return o.estimatedDelivery
}

// ActualDelivery is set once the customer confirms receipt.
func (o *Order) ActualDelivery() *time.Time {
	return o.actualDelivery
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// History returns a copy of the status history, oldest first.
func (o *Order) History() []HistoryEntry {
	return append([]HistoryEntry(nil), o.history...)
}

// Version is the optimistic-lock version read from storage.
func (o *Order) Version() int {
	return o.version
}

// IncrementVersion is called by the repository after a successful write.
func (o *Order) IncrementVersion() {
	o.version++
}

// IsSettleable reports whether the order is delivered and paid, the point at
// which the partner payout is due.
func (o *Order) IsSettleable() bool {
	return o.status == Delivered && o.paid
}

// CanBeReviewed reports whether the customer confirmed delivery.
func (o *Order) CanBeReviewed() bool {
	return o.status == Delivered && o.actualDelivery != nil
}

// Transition moves the order to target on behalf of a partner or admin.
//
// This method enforces the following business rules:
//   - the actor must be an admin or the partner owning the order
//   - target must be later in the lifecycle than the current status, or Cancelled
//   - terminal orders never change
//   - a COD order becomes paid on reaching Delivered
//
// Returns:
//   - nil on success, after appending a history entry
//   - kernel.ErrForbidden or ErrInvalidTransition (wrapped) otherwise
//
// Example:
//
//	if err := o.Transition(order.Processing, partnerActor, "washing", time.Now()); err != nil {
//	    return err
//	}
func (o *Order) Transition(target Status, actor kernel.Actor, note string, now time.Time) error {
	if err := actor.Require(kernel.CapTransitionOrder); err != nil {
		return err
	}
	if actor.Role() == kernel.RolePartner && !actor.ID().IsEqual(o.details.PartnerID) {
		return fmt.Errorf("%w: partner %s does not own order %s", kernel.ErrForbidden, actor.ID(), o.number)
	}

	next, err := o.status.TransitionTo(target)
	if err != nil {
		return err
	}

	o.moveTo(next, actor, note, now)
	return nil
}

// ConfirmDelivery is the customer's acknowledgement of receipt. It is only
// possible while the order is Ready or InTransit, sets it Delivered and stamps
// the actual delivery time, which in turn enables exactly one review.
//
// Example:
//
//	if err := o.ConfirmDelivery(customerActor, "received", time.Now()); err != nil {
//	    return err
//	}
func (o *Order) ConfirmDelivery(actor kernel.Actor, note string, now time.Time) error {
	if err := actor.Require(kernel.CapConfirmDelivery); err != nil {
		return err
	}
	if !actor.ID().IsEqual(o.details.CustomerID) {
		return fmt.Errorf("%w: customer %s did not place order %s", kernel.ErrForbidden, actor.ID(), o.number)
	}
	if o.status != Ready && o.status != InTransit {
		return fmt.Errorf("%w: cannot confirm delivery from %s", ErrInvalidTransition, o.status)
	}

	if note == "" {
		note = "delivery confirmed by customer"
	}
	delivered := now
	o.actualDelivery = &delivered
	o.moveTo(Delivered, actor, note, now)
	o.Record(event.New(event.DeliveryConfirmed, o.id, now, map[string]any{
		"orderNumber": o.number,
		"customerId":  o.details.CustomerID.String(),
	}))
	return nil
}

// Reprice replaces weight, distance and the whole breakdown at once. It is
// allowed only before processing starts and while the order is unpaid.
func (o *Order) Reprice(weight, distance decimal.Decimal, pricing Pricing, actor kernel.Actor, now time.Time) error {
	if err := actor.Require(kernel.CapRepriceOrder); err != nil {
		return err
	}
	if actor.Role() == kernel.RolePartner && !actor.ID().IsEqual(o.details.PartnerID) {
		return fmt.Errorf("%w: partner %s does not own order %s", kernel.ErrForbidden, actor.ID(), o.number)
	}
	if (o.status != Pending && o.status != PickedUp) || o.paid {
		return fmt.Errorf("%w: order %s is %s (paid: %t)", ErrRepriceNotAllowed, o.number, o.status, o.paid)
	}

	details := o.details
	details.Weight = weight
	details.Distance = distance
	if err := pricing.Validate(); err != nil {
		return err
	}
	if err := o.setDetails(details); err != nil {
		return err
	}
	o.pricing = pricing

	o.Record(event.New(event.OrderRepriced, o.id, now, map[string]any{
		"orderNumber": o.number,
		"weightKg":    o.details.Weight.String(),
		"distanceKm":  o.details.Distance.String(),
		"totalPrice":  pricing.TotalPrice().String(),
		"actorRole":   actor.Role().String(),
		"actorId":     actor.ID().String(),
	}))
	return nil
}

// MarkPaid records that the customer's payment was verified. Marking a paid
// order again is a no-op.
func (o *Order) MarkPaid() error {
	if o.status == Cancelled {
		return fmt.Errorf("%w: %s", ErrOrderCancelled, o.number)
	}
	o.paid = true
	return nil
}

func (o *Order) moveTo(next Status, actor kernel.Actor, note string, now time.Time) {
	previous := o.status
	o.status = next
	if next == Delivered && o.IsCOD() {
		o.paid = true
	}

	o.history = append(o.history, newHistoryEntry(next, note, actor, now))
	o.Record(event.New(event.OrderStatusChanged, o.id, now, map[string]any{
		"orderNumber": o.number,
		"from":        previous.String(),
		"to":          next.String(),
		"actorRole":   actor.Role().String(),
		"actorId":     actor.ID().String(),
		"note":        note,
	}))
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setDetails(d Details) error {
	var errList []error

	d.Weight = d.Weight.Round(2)
	d.Distance = d.Distance.Round(2)

	for _, id := range []kernel.UUID{d.CustomerID, d.ListingID, d.PartnerID} {
		if err := id.Validate(); err != nil {
			errList = append(errList, err)
		}
	}
	if err := d.PaymentMethod.Validate(); err != nil {
		errList = append(errList, err)
	}
	if !d.Weight.IsPositive() || d.Weight.GreaterThan(MaxWeight) {
		errList = append(errList, errs.NewValueIsOutOfRangeError("weight", d.Weight.String(), "0 (exclusive)", MaxWeight.String()))
	}
	if d.Distance.IsNegative() {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("distance", fmt.Errorf("%s is negative", d.Distance)))
	}

	d.ServiceType = strings.TrimSpace(d.ServiceType)
	d.PickupAddress = strings.TrimSpace(d.PickupAddress)
	d.DeliveryAddress = strings.TrimSpace(d.DeliveryAddress)
	if d.ServiceType == "" {
		errList = append(errList, errs.NewValueIsRequiredError("serviceType"))
	}
	if d.PickupAddress == "" {
		errList = append(errList, errs.NewValueIsRequiredError("pickupAddress"))
	}
	if d.DeliveryAddress == "" {
		errList = append(errList, errs.NewValueIsRequiredError("deliveryAddress"))
	}

	if err := errors.Join(errList...); err != nil {
		return err
	}

	o.details = d
	return nil
}

func (o *Order) setPricing(p Pricing) error {
	if err := p.Validate(); err != nil {
		return err
	}
	o.pricing = p
	return nil
}

func (o *Order) setVoucher(voucherID *kernel.UUID) error {
	if voucherID == nil {
		o.voucherID = nil
		return nil
	}
	if err := voucherID.Validate(); err != nil {
		return err
	}
	id := *voucherID
	o.voucherID = &id
	return nil
}
