package commands

import (
	"errors"
	"strings"
	"time"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/pkg/errs"
	"laundry/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrAddressIsRequired = errors.New("pickup and delivery address are required")
)

// OrderDraft is what the customer fills in when placing an order.
type OrderDraft struct {
	ListingID       kernel.UUID
	ServiceType     string
	PaymentMethod   order.PaymentMethod
	Weight          decimal.Decimal
	Pickup          kernel.Coordinates
	PickupAddress   string
	DeliveryAddress string
	PickupTime      time.Time
	Notes           string
	VoucherCode     string
}

// CreateOrderCommand represents a customer placing a laundry order.
// The price is computed by the handler; the command only carries input.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(kernel.NewUUID(), customer, OrderDraft{
//	    ListingID:       listingID,
//	    ServiceType:     "regular",
//	    PaymentMethod:   order.PaymentQRIS,
//	    Weight:          decimal.NewFromInt(5),
//	    Pickup:          pickup,
//	    PickupAddress:   "Jl. Darmo 1",
//	    DeliveryAddress: "Jl. Darmo 1",
//	    PickupTime:      time.Now().Add(2 * time.Hour),
//	    VoucherCode:     "HEMAT10",
//	})
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create order: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	customer kernel.Actor
	draft    OrderDraft

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates identifiers, the payment method, the
// pickup point and the addresses. Weight and listing rules are checked by
// the handler against the listing.
func NewCreateOrderCommand(orderID kernel.UUID, customer kernel.Actor, draft OrderDraft) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setCustomer(customer),
		cmd.setDraft(draft),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c CreateOrderCommand) Customer() kernel.Actor {
	return c.customer
}

func (c CreateOrderCommand) Draft() OrderDraft {
	return c.draft
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setCustomer(customer kernel.Actor) error {
	if err := customer.Require(kernel.CapCreateOrder); err != nil {
		return err
	}

	c.customer = customer
	return nil
}

func (c *CreateOrderCommand) setDraft(d OrderDraft) error {
	var errList []error
	if err := d.ListingID.Validate(); err != nil {
		errList = append(errList, err)
	}
	if err := d.PaymentMethod.Validate(); err != nil {
		errList = append(errList, err)
	}
	if err := d.Pickup.Validate(); err != nil {
		errList = append(errList, err)
	}
	if strings.TrimSpace(d.PickupAddress) == "" || strings.TrimSpace(d.DeliveryAddress) == "" {
		errList = append(errList, ErrAddressIsRequired)
	}
	if d.PickupTime.IsZero() {
		errList = append(errList, errs.NewValueIsRequiredError("pickupTime"))
	}
	if err := errors.Join(errList...); err != nil {
		return err
	}

	d.ServiceType = strings.TrimSpace(d.ServiceType)
	if d.ServiceType == "" {
		d.ServiceType = "regular"
	}
	d.VoucherCode = strings.ToUpper(strings.TrimSpace(d.VoucherCode))
	c.draft = d
	return nil
}
