package commands

import (
	"errors"
	"strings"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/pkg/guard"
)

var ErrConfirmDeliveryCommandIsNotConstructed = errors.New(
	"ConfirmDeliveryCommand must be created via NewConfirmDeliveryCommand constructor",
)

// ConfirmDeliveryCommand is the customer's acknowledgement that the laundry
// arrived. It is the only way an order becomes reviewable.
type ConfirmDeliveryCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	customer kernel.Actor
	note     string

	guard guard.ConstructorGuard
}

func NewConfirmDeliveryCommand(orderID kernel.UUID, customer kernel.Actor, note string) (ConfirmDeliveryCommand, error) {
	cmd := ConfirmDeliveryCommand{
		note:  strings.TrimSpace(note),
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderID.Validate(),
		customer.Require(kernel.CapConfirmDelivery),
	); err != nil {
		return ConfirmDeliveryCommand{}, err
	}

	cmd.orderID = orderID
	cmd.customer = customer
	return cmd, nil
}

func (c ConfirmDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrConfirmDeliveryCommandIsNotConstructed)
}

func (c ConfirmDeliveryCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c ConfirmDeliveryCommand) Customer() kernel.Actor {
	return c.customer
}

func (c ConfirmDeliveryCommand) Note() string {
	return c.note
}
