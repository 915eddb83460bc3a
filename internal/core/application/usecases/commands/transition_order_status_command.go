package commands

import (
	"errors"
	"strings"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/pkg/guard"
)

var ErrTransitionOrderStatusCommandIsNotConstructed = errors.New(
	"TransitionOrderStatusCommand must be created via NewTransitionOrderStatusCommand constructor",
)

// TransitionOrderStatusCommand moves an order forward in its lifecycle, or
// cancels it, on behalf of the owning partner or an admin.
//
// Example:
//
//	cmd, err := NewTransitionOrderStatusCommand(orderID, order.Processing, partnerActor, "washing")
//	if err != nil {
//	    return err
//	}
//	err = handler.Handle(ctx, cmd)
type TransitionOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	target  order.Status
	actor   kernel.Actor
	note    string

	guard guard.ConstructorGuard
}

func NewTransitionOrderStatusCommand(
	orderID kernel.UUID,
	target order.Status,
	actor kernel.Actor,
	note string,
) (TransitionOrderStatusCommand, error) {
	cmd := TransitionOrderStatusCommand{
		note:  strings.TrimSpace(note),
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setTarget(target),
		cmd.setActor(actor),
	); err != nil {
		return TransitionOrderStatusCommand{}, err
	}

	return cmd, nil
}

func (c TransitionOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrTransitionOrderStatusCommandIsNotConstructed)
}

func (c TransitionOrderStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c TransitionOrderStatusCommand) Target() order.Status {
	return c.target
}

func (c TransitionOrderStatusCommand) Actor() kernel.Actor {
	return c.actor
}

func (c TransitionOrderStatusCommand) Note() string {
	return c.note
}

func (c *TransitionOrderStatusCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *TransitionOrderStatusCommand) setTarget(target order.Status) error {
	if err := target.Validate(); err != nil {
		return err
	}

	c.target = target
	return nil
}

func (c *TransitionOrderStatusCommand) setActor(actor kernel.Actor) error {
	if err := actor.Require(kernel.CapTransitionOrder); err != nil {
		return err
	}

	c.actor = actor
	return nil
}
