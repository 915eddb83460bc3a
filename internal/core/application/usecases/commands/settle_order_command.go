package commands

import (
	"errors"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/pkg/guard"
)

var ErrSettleOrderCommandIsNotConstructed = errors.New(
	"SettleOrderCommand must be created via NewSettleOrderCommand constructor",
)

// SettleOrderCommand asks for the partner payout of an order explicitly.
// PaymentID, when set, must be the order's verified payment.
type SettleOrderCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	paymentID *kernel.UUID
	admin     kernel.Actor

	guard guard.ConstructorGuard
}

func NewSettleOrderCommand(orderID kernel.UUID, paymentID *kernel.UUID, admin kernel.Actor) (SettleOrderCommand, error) {
	var paymentErr error
	if paymentID != nil {
		paymentErr = paymentID.Validate()
	}

	if err := errors.Join(
		orderID.Validate(),
		paymentErr,
		admin.Require(kernel.CapSettleOrder),
	); err != nil {
		return SettleOrderCommand{}, err
	}

	return SettleOrderCommand{
		orderID:   orderID,
		paymentID: paymentID,
		admin:     admin,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c SettleOrderCommand) Validate() error {
	return c.guard.Validate(ErrSettleOrderCommandIsNotConstructed)
}

func (c SettleOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c SettleOrderCommand) PaymentID() *kernel.UUID {
	return c.paymentID
}

func (c SettleOrderCommand) Admin() kernel.Actor {
	return c.admin
}
