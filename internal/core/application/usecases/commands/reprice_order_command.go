package commands

import (
	"errors"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/pkg/errs"
	"laundry/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrRepriceOrderCommandIsNotConstructed = errors.New(
	"RepriceOrderCommand must be created via NewRepriceOrderCommand constructor",
)

// RepriceOrderCommand records the weight measured at pickup and, optionally,
// a corrected distance. The whole breakdown is recomputed from them.
type RepriceOrderCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	actor    kernel.Actor
	weight   decimal.Decimal
	distance decimal.NullDecimal

	guard guard.ConstructorGuard
}

// NewRepriceOrderCommand builds the command. A null distance keeps the
// order's current distance.
//
// Example:
//
//	cmd, err := NewRepriceOrderCommand(orderID, partnerActor,
//	    decimal.RequireFromString("6.4"), decimal.NullDecimal{})
func NewRepriceOrderCommand(
	orderID kernel.UUID,
	actor kernel.Actor,
	weight decimal.Decimal,
	distance decimal.NullDecimal,
) (RepriceOrderCommand, error) {
	cmd := RepriceOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	var distanceErr error
	if distance.Valid && distance.Decimal.IsNegative() {
		distanceErr = errs.NewValueIsOutOfRangeError("distance", distance.Decimal.String(), 0, "unbounded")
	}

	if err := errors.Join(
		orderID.Validate(),
		actor.Require(kernel.CapRepriceOrder),
		distanceErr,
	); err != nil {
		return RepriceOrderCommand{}, err
	}

	cmd.orderID = orderID
	cmd.actor = actor
	cmd.weight = weight
	cmd.distance = distance
	return cmd, nil
}

func (c RepriceOrderCommand) Validate() error {
	return c.guard.Validate(ErrRepriceOrderCommandIsNotConstructed)
}

func (c RepriceOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c RepriceOrderCommand) Actor() kernel.Actor {
	return c.actor
}

func (c RepriceOrderCommand) Weight() decimal.Decimal {
	return c.weight
}

func (c RepriceOrderCommand) Distance() decimal.NullDecimal {
	return c.distance
}
