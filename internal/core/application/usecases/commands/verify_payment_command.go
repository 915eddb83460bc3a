package commands

import (
	"errors"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/pkg/guard"
)

var ErrVerifyPaymentCommandIsNotConstructed = errors.New(
	"VerifyPaymentCommand must be created via NewVerifyPaymentCommand constructor",
)

// VerifyPaymentCommand is an admin's decision on a submitted payment proof.
// Approved verifies the payment, otherwise it is rejected.
type VerifyPaymentCommand struct { //nolint:recvcheck //using for validation
	paymentID kernel.UUID
	admin     kernel.Actor
	approved  bool
	notes     string

	guard guard.ConstructorGuard
}

func NewVerifyPaymentCommand(paymentID kernel.UUID, admin kernel.Actor, approved bool, notes string) (VerifyPaymentCommand, error) {
	if err := errors.Join(
		paymentID.Validate(),
		admin.Require(kernel.CapVerifyPayment),
	); err != nil {
		return VerifyPaymentCommand{}, err
	}

	return VerifyPaymentCommand{
		paymentID: paymentID,
		admin:     admin,
		approved:  approved,
		notes:     notes,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c VerifyPaymentCommand) Validate() error {
	return c.guard.Validate(ErrVerifyPaymentCommandIsNotConstructed)
}

func (c VerifyPaymentCommand) PaymentID() kernel.UUID {
	return c.paymentID
}

func (c VerifyPaymentCommand) Admin() kernel.Actor {
	return c.admin
}

func (c VerifyPaymentCommand) Approved() bool {
	return c.approved
}

func (c VerifyPaymentCommand) Notes() string {
	return c.notes
}
