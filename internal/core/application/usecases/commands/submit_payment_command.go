package commands

import (
	"errors"
	"strings"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/pkg/errs"
	"laundry/internal/pkg/guard"
)

var ErrSubmitPaymentCommandIsNotConstructed = errors.New(
	"SubmitPaymentCommand must be created via NewSubmitPaymentCommand constructor",
)

// SubmitPaymentCommand attaches a transfer proof to an online-paid order.
// ProofRef is an opaque reference to a file stored elsewhere.
type SubmitPaymentCommand struct { //nolint:recvcheck //using for validation
	paymentID kernel.UUID
	orderID   kernel.UUID
	customer  kernel.Actor
	proofRef  string

	guard guard.ConstructorGuard
}

// NewSubmitPaymentCommand builds the command. paymentID is used only when the
// order has no payment yet; otherwise the existing payment is resubmitted.
func NewSubmitPaymentCommand(
	paymentID, orderID kernel.UUID,
	customer kernel.Actor,
	proofRef string,
) (SubmitPaymentCommand, error) {
	cmd := SubmitPaymentCommand{
		guard: guard.NewConstructorGuard(),
	}

	var proofErr error
	proofRef = strings.TrimSpace(proofRef)
	if proofRef == "" {
		proofErr = errs.NewValueIsRequiredError("proofRef")
	}

	if err := errors.Join(
		paymentID.Validate(),
		orderID.Validate(),
		customer.Require(kernel.CapSubmitPayment),
		proofErr,
	); err != nil {
		return SubmitPaymentCommand{}, err
	}

	cmd.paymentID = paymentID
	cmd.orderID = orderID
	cmd.customer = customer
	cmd.proofRef = proofRef
	return cmd, nil
}

func (c SubmitPaymentCommand) Validate() error {
	return c.guard.Validate(ErrSubmitPaymentCommandIsNotConstructed)
}

func (c SubmitPaymentCommand) PaymentID() kernel.UUID {
	return c.paymentID
}

func (c SubmitPaymentCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c SubmitPaymentCommand) Customer() kernel.Actor {
	return c.customer
}

func (c SubmitPaymentCommand) ProofRef() string {
	return c.proofRef
}
