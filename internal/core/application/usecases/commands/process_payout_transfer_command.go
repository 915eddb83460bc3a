package commands

import (
	"errors"
	"fmt"
	"strings"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/pkg/errs"
	"laundry/internal/pkg/guard"
)

var ErrProcessPayoutTransferCommandIsNotConstructed = errors.New(
	"ProcessPayoutTransferCommand must be created via NewProcessPayoutTransferCommand constructor",
)

// TransferAction is a bookkeeping step of the manual bank transfer to a partner.
type TransferAction int

const (
	TransferActionUnknown TransferAction = iota
	TransferStart
	TransferComplete
	TransferFail
)

func getTransferActionStrings() map[TransferAction]string {
	return map[TransferAction]string{
		TransferActionUnknown: "unknown",
		TransferStart:         "start",
		TransferComplete:      "complete",
		TransferFail:          "fail",
	}
}

func ParseTransferAction(s string) (TransferAction, error) {
	for a, name := range getTransferActionStrings() {
		if a != TransferActionUnknown && name == s {
			return a, nil
		}
	}
	return TransferActionUnknown, errs.NewValueIsInvalidErrorWithCause("action", fmt.Errorf("%q is not a transfer action", s))
}

func (a TransferAction) String() string {
	if s, ok := getTransferActionStrings()[a]; ok {
		return s
	}
	return "unknown"
}

// ProcessPayoutTransferCommand moves a payout through pending, processing,
// completed or failed as the admin performs the bank transfer.
type ProcessPayoutTransferCommand struct { //nolint:recvcheck //using for validation
	payoutID    kernel.UUID
	admin       kernel.Actor
	action      TransferAction
	transferRef string
	notes       string

	guard guard.ConstructorGuard
}

func NewProcessPayoutTransferCommand(
	payoutID kernel.UUID,
	admin kernel.Actor,
	action TransferAction,
	transferRef, notes string,
) (ProcessPayoutTransferCommand, error) {
	var actionErr error
	if action <= TransferActionUnknown || action > TransferFail {
		actionErr = errs.NewValueIsInvalidErrorWithCause("action", fmt.Errorf("%d is not a transfer action", action))
	}

	if err := errors.Join(
		payoutID.Validate(),
		admin.Require(kernel.CapManageTransfers),
		actionErr,
	); err != nil {
		return ProcessPayoutTransferCommand{}, err
	}

	return ProcessPayoutTransferCommand{
		payoutID:    payoutID,
		admin:       admin,
		action:      action,
		transferRef: strings.TrimSpace(transferRef),
		notes:       strings.TrimSpace(notes),
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c ProcessPayoutTransferCommand) Validate() error {
	return c.guard.Validate(ErrProcessPayoutTransferCommandIsNotConstructed)
}

func (c ProcessPayoutTransferCommand) PayoutID() kernel.UUID {
	return c.payoutID
}

func (c ProcessPayoutTransferCommand) Admin() kernel.Actor {
	return c.admin
}

func (c ProcessPayoutTransferCommand) Action() TransferAction {
	return c.action
}

func (c ProcessPayoutTransferCommand) TransferRef() string {
	return c.transferRef
}

func (c ProcessPayoutTransferCommand) Notes() string {
	return c.notes
}
