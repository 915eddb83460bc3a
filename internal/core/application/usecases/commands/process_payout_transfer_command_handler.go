package commands

import (
	"context"
	"fmt"
	"time"

	"laundry/internal/core/domain/model/payout"
)

// ProcessPayoutTransferCommandHandler applies one transfer step to a payout.
// The payout state machine rejects out-of-order steps with
// payout.ErrInvalidTransferTransition.
type ProcessPayoutTransferCommandHandler struct {
	uowFactory PayoutUoWFactory
}

func NewProcessPayoutTransferCommandHandler(uowFactory PayoutUoWFactory) ProcessPayoutTransferCommandHandler {
	return ProcessPayoutTransferCommandHandler{
		uowFactory: uowFactory,
	}
}

func (h *ProcessPayoutTransferCommandHandler) Handle(ctx context.Context, cmd ProcessPayoutTransferCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	payoutRepo := uow.PayoutRepository()
	p, err := payoutRepo.Get(ctx, cmd.PayoutID())
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	switch cmd.Action() {
	case TransferStart:
		err = p.StartProcessing(cmd.Admin(), cmd.TransferRef(), cmd.Notes(), now)
	case TransferComplete:
		err = p.Complete(cmd.Admin(), cmd.TransferRef(), cmd.Notes(), now)
	case TransferFail:
		err = p.Fail(cmd.Admin(), cmd.Notes(), now)
	case TransferActionUnknown:
		err = fmt.Errorf("%w: %s", payout.ErrInvalidTransferTransition, cmd.Action())
	}
	if err != nil {
		return err
	}

	if err = payoutRepo.Update(ctx, p); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
