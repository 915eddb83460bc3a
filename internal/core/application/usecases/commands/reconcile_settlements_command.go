package commands

import (
	"errors"
	"fmt"

	"laundry/internal/pkg/errs"
	"laundry/internal/pkg/guard"
)

const DefaultReconcileBatchSize = 50

var ErrReconcileSettlementsCommandIsNotConstructed = errors.New(
	"ReconcileSettlementsCommand must be created via NewReconcileSettlementsCommand constructor",
)

// ReconcileSettlementsCommand settles delivered, paid orders that still have
// no payout, for example because the partner verified a bank account later.
type ReconcileSettlementsCommand struct { //nolint:recvcheck //using for validation
	batchSize int

	guard guard.ConstructorGuard
}

func NewReconcileSettlementsCommand(batchSize int) (ReconcileSettlementsCommand, error) {
	if batchSize <= 0 {
		return ReconcileSettlementsCommand{}, fmt.Errorf("%w: batch size %d", errs.ErrValueIsOutOfRange, batchSize)
	}

	return ReconcileSettlementsCommand{
		batchSize: batchSize,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c ReconcileSettlementsCommand) Validate() error {
	return c.guard.Validate(ErrReconcileSettlementsCommandIsNotConstructed)
}

func (c ReconcileSettlementsCommand) BatchSize() int {
	return c.batchSize
}
