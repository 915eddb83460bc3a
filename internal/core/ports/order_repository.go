// Package ports defines the persistence and messaging contracts of the
// marketplace core. Adapters under internal/adapters implement them.
package ports

import (
	"context"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order together with its status history.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes and appends new history entries. It fails with
	// errs.ErrConcurrentModification when the stored version differs from the
	// aggregate's version.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get returns errs.ErrObjectNotFound for unknown ids.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// CountByCustomerAndVoucher counts the customer's non-cancelled orders that
	// redeemed the voucher.
	CountByCustomerAndVoucher(ctx context.Context, customerID, voucherID kernel.UUID) (int, error)

	// ListSettleableWithoutPayout returns up to limit delivered, paid orders
	// that have no payout yet, oldest first.
	ListSettleableWithoutPayout(ctx context.Context, limit int) ([]*order.Order, error)
}
