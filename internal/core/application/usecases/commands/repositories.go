// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"laundry/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	ListingRepoFactory interface {
		ListingRepository() ports.ListingRepository
	}

	VoucherRepoFactory interface {
		VoucherRepository() ports.VoucherRepository
	}

	FeeScheduleRepoFactory interface {
		FeeScheduleRepository() ports.FeeScheduleRepository
	}

	PartnerRepoFactory interface {
		PartnerRepository() ports.PartnerRepository
	}

	PaymentRepoFactory interface {
		PaymentRepository() ports.PaymentRepository
	}

	PayoutRepoFactory interface {
		PayoutRepository() ports.PayoutRepository
	}

	ReviewRepoFactory interface {
		ReviewRepository() ports.ReviewRepository
	}

	// SettlementUoW is what settling an order needs: the order, its payment,
	// the partner's bank account and the payout table.
	SettlementUoW interface {
		TxManager
		OrderRepoFactory
		ListingRepoFactory
		PartnerRepoFactory
		PaymentRepoFactory
		PayoutRepoFactory
	}

	// SettlementUoWFactory creates new settlement unit of work instances.
	SettlementUoWFactory interface {
		Create() SettlementUoW
	}

	// OrderingUoW is used to place and reprice orders.
	OrderingUoW interface {
		TxManager
		OrderRepoFactory
		ListingRepoFactory
		VoucherRepoFactory
		FeeScheduleRepoFactory
	}

	// OrderingUoWFactory creates new ordering unit of work instances.
	OrderingUoWFactory interface {
		Create() OrderingUoW
	}

	// PayoutUoW manages transactions for transfer bookkeeping only.
	PayoutUoW interface {
		TxManager
		PayoutRepoFactory
	}

	// PayoutUoWFactory creates new payout unit of work instances.
	PayoutUoWFactory interface {
		Create() PayoutUoW
	}

	// ReviewUoW is used to write reviews and recompute listing ratings.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   reviewRepo := uow.ReviewRepository()
	//   listingRepo := uow.ListingRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	ReviewUoW interface {
		TxManager
		OrderRepoFactory
		ReviewRepoFactory
		ListingRepoFactory
	}

	// ReviewUoWFactory creates new review unit of work instances.
	ReviewUoWFactory interface {
		Create() ReviewUoW
	}
)
