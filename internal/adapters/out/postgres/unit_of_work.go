// Package postgres provides the GORM implementation of the unit of work.
//
// A unit of work is one database transaction shared by every repository it
// hands out. Repositories register the aggregates they write; on Commit the
// unit of work drains their domain events into the outbox inside the same
// transaction, so state changes and the events describing them are stored
// together or not at all.
//
// Usage:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() {
//	    _ = uow.Rollback(ctx)
//	}()
//
//	if err := uow.OrderRepository().Update(ctx, o); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Each UnitOfWork instance belongs to a single goroutine. Create a new one
// per command.
package postgres

import (
	"context"

	"laundry/internal/adapters/out/postgres/feerepo"
	"laundry/internal/adapters/out/postgres/listingrepo"
	"laundry/internal/adapters/out/postgres/orderrepo"
	"laundry/internal/adapters/out/postgres/outboxrepo"
	"laundry/internal/adapters/out/postgres/partnerrepo"
	"laundry/internal/adapters/out/postgres/paymentrepo"
	"laundry/internal/adapters/out/postgres/payoutrepo"
	"laundry/internal/adapters/out/postgres/reviewrepo"
	"laundry/internal/adapters/out/postgres/voucherrepo"
	"laundry/internal/core/domain/model/event"
	"laundry/internal/core/domain/model/fee"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/ports"

	"gorm.io/gorm"
)

// trackedAggregate is an aggregate written during the unit of work.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// FeeScheduleDecorator wraps the fee schedule repository, e.g. with a cache.
type FeeScheduleDecorator func(ports.FeeScheduleRepository) ports.FeeScheduleRepository

// Option configures the factory.
type Option func(*GormUnitOfWorkFactory)

// WithDefaultCODFee sets the fee charged when no tier matches.
func WithDefaultCODFee(fee kernel.Money) Option {
	return func(f *GormUnitOfWorkFactory) {
		f.defaultCODFee = fee
	}
}

// WithFeeScheduleDecorator wraps every fee schedule repository handed out.
func WithFeeScheduleDecorator(decorate FeeScheduleDecorator) Option {
	return func(f *GormUnitOfWorkFactory) {
		f.decorateFees = decorate
	}
}

// GormUnitOfWorkFactory creates a fresh unit of work per command.
type GormUnitOfWorkFactory struct {
	db            *gorm.DB
	defaultCODFee kernel.Money
	decorateFees  FeeScheduleDecorator
}

func NewGormUnitOfWorkFactory(db *gorm.DB, opts ...Option) *GormUnitOfWorkFactory {
	f := &GormUnitOfWorkFactory{
		db:            db,
		defaultCODFee: fee.DefaultFee,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		defaultCODFee:     f.defaultCODFee,
		decorateFees:      f.decorateFees,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one database transaction and records the
// aggregates written through its repositories.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	defaultCODFee     kernel.Money
	decorateFees      FeeScheduleDecorator
	trackedAggregates []trackedAggregate
}

// Begin starts the transaction. A second call is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit stores the pending domain events in the outbox and commits. If the
// outbox write fails the transaction is rolled back.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	if err := outboxrepo.NewGormOutboxRepository(uow.tx).Append(ctx, uow.drainEvents()); err != nil {
		_ = uow.tx.Rollback()
		uow.reset()
		return err
	}

	err := uow.tx.Commit().Error
	uow.reset()
	return err
}

// Rollback discards the transaction. It returns gorm.ErrInvalidTransaction
// after Commit, which deferred rollbacks ignore.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.reset()
	return err
}

func (uow *GormUnitOfWork) reset() {
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
}

// drainEvents collects and clears the events of every tracked aggregate in
// tracking order. An aggregate tracked twice contributes its events once.
func (uow *GormUnitOfWork) drainEvents() []event.DomainEvent {
	var events []event.DomainEvent
	for _, tracked := range uow.trackedAggregates {
		source, ok := tracked.Aggregate.(event.Source)
		if !ok {
			continue
		}
		events = append(events, source.DomainEvents()...)
		source.ClearDomainEvents()
	}
	return events
}

// TrackAggregate is called by repositories after a successful write.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

// conn returns the transaction if one is active, otherwise the pool.
func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) ListingRepository() ports.ListingRepository {
	return listingrepo.NewGormListingRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) VoucherRepository() ports.VoucherRepository {
	return voucherrepo.NewGormVoucherRepository(uow.conn())
}

func (uow *GormUnitOfWork) FeeScheduleRepository() ports.FeeScheduleRepository {
	var repo ports.FeeScheduleRepository = feerepo.NewGormFeeScheduleRepository(uow.conn(), uow.defaultCODFee)
	if uow.decorateFees != nil {
		repo = uow.decorateFees(repo)
	}
	return repo
}

func (uow *GormUnitOfWork) PartnerRepository() ports.PartnerRepository {
	return partnerrepo.NewGormPartnerRepository(uow.conn())
}

func (uow *GormUnitOfWork) PaymentRepository() ports.PaymentRepository {
	return paymentrepo.NewGormPaymentRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) PayoutRepository() ports.PayoutRepository {
	return payoutrepo.NewGormPayoutRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) ReviewRepository() ports.ReviewRepository {
	return reviewrepo.NewGormReviewRepository(uow.conn(), uow)
}

// GormOutbox runs relay batches in their own transactions.
type GormOutbox struct {
	db *gorm.DB
}

func NewGormOutbox(db *gorm.DB) *GormOutbox {
	return &GormOutbox{db: db}
}

// WithinTransaction calls fn with an outbox repository bound to a new
// transaction and commits when fn returns nil.
func (o *GormOutbox) WithinTransaction(ctx context.Context, fn func(ports.OutboxRepository) error) error {
	return o.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(outboxrepo.NewGormOutboxRepository(tx))
	})
}
