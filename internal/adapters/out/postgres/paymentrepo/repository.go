package paymentrepo

import (
	"context"
	"errors"

	"laundry/internal/adapters/out/postgres/pgerr"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/payment"
	"laundry/internal/pkg/errs"

	"gorm.io/gorm"
)

const orderConstraint = "idx_payments_order_id"

// GormPaymentRepository implements ports.PaymentRepository using GORM.
type GormPaymentRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormPaymentRepository(db *gorm.DB, tracker aggregateTracker) *GormPaymentRepository {
	return &GormPaymentRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add stores the first payment of an order. A second concurrent submission
// for the same order loses on the unique index and reports a stale version.
func (r *GormPaymentRepository) Add(ctx context.Context, aggregate *payment.Payment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerr.IsUniqueViolation(err, orderConstraint) {
			return errs.NewConcurrentModificationError("payment", aggregate.OrderID().String(), aggregate.Version())
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update is a compare-and-swap on the version, so two admins deciding the
// same payment cannot both win.
func (r *GormPaymentRepository) Update(ctx context.Context, aggregate *payment.Payment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	dto.Version = aggregate.Version() + 1

	result := r.db.WithContext(ctx).Model(&PaymentDTO{}).
		Where("id = ? AND version = ?", dto.ID, aggregate.Version()).
		Select("*").
		Omit("id", "order_id", "created_at").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.Get(ctx, aggregate.ID()); err != nil {
			return err
		}
		return errs.NewConcurrentModificationError("payment", aggregate.ID().String(), aggregate.Version())
	}

	aggregate.IncrementVersion()
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormPaymentRepository) Get(ctx context.Context, id kernel.UUID) (*payment.Payment, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return r.first(ctx, "payment", id, "id = ?")
}

func (r *GormPaymentRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) (*payment.Payment, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}
	return r.first(ctx, "orderID", orderID, "order_id = ?")
}

func (r *GormPaymentRepository) first(ctx context.Context, name string, id kernel.UUID, query string) (*payment.Payment, error) {
	var dto PaymentDTO
	if err := r.db.WithContext(ctx).Where(query, id.Bytes()).First(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError(name, id.String())
		}
		return nil, err
	}
	return toDomain(dto)
}
