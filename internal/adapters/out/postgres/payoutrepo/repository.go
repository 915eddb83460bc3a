package payoutrepo

import (
	"context"
	"errors"
	"fmt"

	"laundry/internal/adapters/out/postgres/pgerr"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/payout"
	"laundry/internal/pkg/errs"

	"gorm.io/gorm"
)

const orderConstraint = "idx_payouts_order_id"

// GormPayoutRepository implements ports.PayoutRepository using GORM.
type GormPayoutRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormPayoutRepository(db *gorm.DB, tracker aggregateTracker) *GormPayoutRepository {
	return &GormPayoutRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add translates a conflict on the order's unique index into
// payout.ErrAlreadySettled.
func (r *GormPayoutRepository) Add(ctx context.Context, aggregate *payout.Payout) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerr.IsUniqueViolation(err, orderConstraint) {
			return fmt.Errorf("%w: order %s", payout.ErrAlreadySettled, aggregate.OrderID())
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes the transfer state when the stored version still matches.
func (r *GormPayoutRepository) Update(ctx context.Context, aggregate *payout.Payout) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	dto.Version = aggregate.Version() + 1

	result := r.db.WithContext(ctx).Model(&PayoutDTO{}).
		Where("id = ? AND version = ?", dto.ID, aggregate.Version()).
		Select("status", "transfer_ref", "transfer_notes", "processed_by", "processed_at",
			"completed_by", "completed_at", "failed_at", "version").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.Get(ctx, aggregate.ID()); err != nil {
			return err
		}
		return errs.NewConcurrentModificationError("payout", aggregate.ID().String(), aggregate.Version())
	}

	aggregate.IncrementVersion()
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormPayoutRepository) Get(ctx context.Context, id kernel.UUID) (*payout.Payout, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return r.first(ctx, "payout", id, "id = ?")
}

func (r *GormPayoutRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) (*payout.Payout, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}
	return r.first(ctx, "orderID", orderID, "order_id = ?")
}

func (r *GormPayoutRepository) first(ctx context.Context, name string, id kernel.UUID, query string) (*payout.Payout, error) {
	var dto PayoutDTO
	if err := r.db.WithContext(ctx).Where(query, id.Bytes()).First(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError(name, id.String())
		}
		return nil, err
	}
	return toDomain(dto)
}
