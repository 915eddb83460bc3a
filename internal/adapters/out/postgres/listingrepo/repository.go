package listingrepo

import (
	"context"
	"errors"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/listing"
	"laundry/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormListingRepository implements ports.ListingRepository using GORM.
type GormListingRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormListingRepository(db *gorm.DB, tracker aggregateTracker) *GormListingRepository {
	return &GormListingRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add stores a new listing. Listings are managed outside the core; Add
// exists for seeding and tests.
func (r *GormListingRepository) Add(ctx context.Context, aggregate *listing.Listing) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := FromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormListingRepository) Get(ctx context.Context, id kernel.UUID) (*listing.Listing, error) {
	return r.get(ctx, r.db.WithContext(ctx), id)
}

func (r *GormListingRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*listing.Listing, error) {
	return r.get(ctx, r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormListingRepository) get(_ context.Context, db *gorm.DB, id kernel.UUID) (*listing.Listing, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ListingDTO
	if err := db.First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("listing", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormListingRepository) UpdateRating(ctx context.Context, aggregate *listing.Listing) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&ListingDTO{}).
		Where("id = ?", aggregate.ID().Bytes()).
		Updates(map[string]any{
			"rating":        aggregate.Rating(),
			"total_reviews": aggregate.TotalReviews(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("listing", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormListingRepository) IncrementCompletedOrders(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&ListingDTO{}).
		Where("id = ?", id.Bytes()).
		UpdateColumn("completed_orders", gorm.Expr("completed_orders + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("listing", id.String())
	}
	return nil
}
