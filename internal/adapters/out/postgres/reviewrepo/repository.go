package reviewrepo

import (
	"context"
	"errors"
	"fmt"

	"laundry/internal/adapters/out/postgres/pgerr"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/review"
	"laundry/internal/pkg/errs"

	"gorm.io/gorm"
)

const orderConstraint = "idx_reviews_order_id"

// GormReviewRepository implements ports.ReviewRepository using GORM.
type GormReviewRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormReviewRepository(db *gorm.DB, tracker aggregateTracker) *GormReviewRepository {
	return &GormReviewRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormReviewRepository) Add(ctx context.Context, aggregate *review.Review) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerr.IsUniqueViolation(err, orderConstraint) {
			return fmt.Errorf("%w: order %s", review.ErrReviewAlreadySubmitted, aggregate.OrderID())
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormReviewRepository) Update(ctx context.Context, aggregate *review.Review) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&ReviewDTO{}).
		Where("id = ?", dto.ID).
		Select("rating", "service_quality", "cleanliness", "speed", "comment", "approved", "updated_at").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("review", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormReviewRepository) Get(ctx context.Context, id kernel.UUID) (*review.Review, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ReviewDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("review", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormReviewRepository) ApprovedRatings(ctx context.Context, listingID kernel.UUID) ([]int, error) {
	if err := listingID.Validate(); err != nil {
		return nil, err
	}

	ratings := make([]int, 0)
	err := r.db.WithContext(ctx).Model(&ReviewDTO{}).
		Where("listing_id = ? AND approved", listingID.Bytes()).
		Order("created_at").
		Pluck("rating", &ratings).Error
	if err != nil {
		return nil, err
	}
	return ratings, nil
}
