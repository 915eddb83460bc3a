// Package reviewrepo persists order reviews, at most one per order.
package reviewrepo

import (
	"time"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/review"

	"github.com/google/uuid"
)

type ReviewDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID        uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_reviews_order_id"`
	CustomerID     uuid.UUID `gorm:"type:uuid"`
	ListingID      uuid.UUID `gorm:"type:uuid;index:idx_reviews_listing_approved,priority:1"`
	Rating         int       `gorm:"type:smallint"`
	ServiceQuality int       `gorm:"type:smallint"`
	Cleanliness    int       `gorm:"type:smallint"`
	Speed          int       `gorm:"type:smallint"`
	Comment        string
	Approved       bool `gorm:"index:idx_reviews_listing_approved,priority:2"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (ReviewDTO) TableName() string {
	return "reviews"
}

func fromDomain(r *review.Review) ReviewDTO {
	s := r.Scores()
	return ReviewDTO{
		ID:             r.ID().Bytes(),
		OrderID:        r.OrderID().Bytes(),
		CustomerID:     r.CustomerID().Bytes(),
		ListingID:      r.ListingID().Bytes(),
		Rating:         s.Rating,
		ServiceQuality: s.ServiceQuality,
		Cleanliness:    s.Cleanliness,
		Speed:          s.Speed,
		Comment:        r.Comment(),
		Approved:       r.IsApproved(),
		CreatedAt:      r.CreatedAt(),
		UpdatedAt:      r.UpdatedAt(),
	}
}

func toDomain(dto ReviewDTO) (*review.Review, error) {
	ids := make([]kernel.UUID, 0, 4)
	for _, raw := range []uuid.UUID{dto.ID, dto.OrderID, dto.CustomerID, dto.ListingID} {
		id, err := kernel.UUIDFromBytes(raw[:])
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return review.RestoreReview(review.State{
		ID:         ids[0],
		OrderID:    ids[1],
		CustomerID: ids[2],
		ListingID:  ids[3],
		Scores: review.Scores{
			Rating:         dto.Rating,
			ServiceQuality: dto.ServiceQuality,
			Cleanliness:    dto.Cleanliness,
			Speed:          dto.Speed,
		},
		Comment:   dto.Comment,
		Approved:  dto.Approved,
		CreatedAt: dto.CreatedAt,
		UpdatedAt: dto.UpdatedAt,
	})
}
