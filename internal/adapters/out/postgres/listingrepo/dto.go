// Package listingrepo persists partner listings and their rating aggregate.
package listingrepo

import (
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/listing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ListingDTO struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PartnerID       uuid.UUID       `gorm:"type:uuid;index"`
	Name            string          `gorm:"size:128"`
	PricePerKg      decimal.Decimal `gorm:"type:numeric(14,2)"`
	MinWeight       decimal.Decimal `gorm:"type:numeric(10,2)"`
	Latitude        float64
	Longitude       float64
	Rating          decimal.Decimal `gorm:"type:numeric(2,1)"`
	TotalReviews    int
	CompletedOrders int
	Active          bool
	Open            bool
}

func (ListingDTO) TableName() string {
	return "listings"
}

func FromDomain(l *listing.Listing) ListingDTO {
	return ListingDTO{
		ID:              l.ID().Bytes(),
		PartnerID:       l.PartnerID().Bytes(),
		Name:            l.Name(),
		PricePerKg:      l.PricePerKg().Decimal(),
		MinWeight:       l.MinWeight(),
		Latitude:        l.Location().Latitude(),
		Longitude:       l.Location().Longitude(),
		Rating:          l.Rating(),
		TotalReviews:    l.TotalReviews(),
		CompletedOrders: l.CompletedOrders(),
		Active:          l.IsActive(),
		Open:            l.IsOpen(),
	}
}

func toDomain(dto ListingDTO) (*listing.Listing, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	partnerID, err := kernel.UUIDFromBytes(dto.PartnerID[:])
	if err != nil {
		return nil, err
	}
	price, err := kernel.NewMoney(dto.PricePerKg)
	if err != nil {
		return nil, err
	}
	location, err := kernel.NewCoordinates(dto.Latitude, dto.Longitude)
	if err != nil {
		return nil, err
	}

	return listing.RestoreListing(id, partnerID, dto.Name, price, dto.MinWeight, location,
		dto.Rating, dto.TotalReviews, dto.CompletedOrders, dto.Active, dto.Open)
}
