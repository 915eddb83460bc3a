// Package feerepo loads the COD fee tiers from the cod_rates table.
package feerepo

import (
	"laundry/internal/core/domain/model/fee"
	"laundry/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CODRateDTO struct {
	ID     uuid.UUID       `gorm:"type:uuid;primaryKey"`
	MinKm  decimal.Decimal `gorm:"column:min_km;type:numeric(10,2)"`
	MaxKm  decimal.Decimal `gorm:"column:max_km;type:numeric(10,2)"`
	Fee    decimal.Decimal `gorm:"type:numeric(14,2)"`
	Active bool
}

func (CODRateDTO) TableName() string {
	return "cod_rates"
}

// FromTier maps a tier to a new row.
func FromTier(t fee.Tier) CODRateDTO {
	return CODRateDTO{
		ID:     kernel.NewUUID().Bytes(),
		MinKm:  t.MinKm(),
		MaxKm:  t.MaxKm(),
		Fee:    t.Fee().Decimal(),
		Active: t.IsActive(),
	}
}

func toTier(dto CODRateDTO) (fee.Tier, error) {
	amount, err := kernel.NewMoney(dto.Fee)
	if err != nil {
		return fee.Tier{}, err
	}
	return fee.NewTier(dto.MinKm, dto.MaxKm, amount, dto.Active)
}
