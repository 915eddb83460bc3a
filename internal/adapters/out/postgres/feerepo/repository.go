package feerepo

import (
	"context"

	"laundry/internal/core/domain/model/fee"
	"laundry/internal/core/domain/model/kernel"

	"gorm.io/gorm"
)

// GormFeeScheduleRepository implements ports.FeeScheduleRepository using GORM.
type GormFeeScheduleRepository struct {
	db         *gorm.DB
	defaultFee kernel.Money
}

// NewGormFeeScheduleRepository returns schedules that fall back to defaultFee
// when no tier matches.
func NewGormFeeScheduleRepository(db *gorm.DB, defaultFee kernel.Money) *GormFeeScheduleRepository {
	return &GormFeeScheduleRepository{
		db:         db,
		defaultFee: defaultFee,
	}
}

// Get loads every tier, inactive ones included; the schedule skips them.
func (r *GormFeeScheduleRepository) Get(ctx context.Context) (fee.Schedule, error) {
	var dtos []CODRateDTO
	if err := r.db.WithContext(ctx).Order("min_km, max_km").Find(&dtos).Error; err != nil {
		return fee.Schedule{}, err
	}

	tiers := make([]fee.Tier, 0, len(dtos))
	for _, dto := range dtos {
		t, err := toTier(dto)
		if err != nil {
			return fee.Schedule{}, err
		}
		tiers = append(tiers, t)
	}

	return fee.NewSchedule(tiers, r.defaultFee), nil
}

// Replace swaps the whole tier table in one statement batch.
func (r *GormFeeScheduleRepository) Replace(ctx context.Context, tiers []fee.Tier) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&CODRateDTO{}).Error; err != nil {
			return err
		}
		if len(tiers) == 0 {
			return nil
		}

		rows := make([]CODRateDTO, 0, len(tiers))
		for _, t := range tiers {
			rows = append(rows, FromTier(t))
		}
		return tx.Create(&rows).Error
	})
}
