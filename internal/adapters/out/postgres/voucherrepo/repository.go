package voucherrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/voucher"
	"laundry/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormVoucherRepository implements ports.VoucherRepository using GORM.
type GormVoucherRepository struct {
	db *gorm.DB
}

func NewGormVoucherRepository(db *gorm.DB) *GormVoucherRepository {
	return &GormVoucherRepository{db: db}
}

// Add stores a voucher. Voucher requests and approval run outside the core;
// Add exists for seeding and tests.
func (r *GormVoucherRepository) Add(ctx context.Context, aggregate *voucher.Voucher) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := FromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormVoucherRepository) Get(ctx context.Context, id kernel.UUID) (*voucher.Voucher, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return r.first(ctx, "voucher", id.String(), "id = ?", id.Bytes())
}

func (r *GormVoucherRepository) GetByCode(ctx context.Context, code string) (*voucher.Voucher, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, errs.NewValueIsRequiredError("code")
	}
	return r.first(ctx, "voucherCode", code, "code = ?", code)
}

func (r *GormVoucherRepository) first(ctx context.Context, name, key, query string, args ...any) (*voucher.Voucher, error) {
	var dto VoucherDTO
	if err := r.db.WithContext(ctx).Where(query, args...).First(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError(name, key)
		}
		return nil, err
	}
	return toDomain(dto)
}

// IncrementUsage is a single conditional update, so two orders racing for the
// last unit of quota cannot both succeed.
func (r *GormVoucherRepository) IncrementUsage(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&VoucherDTO{}).
		Where("id = ? AND used_count < total_quota", id.Bytes()).
		UpdateColumn("used_count", gorm.Expr("used_count + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.Get(ctx, id); err != nil {
			return err
		}
		return fmt.Errorf("%w: %s", voucher.ErrVoucherQuotaExhausted, id)
	}
	return nil
}
