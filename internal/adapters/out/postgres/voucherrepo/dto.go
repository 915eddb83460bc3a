// Package voucherrepo persists vouchers and consumes their quota atomically.
package voucherrepo

import (
	"time"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/voucher"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type VoucherDTO struct {
	ID              uuid.UUID           `gorm:"type:uuid;primaryKey"`
	ListingID       uuid.UUID           `gorm:"type:uuid;index"`
	Code            string              `gorm:"size:32;uniqueIndex"`
	Kind            string              `gorm:"size:32"`
	Value           decimal.Decimal     `gorm:"type:numeric(14,2)"`
	MaxDiscount     decimal.NullDecimal `gorm:"type:numeric(14,2)"`
	MinOrderAmount  decimal.Decimal     `gorm:"type:numeric(14,2)"`
	MinOrderWeight  decimal.Decimal     `gorm:"type:numeric(10,2)"`
	MaxUsagePerUser int
	TotalQuota      int
	UsedCount       int
	ValidFrom       time.Time
	ValidUntil      time.Time
	Active          bool
	Approved        bool
}

func (VoucherDTO) TableName() string {
	return "vouchers"
}

func FromDomain(v *voucher.Voucher) VoucherDTO {
	t := v.Terms()

	var maxDiscount decimal.NullDecimal
	if t.MaxDiscount != nil {
		maxDiscount = decimal.NewNullDecimal(t.MaxDiscount.Decimal())
	}

	return VoucherDTO{
		ID:              v.ID().Bytes(),
		ListingID:       v.ListingID().Bytes(),
		Code:            v.Code(),
		Kind:            t.Kind.String(),
		Value:           t.Value,
		MaxDiscount:     maxDiscount,
		MinOrderAmount:  t.MinOrderAmount.Decimal(),
		MinOrderWeight:  t.MinOrderWeight,
		MaxUsagePerUser: t.MaxUsagePerUser,
		TotalQuota:      t.TotalQuota,
		UsedCount:       v.UsedCount(),
		ValidFrom:       t.ValidFrom,
		ValidUntil:      t.ValidUntil,
		Active:          v.IsActive(),
		Approved:        v.IsApproved(),
	}
}

func toDomain(dto VoucherDTO) (*voucher.Voucher, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	listingID, err := kernel.UUIDFromBytes(dto.ListingID[:])
	if err != nil {
		return nil, err
	}
	minAmount, err := kernel.NewMoney(dto.MinOrderAmount)
	if err != nil {
		return nil, err
	}

	// Kinds written by newer versions restore as KindUnknown and discount nothing.
	kind, kindErr := voucher.ParseKind(dto.Kind)
	if kindErr != nil {
		kind = voucher.KindUnknown
	}

	var maxDiscount *kernel.Money
	if dto.MaxDiscount.Valid {
		m, mErr := kernel.NewMoney(dto.MaxDiscount.Decimal)
		if mErr != nil {
			return nil, mErr
		}
		maxDiscount = &m
	}

	return voucher.RestoreVoucher(id, listingID, dto.Code, voucher.Terms{
		Kind:            kind,
		Value:           dto.Value,
		MaxDiscount:     maxDiscount,
		MinOrderAmount:  minAmount,
		MinOrderWeight:  dto.MinOrderWeight,
		MaxUsagePerUser: dto.MaxUsagePerUser,
		TotalQuota:      dto.TotalQuota,
		ValidFrom:       dto.ValidFrom,
		ValidUntil:      dto.ValidUntil,
	}, dto.UsedCount, dto.Active, dto.Approved)
}
