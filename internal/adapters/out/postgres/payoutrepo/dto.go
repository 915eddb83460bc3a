// Package payoutrepo persists partner payouts. The unique index on order_id
// is the storage-level guarantee of one payout per order.
package payoutrepo

import (
	"time"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/payout"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PayoutDTO struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID       uuid.UUID       `gorm:"type:uuid;uniqueIndex:idx_payouts_order_id"`
	PartnerID     uuid.UUID       `gorm:"type:uuid;index"`
	GrossAmount   decimal.Decimal `gorm:"type:numeric(14,2)"`
	PlatformFee   decimal.Decimal `gorm:"type:numeric(14,2)"`
	Earning       decimal.Decimal `gorm:"type:numeric(14,2)"`
	NeedsReview   bool
	Bank          BankDTO `gorm:"embedded;embeddedPrefix:bank_"`
	Status        string  `gorm:"size:16;index"`
	TransferRef   string  `gorm:"size:128"`
	TransferNotes string
	ProcessedBy   *uuid.UUID `gorm:"type:uuid"`
	ProcessedAt   *time.Time
	CompletedBy   *uuid.UUID `gorm:"type:uuid"`
	CompletedAt   *time.Time
	FailedAt      *time.Time
	CreatedAt     time.Time
	Version       int
}

func (PayoutDTO) TableName() string {
	return "payouts"
}

// BankDTO is the bank snapshot taken when the payout was created.
type BankDTO struct {
	Name          string `gorm:"size:64"`
	AccountNumber string `gorm:"size:34"`
	AccountHolder string `gorm:"size:128"`
}

func fromDomain(p *payout.Payout) PayoutDTO {
	return PayoutDTO{
		ID:          p.ID().Bytes(),
		OrderID:     p.OrderID().Bytes(),
		PartnerID:   p.PartnerID().Bytes(),
		GrossAmount: p.GrossAmount().Decimal(),
		PlatformFee: p.PlatformFee().Decimal(),
		Earning:     p.Earning().Decimal(),
		NeedsReview: p.NeedsReview(),
		Bank: BankDTO{
			Name:          p.Bank().BankName,
			AccountNumber: p.Bank().AccountNumber,
			AccountHolder: p.Bank().AccountHolder,
		},
		Status:        p.Status().String(),
		TransferRef:   p.TransferRef(),
		TransferNotes: p.TransferNotes(),
		ProcessedBy:   rawUUID(p.ProcessedBy()),
		ProcessedAt:   p.ProcessedAt(),
		CompletedBy:   rawUUID(p.CompletedBy()),
		CompletedAt:   p.CompletedAt(),
		FailedAt:      p.FailedAt(),
		CreatedAt:     p.CreatedAt(),
		Version:       p.Version(),
	}
}

func toDomain(dto PayoutDTO) (*payout.Payout, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	partnerID, err := kernel.UUIDFromBytes(dto.PartnerID[:])
	if err != nil {
		return nil, err
	}
	status, err := payout.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	processedBy, err := domainUUID(dto.ProcessedBy)
	if err != nil {
		return nil, err
	}
	completedBy, err := domainUUID(dto.CompletedBy)
	if err != nil {
		return nil, err
	}

	amounts := make([]kernel.Money, 0, 3)
	for _, d := range []decimal.Decimal{dto.GrossAmount, dto.PlatformFee, dto.Earning} {
		m, mErr := kernel.NewMoney(d)
		if mErr != nil {
			return nil, mErr
		}
		amounts = append(amounts, m)
	}

	return payout.RestorePayout(payout.State{
		ID:          id,
		OrderID:     orderID,
		PartnerID:   partnerID,
		GrossAmount: amounts[0],
		PlatformFee: amounts[1],
		Earning:     amounts[2],
		NeedsReview: dto.NeedsReview,
		Bank: payout.BankAccount{
			BankName:      dto.Bank.Name,
			AccountNumber: dto.Bank.AccountNumber,
			AccountHolder: dto.Bank.AccountHolder,
		},
		Status:        status,
		TransferRef:   dto.TransferRef,
		TransferNotes: dto.TransferNotes,
		ProcessedBy:   processedBy,
		ProcessedAt:   dto.ProcessedAt,
		CompletedBy:   completedBy,
		CompletedAt:   dto.CompletedAt,
		FailedAt:      dto.FailedAt,
		CreatedAt:     dto.CreatedAt,
		Version:       dto.Version,
	})
}

func rawUUID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func domainUUID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil //nolint:nilnil // absent reference
	}
	id, err := kernel.UUIDFromBytes(raw[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}
