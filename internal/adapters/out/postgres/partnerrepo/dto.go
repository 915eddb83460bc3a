// Package partnerrepo reads partner accounts and their verified bank details.
package partnerrepo

import (
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/partner"

	"github.com/google/uuid"
)

// PartnerDTO keeps the bank columns empty until the account is verified.
type PartnerDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	BusinessName  string    `gorm:"size:128"`
	BankName      string    `gorm:"size:64"`
	AccountNumber string    `gorm:"size:34"`
	AccountHolder string    `gorm:"size:128"`
	BankVerified  bool
}

func (PartnerDTO) TableName() string {
	return "partners"
}

func fromDomain(p *partner.Partner) PartnerDTO {
	dto := PartnerDTO{
		ID:           p.ID().Bytes(),
		BusinessName: p.BusinessName(),
	}
	if account, err := p.VerifiedBankAccount(); err == nil {
		dto.BankName = account.BankName()
		dto.AccountNumber = account.AccountNumber()
		dto.AccountHolder = account.AccountHolder()
		dto.BankVerified = true
	}
	return dto
}

func toDomain(dto PartnerDTO) (*partner.Partner, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var account *partner.BankAccount
	if dto.BankVerified {
		a, accountErr := partner.NewBankAccount(dto.BankName, dto.AccountNumber, dto.AccountHolder)
		if accountErr != nil {
			return nil, accountErr
		}
		account = &a
	}

	return partner.RestorePartner(id, dto.BusinessName, account)
}
