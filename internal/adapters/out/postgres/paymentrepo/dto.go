// Package paymentrepo persists payment proofs with optimistic versioning.
package paymentrepo

import (
	"time"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/core/domain/model/payment"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentDTO struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID    uuid.UUID       `gorm:"type:uuid;uniqueIndex:idx_payments_order_id"`
	CustomerID uuid.UUID       `gorm:"type:uuid"`
	Method     string          `gorm:"size:16"`
	Amount     decimal.Decimal `gorm:"type:numeric(14,2)"`
	ProofRef   string
	Status     string     `gorm:"size:16;index"`
	VerifiedBy *uuid.UUID `gorm:"type:uuid"`
	VerifiedAt *time.Time
	AdminNotes string
	CreatedAt  time.Time
	Version    int
}

func (PaymentDTO) TableName() string {
	return "payments"
}

func fromDomain(p *payment.Payment) PaymentDTO {
	var verifiedBy *uuid.UUID
	if id := p.VerifiedBy(); id != nil {
		raw := id.Bytes()
		verifiedBy = &raw
	}

	return PaymentDTO{
		ID:         p.ID().Bytes(),
		OrderID:    p.OrderID().Bytes(),
		CustomerID: p.CustomerID().Bytes(),
		Method:     p.Method().String(),
		Amount:     p.Amount().Decimal(),
		ProofRef:   p.ProofRef(),
		Status:     p.Status().String(),
		VerifiedBy: verifiedBy,
		VerifiedAt: p.VerifiedAt(),
		AdminNotes: p.AdminNotes(),
		CreatedAt:  p.CreatedAt(),
		Version:    p.Version(),
	}
}

func toDomain(dto PaymentDTO) (*payment.Payment, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}
	method, err := order.ParsePaymentMethod(dto.Method)
	if err != nil {
		return nil, err
	}
	status, err := payment.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	amount, err := kernel.NewMoney(dto.Amount)
	if err != nil {
		return nil, err
	}

	var verifiedBy *kernel.UUID
	if dto.VerifiedBy != nil {
		v, vErr := kernel.UUIDFromBytes(dto.VerifiedBy[:])
		if vErr != nil {
			return nil, vErr
		}
		verifiedBy = &v
	}

	return payment.RestorePayment(payment.State{
		ID:         id,
		OrderID:    orderID,
		CustomerID: customerID,
		Method:     method,
		Amount:     amount,
		ProofRef:   dto.ProofRef,
		Status:     status,
		VerifiedBy: verifiedBy,
		VerifiedAt: dto.VerifiedAt,
		AdminNotes: dto.AdminNotes,
		CreatedAt:  dto.CreatedAt,
		Version:    dto.Version,
	})
}
