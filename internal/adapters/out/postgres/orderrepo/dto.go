// Package orderrepo maps order aggregates and their status history to the
// orders and order_status_history tables.
package orderrepo

import (
	"time"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO is the orders row. Money, weight and distance use numeric columns.
type OrderDTO struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Number            string          `gorm:"size:10;uniqueIndex"`
	CustomerID        uuid.UUID       `gorm:"type:uuid;index:idx_orders_customer_voucher,priority:1"`
	VoucherID         *uuid.UUID      `gorm:"type:uuid;index:idx_orders_customer_voucher,priority:2"`
	ListingID         uuid.UUID       `gorm:"type:uuid;index"`
	PartnerID         uuid.UUID       `gorm:"type:uuid;index"`
	ServiceType       string          `gorm:"size:32"`
	PaymentMethod     string          `gorm:"size:16"`
	Weight            decimal.Decimal `gorm:"type:numeric(10,2)"`
	Distance          decimal.Decimal `gorm:"type:numeric(10,2)"`
	PickupAddress     string
	DeliveryAddress   string
	PickupTime        time.Time
	Notes             string
	Pricing           PricingDTO `gorm:"embedded"`
	Status            string     `gorm:"size:16;index"`
	Paid              bool
	EstimatedDelivery time.Time
	ActualDelivery    *time.Time
	CreatedAt         time.Time
	Version           int

	History []StatusHistoryDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// PricingDTO is the embedded price breakdown.
type PricingDTO struct {
	LaundryPrice    decimal.Decimal `gorm:"type:numeric(14,2)"`
	CODFee          decimal.Decimal `gorm:"column:cod_fee;type:numeric(14,2)"`
	PlatformFee     decimal.Decimal `gorm:"type:numeric(14,2)"`
	VoucherDiscount decimal.Decimal `gorm:"type:numeric(14,2)"`
	TotalPrice      decimal.Decimal `gorm:"type:numeric(14,2)"`
}

// StatusHistoryDTO is one append-only history row. Seq is the entry's
// position in the order's history.
type StatusHistoryDTO struct {
	OrderID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Seq       int       `gorm:"primaryKey"`
	Status    string    `gorm:"size:16"`
	Note      string
	ActorRole string    `gorm:"size:16"`
	ActorID   uuid.UUID `gorm:"type:uuid"`
	At        time.Time
}

func (StatusHistoryDTO) TableName() string {
	return "order_status_history"
}

func fromDomain(o *order.Order) OrderDTO {
	d := o.Details()
	p := o.Pricing()

	var voucherID *uuid.UUID
	if id := o.VoucherID(); id != nil {
		raw := id.Bytes()
		voucherID = &raw
	}

	return OrderDTO{
		ID:              o.ID().Bytes(),
		Number:          o.Number(),
		CustomerID:      d.CustomerID.Bytes(),
		VoucherID:       voucherID,
		ListingID:       d.ListingID.Bytes(),
		PartnerID:       d.PartnerID.Bytes(),
		ServiceType:     d.ServiceType,
		PaymentMethod:   d.PaymentMethod.String(),
		Weight:          d.Weight,
		Distance:        d.Distance,
		PickupAddress:   d.PickupAddress,
		DeliveryAddress: d.DeliveryAddress,
		PickupTime:      d.PickupTime,
		Notes:           d.Notes,
		Pricing: PricingDTO{
			LaundryPrice:    p.LaundryPrice().Decimal(),
			CODFee:          p.CODFee().Decimal(),
			PlatformFee:     p.PlatformFee().Decimal(),
			VoucherDiscount: p.VoucherDiscount().Decimal(),
			TotalPrice:      p.TotalPrice().Decimal(),
		},
		Status:            o.Status().String(),
		Paid:              o.IsPaid(),
		EstimatedDelivery: o.EstimatedDelivery(),
		ActualDelivery:    o.ActualDelivery(),
		CreatedAt:         o.CreatedAt(),
		Version:           o.Version(),
		History:           historyFromDomain(o),
	}
}

func historyFromDomain(o *order.Order) []StatusHistoryDTO {
	entries := o.History()
	rows := make([]StatusHistoryDTO, 0, len(entries))
	for i, h := range entries {
		rows = append(rows, StatusHistoryDTO{
			OrderID:   o.ID().Bytes(),
			Seq:       i,
			Status:    h.Status().String(),
			Note:      h.Note(),
			ActorRole: h.ActorRole().String(),
			ActorID:   h.ActorID().Bytes(),
			At:        h.At(),
		})
	}
	return rows
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	ids, err := uuidsOf(dto.ID, dto.CustomerID, dto.ListingID, dto.PartnerID)
	if err != nil {
		return nil, err
	}

	var voucherID *kernel.UUID
	if dto.VoucherID != nil {
		vID, vErr := kernel.UUIDFromBytes(dto.VoucherID[:])
		if vErr != nil {
			return nil, vErr
		}
		voucherID = &vID
	}

	method, err := order.ParsePaymentMethod(dto.PaymentMethod)
	if err != nil {
		return nil, err
	}
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	pricing, err := pricingToDomain(dto.Pricing)
	if err != nil {
		return nil, err
	}
	history, err := historyToDomain(dto.History)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(order.State{
		ID:     ids[0],
		Number: dto.Number,
		Details: order.Details{
			CustomerID:      ids[1],
			ListingID:       ids[2],
			PartnerID:       ids[3],
			ServiceType:     dto.ServiceType,
			PaymentMethod:   method,
			Weight:          dto.Weight,
			Distance:        dto.Distance,
			PickupAddress:   dto.PickupAddress,
			DeliveryAddress: dto.DeliveryAddress,
			PickupTime:      dto.PickupTime,
			Notes:           dto.Notes,
		},
		VoucherID:         voucherID,
		Pricing:           pricing,
		Status:            status,
		Paid:              dto.Paid,
		EstimatedDelivery: dto.EstimatedDelivery,
		ActualDelivery:    dto.ActualDelivery,
		History:           history,
		CreatedAt:         dto.CreatedAt,
		Version:           dto.Version,
	})
}

func pricingToDomain(dto PricingDTO) (order.Pricing, error) {
	amounts := make([]kernel.Money, 0, 4)
	for _, d := range []decimal.Decimal{dto.LaundryPrice, dto.CODFee, dto.PlatformFee, dto.VoucherDiscount} {
		m, err := kernel.NewMoney(d)
		if err != nil {
			return order.Pricing{}, err
		}
		amounts = append(amounts, m)
	}
	return order.NewPricing(amounts[0], amounts[1], amounts[2], amounts[3])
}

func historyToDomain(rows []StatusHistoryDTO) ([]order.HistoryEntry, error) {
	entries := make([]order.HistoryEntry, 0, len(rows))
	for _, row := range rows {
		status, err := order.ParseStatus(row.Status)
		if err != nil {
			return nil, err
		}
		role, err := kernel.ParseRole(row.ActorRole)
		if err != nil {
			return nil, err
		}
		actorID, err := kernel.UUIDFromBytes(row.ActorID[:])
		if err != nil {
			return nil, err
		}
		entries = append(entries, order.RestoreHistoryEntry(status, row.Note, role, actorID, row.At))
	}
	return entries, nil
}

func uuidsOf(raw ...uuid.UUID) ([]kernel.UUID, error) {
	ids := make([]kernel.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := kernel.UUIDFromBytes(r[:])
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
