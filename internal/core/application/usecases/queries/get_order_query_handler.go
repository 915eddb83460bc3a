package queries

import (
	"context"
	"errors"
	"fmt"
	"time"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetOrderQueryHandler reads orders straight from the read tables.
//
// Example:
//
//	handler := NewGetOrderQueryHandler(db)
//	query, _ := NewGetOrderQuery(orderID, actor)
//
//	order, err := handler.Handle(ctx, query)
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    return echo.ErrNotFound
//	}
type GetOrderQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

type orderRow struct {
	ID                uuid.UUID
	Number            string
	CustomerID        uuid.UUID
	ListingID         uuid.UUID
	PartnerID         uuid.UUID
	VoucherID         *uuid.UUID
	ServiceType       string
	PaymentMethod     string
	Status            string
	Paid              bool
	Weight            decimal.Decimal
	Distance          decimal.Decimal
	PickupAddress     string
	DeliveryAddress   string
	PickupTime        time.Time
	Notes             string
	LaundryPrice      decimal.Decimal
	CODFee            decimal.Decimal `gorm:"column:cod_fee"`
	PlatformFee       decimal.Decimal
	VoucherDiscount   decimal.Decimal
	TotalPrice        decimal.Decimal
	EstimatedDelivery time.Time
	ActualDelivery    *time.Time
	CreatedAt         time.Time
}

type historyRow struct {
	Status    string
	Note      string
	ActorRole string
	ActorID   uuid.UUID
	At        time.Time
}

// Handle returns errs.ErrObjectNotFound both for unknown orders and for
// orders the actor may not see, so order ids cannot be probed.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	var rows []orderRow
	err := h.db.WithContext(ctx).Raw(`
		SELECT
			id, number, customer_id, listing_id, partner_id, voucher_id,
			service_type, payment_method, status, paid, weight, distance,
			pickup_address, delivery_address, pickup_time, notes,
			laundry_price, cod_fee, platform_fee, voucher_discount, total_price,
			estimated_delivery, actual_delivery, created_at
		FROM orders
		WHERE id = ?
	`, query.OrderID().Bytes()).Scan(&rows).Error
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	notFound := errs.NewObjectNotFoundError("order", query.OrderID())
	if len(rows) == 0 {
		return GetOrderQueryResponse{}, notFound
	}
	row := rows[0]

	resp, err := row.toResponse()
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	if !canSee(query.Actor(), resp) {
		return GetOrderQueryResponse{}, notFound
	}

	var history []historyRow
	err = h.db.WithContext(ctx).Raw(`
		SELECT status, note, actor_role, actor_id, at
		FROM order_status_history
		WHERE order_id = ?
		ORDER BY seq
	`, query.OrderID().Bytes()).Scan(&history).Error
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	resp.History = make([]OrderHistoryEntry, 0, len(history))
	for _, hr := range history {
		actorID, idErr := kernel.UUIDFromBytes(hr.ActorID[:])
		if idErr != nil {
			return GetOrderQueryResponse{}, fmt.Errorf("history of %s: %w", resp.Number, idErr)
		}
		resp.History = append(resp.History, OrderHistoryEntry{
			Status:    hr.Status,
			Note:      hr.Note,
			ActorRole: hr.ActorRole,
			ActorID:   actorID,
			At:        hr.At,
		})
	}

	return resp, nil
}

func canSee(actor kernel.Actor, o GetOrderQueryResponse) bool {
	return actor.Role() == kernel.RoleAdmin ||
		actor.Is(kernel.RoleCustomer, o.CustomerID) ||
		actor.Is(kernel.RolePartner, o.PartnerID)
}

func (r orderRow) toResponse() (GetOrderQueryResponse, error) {
	id, idErr := kernel.UUIDFromBytes(r.ID[:])
	customerID, customerErr := kernel.UUIDFromBytes(r.CustomerID[:])
	listingID, listingErr := kernel.UUIDFromBytes(r.ListingID[:])
	partnerID, partnerErr := kernel.UUIDFromBytes(r.PartnerID[:])
	if err := errors.Join(idErr, customerErr, listingErr, partnerErr); err != nil {
		return GetOrderQueryResponse{}, err
	}

	var voucherID *kernel.UUID
	if r.VoucherID != nil {
		v, err := kernel.UUIDFromBytes(r.VoucherID[:])
		if err != nil {
			return GetOrderQueryResponse{}, err
		}
		voucherID = &v
	}

	return GetOrderQueryResponse{
		ID:                id,
		Number:            r.Number,
		CustomerID:        customerID,
		ListingID:         listingID,
		PartnerID:         partnerID,
		VoucherID:         voucherID,
		ServiceType:       r.ServiceType,
		PaymentMethod:     r.PaymentMethod,
		Status:            r.Status,
		Paid:              r.Paid,
		Weight:            r.Weight,
		Distance:          r.Distance,
		PickupAddress:     r.PickupAddress,
		DeliveryAddress:   r.DeliveryAddress,
		PickupTime:        r.PickupTime,
		Notes:             r.Notes,
		LaundryPrice:      r.LaundryPrice,
		CODFee:            r.CODFee,
		PlatformFee:       r.PlatformFee,
		VoucherDiscount:   r.VoucherDiscount,
		TotalPrice:        r.TotalPrice,
		EstimatedDelivery: r.EstimatedDelivery,
		ActualDelivery:    r.ActualDelivery,
		CreatedAt:         r.CreatedAt,
	}, nil
}
