package queries

import (
	"errors"
	"time"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrGetOrderQueryIsNotConstructed = errors.New(
		"GetOrderQuery must be created via NewGetOrderQuery constructor",
	)
)

// GetOrderQuery reads one order with its status history. Customers and
// partners see only their own orders; admins see all.
type GetOrderQuery struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actor   kernel.Actor
	guard   guard.ConstructorGuard
}

func NewGetOrderQuery(orderID kernel.UUID, actor kernel.Actor) (GetOrderQuery, error) {
	if err := errors.Join(orderID.Validate(), actor.Validate()); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{
		orderID: orderID,
		actor:   actor,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

func (q GetOrderQuery) Actor() kernel.Actor {
	return q.actor
}

// GetOrderQueryResponse is the order as shown to its customer, partner or an admin.
type GetOrderQueryResponse struct {
	ID                kernel.UUID
	Number            string
	CustomerID        kernel.UUID
	ListingID         kernel.UUID
	PartnerID         kernel.UUID
	VoucherID         *kernel.UUID
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
	CODFee            decimal.Decimal
	PlatformFee       decimal.Decimal
	VoucherDiscount   decimal.Decimal
	TotalPrice        decimal.Decimal
	EstimatedDelivery time.Time
	ActualDelivery    *time.Time
	CreatedAt         time.Time
	History           []OrderHistoryEntry
}

type OrderHistoryEntry struct {
	Status    string
	Note      string
	ActorRole string
	ActorID   kernel.UUID
	At        time.Time
}
