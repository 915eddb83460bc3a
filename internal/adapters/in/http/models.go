package http

import (
	"time"

	"laundry/internal/core/application/usecases/queries"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/core/domain/model/payout"

	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"
)

// Point is a latitude/longitude pair in request bodies.
type Point struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

func (p Point) coordinates() (kernel.Coordinates, error) {
	return kernel.NewCoordinates(p.Latitude, p.Longitude)
}

type QuoteRequest struct {
	ListingID   openapi_types.UUID  `json:"listingId" validate:"required"`
	Weight      decimal.Decimal     `json:"weight"`
	Distance    decimal.NullDecimal `json:"distance"`
	Pickup      *Point              `json:"pickup"`
	VoucherCode string              `json:"voucherCode" validate:"max=50"`
}

type NewOrderRequest struct {
	ListingID       openapi_types.UUID `json:"listingId" validate:"required"`
	ServiceType     string             `json:"serviceType" validate:"required,max=50"`
	PaymentMethod   string             `json:"paymentMethod" validate:"required,oneof=cod qris bri bca seabank shopee"`
	Weight          decimal.Decimal    `json:"weight"`
	Pickup          Point              `json:"pickup"`
	PickupAddress   string             `json:"pickupAddress" validate:"required,max=500"`
	DeliveryAddress string             `json:"deliveryAddress" validate:"required,max=500"`
	PickupTime      time.Time          `json:"pickupTime" validate:"required"`
	Notes           string             `json:"notes" validate:"max=1000"`
	VoucherCode     string             `json:"voucherCode" validate:"max=50"`
}

type StatusChangeRequest struct {
	Status string `json:"status" validate:"required"`
	Note   string `json:"note" validate:"max=1000"`
}

type NoteRequest struct {
	Note string `json:"note" validate:"max=1000"`
}

type RepriceRequest struct {
	Weight   decimal.Decimal     `json:"weight"`
	Distance decimal.NullDecimal `json:"distance"`
}

type SettlementRequest struct {
	PaymentID *openapi_types.UUID `json:"paymentId"`
}

type PaymentProofRequest struct {
	ProofRef string `json:"proofRef" validate:"required,max=500"`
}

type DecisionRequest struct {
	Approved bool   `json:"approved"`
	Notes    string `json:"notes" validate:"max=1000"`
}

type TransferRequest struct {
	Action      string `json:"action" validate:"required,oneof=start complete fail"`
	TransferRef string `json:"transferRef" validate:"max=100"`
	Notes       string `json:"notes" validate:"max=1000"`
}

type ReviewRequest struct {
	Rating         int    `json:"rating" validate:"required,min=1,max=5"`
	ServiceQuality int    `json:"serviceQuality" validate:"omitempty,min=1,max=5"`
	Cleanliness    int    `json:"cleanliness" validate:"omitempty,min=1,max=5"`
	Speed          int    `json:"speed" validate:"omitempty,min=1,max=5"`
	Comment        string `json:"comment" validate:"max=2000"`
}

type Created struct {
	ID string `json:"id"`
}

type Pricing struct {
	LaundryPrice    string `json:"laundryPrice"`
	CODFee          string `json:"codFee"`
	PlatformFee     string `json:"platformFee"`
	VoucherDiscount string `json:"voucherDiscount"`
	TotalPrice      string `json:"totalPrice"`
}

func pricingOf(p order.Pricing) Pricing {
	return Pricing{
		LaundryPrice:    p.LaundryPrice().String(),
		CODFee:          p.CODFee().String(),
		PlatformFee:     p.PlatformFee().String(),
		VoucherDiscount: p.VoucherDiscount().String(),
		TotalPrice:      p.TotalPrice().String(),
	}
}

type Quote struct {
	Distance       string  `json:"distance"`
	Pricing        Pricing `json:"pricing"`
	VoucherApplied bool    `json:"voucherApplied"`
	VoucherMessage string  `json:"voucherMessage,omitempty"`
}

type HistoryEntry struct {
	Status    string    `json:"status"`
	Note      string    `json:"note,omitempty"`
	ActorRole string    `json:"actorRole"`
	ActorID   string    `json:"actorId"`
	At        time.Time `json:"at"`
}

type Order struct {
	ID                string         `json:"id"`
	Number            string         `json:"number"`
	CustomerID        string         `json:"customerId"`
	ListingID         string         `json:"listingId"`
	PartnerID         string         `json:"partnerId"`
	VoucherID         *string        `json:"voucherId,omitempty"`
	ServiceType       string         `json:"serviceType"`
	PaymentMethod     string         `json:"paymentMethod"`
	Status            string         `json:"status"`
	Paid              bool           `json:"paid"`
	Weight            string         `json:"weight"`
	Distance          string         `json:"distance"`
	PickupAddress     string         `json:"pickupAddress"`
	DeliveryAddress   string         `json:"deliveryAddress"`
	PickupTime        time.Time      `json:"pickupTime"`
	Notes             string         `json:"notes,omitempty"`
	Pricing           Pricing        `json:"pricing"`
	EstimatedDelivery time.Time      `json:"estimatedDelivery"`
	ActualDelivery    *time.Time     `json:"actualDelivery,omitempty"`
	CreatedAt         time.Time      `json:"createdAt"`
	History           []HistoryEntry `json:"history"`
}

func moneyString(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func orderOf(r queries.GetOrderQueryResponse) Order {
	o := Order{
		ID:              r.ID.String(),
		Number:          r.Number,
		CustomerID:      r.CustomerID.String(),
		ListingID:       r.ListingID.String(),
		PartnerID:       r.PartnerID.String(),
		ServiceType:     r.ServiceType,
		PaymentMethod:   r.PaymentMethod,
		Status:          r.Status,
		Paid:            r.Paid,
		Weight:          r.Weight.String(),
		Distance:        r.Distance.String(),
		PickupAddress:   r.PickupAddress,
		DeliveryAddress: r.DeliveryAddress,
		PickupTime:      r.PickupTime,
		Notes:           r.Notes,
		Pricing: Pricing{
			LaundryPrice:    moneyString(r.LaundryPrice),
			CODFee:          moneyString(r.CODFee),
			PlatformFee:     moneyString(r.PlatformFee),
			VoucherDiscount: moneyString(r.VoucherDiscount),
			TotalPrice:      moneyString(r.TotalPrice),
		},
		EstimatedDelivery: r.EstimatedDelivery,
		ActualDelivery:    r.ActualDelivery,
		CreatedAt:         r.CreatedAt,
		History:           make([]HistoryEntry, 0, len(r.History)),
	}
	if r.VoucherID != nil {
		id := r.VoucherID.String()
		o.VoucherID = &id
	}
	for _, h := range r.History {
		o.History = append(o.History, HistoryEntry{
			Status:    h.Status,
			Note:      h.Note,
			ActorRole: h.ActorRole,
			ActorID:   h.ActorID.String(),
			At:        h.At,
		})
	}
	return o
}

type Payout struct {
	ID            string `json:"id"`
	OrderID       string `json:"orderId"`
	PartnerID     string `json:"partnerId"`
	GrossAmount   string `json:"grossAmount"`
	PlatformFee   string `json:"platformFee"`
	Earning       string `json:"earning"`
	Status        string `json:"status"`
	BankName      string `json:"bankName"`
	AccountNumber string `json:"accountNumber"`
	AccountHolder string `json:"accountHolder"`
}

func payoutOf(p *payout.Payout) Payout {
	bank := p.Bank()
	return Payout{
		ID:            p.ID().String(),
		OrderID:       p.OrderID().String(),
		PartnerID:     p.PartnerID().String(),
		GrossAmount:   p.GrossAmount().String(),
		PlatformFee:   p.PlatformFee().String(),
		Earning:       p.Earning().String(),
		Status:        p.Status().String(),
		BankName:      bank.BankName,
		AccountNumber: bank.AccountNumber,
		AccountHolder: bank.AccountHolder,
	}
}

type Earnings struct {
	PartnerID  string `json:"partnerId"`
	Pending    string `json:"pending"`
	Processing string `json:"processing"`
	Completed  string `json:"completed"`
	Total      string `json:"total"`
	Payouts    int    `json:"payouts"`
}

func earningsOf(r queries.GetPartnerEarningsQueryResponse) Earnings {
	return Earnings{
		PartnerID:  r.PartnerID.String(),
		Pending:    r.Pending.String(),
		Processing: r.Processing.String(),
		Completed:  r.Completed.String(),
		Total:      r.Total.String(),
		Payouts:    r.Payouts,
	}
}
