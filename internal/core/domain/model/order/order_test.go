package order_test

import (
	"testing"
	"time"

	"laundry/internal/core/domain/model/event"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

func validDetails(method order.PaymentMethod) order.Details {
	return order.Details{
		CustomerID:      kernel.NewUUID(),
		ListingID:       kernel.NewUUID(),
		PartnerID:       kernel.NewUUID(),
		ServiceType:     "regular",
		PaymentMethod:   method,
		Weight:          decimal.NewFromInt(5),
		Distance:        decimal.RequireFromString("4.2"),
		PickupAddress:   "Jl. Darmo 1",
		DeliveryAddress: "Jl. Darmo 1",
		PickupTime:      now.Add(2 * time.Hour),
	}
}

func validPricing(t *testing.T) order.Pricing {
	t.Helper()
	p, err := order.NewPricing(kernel.MoneyFromInt(40000), kernel.MoneyFromInt(12000),
		kernel.MoneyFromInt(1200), kernel.ZeroMoney())
	require.NoError(t, err)
	return p
}

func newOrder(t *testing.T, method order.PaymentMethod) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), validDetails(method), validPricing(t), nil, now)
	require.NoError(t, err)
	return o
}

func actor(t *testing.T, role kernel.Role, id kernel.UUID) kernel.Actor {
	t.Helper()
	a, err := kernel.NewActor(role, id)
	require.NoError(t, err)
	return a
}

func partnerOf(t *testing.T, o *order.Order) kernel.Actor {
	return actor(t, kernel.RolePartner, o.PartnerID())
}

func customerOf(t *testing.T, o *order.Order) kernel.Actor {
	return actor(t, kernel.RoleCustomer, o.CustomerID())
}

func TestNewOrder(t *testing.T) {
	t.Run("should create pending order with one history entry", func(t *testing.T) {
		id := kernel.NewUUID()
		details := validDetails(order.PaymentCOD)

		o, err := order.NewOrder(id, details, validPricing(t), nil, now)

		require.NoError(t, err)
		require.NoError(t, o.Validate())
		assert.True(t, o.ID().IsEqual(id))
		assert.Equal(t, "SB"+id.ShortCode(8), o.Number())
		assert.Equal(t, order.Pending, o.Status())
		assert.False(t, o.IsPaid())
		assert.Nil(t, o.ActualDelivery())
		assert.Equal(t, now.Add(order.EstimatedTurnaround), o.EstimatedDelivery())
		assert.Equal(t, "53200.00", o.Pricing().TotalPrice().String())

		history := o.History()
		require.Len(t, history, 1)
		assert.Equal(t, order.Pending, history[0].Status())
		assert.Equal(t, kernel.RoleCustomer, history[0].ActorRole())
		assert.True(t, history[0].ActorID().IsEqual(details.CustomerID))

		events := o.DomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, event.OrderCreated, events[0].Type())
	})

	t.Run("should round weight and distance to two decimals", func(t *testing.T) {
		details := validDetails(order.PaymentQRIS)
		details.Weight = decimal.RequireFromString("2.345")
		details.Distance = decimal.RequireFromString("1.004")

		o, err := order.NewOrder(kernel.NewUUID(), details, validPricing(t), nil, now)

		require.NoError(t, err)
		assert.Equal(t, "2.35", o.Weight().String())
		assert.Equal(t, "1", o.Distance().String())
	})

	t.Run("should accept the maximum weight", func(t *testing.T) {
		details := validDetails(order.PaymentQRIS)
		details.Weight = decimal.NewFromInt(1000)

		_, err := order.NewOrder(kernel.NewUUID(), details, validPricing(t), nil, now)

		require.NoError(t, err)
	})

	t.Run("should reject weight out of range", func(t *testing.T) {
		for _, w := range []string{"0", "-1", "1000.01", "0.001"} {
			details := validDetails(order.PaymentQRIS)
			details.Weight = decimal.RequireFromString(w)

			o, err := order.NewOrder(kernel.NewUUID(), details, validPricing(t), nil, now)

			require.ErrorIs(t, err, errs.ErrValueIsOutOfRange, w)
			assert.Nil(t, o)
		}
	})

	t.Run("should join every validation error", func(t *testing.T) {
		var invalidID kernel.UUID
		details := validDetails(order.PaymentMethodUnknown)
		details.PickupAddress = "  "
		details.Distance = decimal.NewFromInt(-3)

		o, err := order.NewOrder(invalidID, details, order.Pricing{}, nil, now)

		require.Error(t, err)
		assert.Nil(t, o)
		assert.Contains(t, err.Error(), "UUID must be created")
		assert.Contains(t, err.Error(), "paymentMethod")
		assert.Contains(t, err.Error(), "pickupAddress")
		assert.Contains(t, err.Error(), "distance")
		require.ErrorIs(t, err, order.ErrPricingIsNotConstructed)
	})

	t.Run("should keep voucher reference", func(t *testing.T) {
		voucherID := kernel.NewUUID()

		o, err := order.NewOrder(kernel.NewUUID(), validDetails(order.PaymentBCA), validPricing(t), &voucherID, now)

		require.NoError(t, err)
		require.NotNil(t, o.VoucherID())
		assert.True(t, o.VoucherID().IsEqual(voucherID))
	})
}

func TestOrder_Transition(t *testing.T) {
	t.Run("partner may jump forward", func(t *testing.T) {
		o := newOrder(t, order.PaymentQRIS)

		require.NoError(t, o.Transition(order.Processing, partnerOf(t, o), "washing", now))

		assert.Equal(t, order.Processing, o.Status())
		history := o.History()
		require.Len(t, history, 2)
		assert.Equal(t, order.Processing, history[1].Status())
		assert.Equal(t, "washing", history[1].Note())
		assert.Equal(t, kernel.RolePartner, history[1].ActorRole())
	})

	t.Run("partner may go straight to delivered without stamping actual delivery", func(t *testing.T) {
		o := newOrder(t, order.PaymentQRIS)

		require.NoError(t, o.Transition(order.Delivered, partnerOf(t, o), "", now))

		assert.Equal(t, order.Delivered, o.Status())
		assert.Nil(t, o.ActualDelivery())
		assert.False(t, o.CanBeReviewed())
		assert.False(t, o.IsPaid())
		assert.False(t, o.IsSettleable())
	})

	t.Run("delivered COD order is paid", func(t *testing.T) {
		o := newOrder(t, order.PaymentCOD)

		require.NoError(t, o.Transition(order.Delivered, partnerOf(t, o), "", now))

		assert.True(t, o.IsPaid())
		assert.True(t, o.IsSettleable())
	})

	t.Run("admin may act on any order", func(t *testing.T) {
		o := newOrder(t, order.PaymentQRIS)
		admin := actor(t, kernel.RoleAdmin, kernel.NewUUID())

		require.NoError(t, o.Transition(order.PickedUp, admin, "", now))
		require.NoError(t, o.Transition(order.Cancelled, admin, "customer unreachable", now))

		assert.Equal(t, order.Cancelled, o.Status())
		assert.Len(t, o.History(), 3)
	})

	t.Run("other partner is forbidden", func(t *testing.T) {
		o := newOrder(t, order.PaymentQRIS)
		stranger := actor(t, kernel.RolePartner, kernel.NewUUID())

		err := o.Transition(order.PickedUp, stranger, "", now)

		require.ErrorIs(t, err, kernel.ErrForbidden)
		assert.Equal(t, order.Pending, o.Status())
	})

	t.Run("customer cannot move status", func(t *testing.T) {
		o := newOrder(t, order.PaymentQRIS)

		err := o.Transition(order.Cancelled, customerOf(t, o), "", now)

		require.ErrorIs(t, err, kernel.ErrForbidden)
	})

	t.Run("backward moves leave history untouched", func(t *testing.T) {
		o := newOrder(t, order.PaymentQRIS)
		partner := partnerOf(t, o)
		require.NoError(t, o.Transition(order.Ready, partner, "", now))

		err := o.Transition(order.Processing, partner, "", now)

		require.ErrorIs(t, err, order.ErrInvalidTransition)
		assert.Equal(t, order.Ready, o.Status())
		assert.Len(t, o.History(), 2)
	})

	t.Run("cancelled order is final", func(t *testing.T) {
		o := newOrder(t, order.PaymentQRIS)
		partner := partnerOf(t, o)
		require.NoError(t, o.Transition(order.Cancelled, partner, "", now))

		err := o.Transition(order.Delivered, partner, "", now)

		require.ErrorIs(t, err, order.ErrInvalidTransition)
	})

	t.Run("each move records a status event", func(t *testing.T) {
		o := newOrder(t, order.PaymentQRIS)
		o.ClearDomainEvents()

		require.NoError(t, o.Transition(order.PickedUp, partnerOf(t, o), "", now))

		events := o.DomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, event.OrderStatusChanged, events[0].Type())
		assert.Equal(t, "pending", events[0].Payload()["from"])
		assert.Equal(t, "picked_up", events[0].Payload()["to"])
	})
}

func TestOrder_ConfirmDelivery(t *testing.T) {
	for _, from := range []order.Status{order.Ready, order.InTransit} {
		t.Run("customer confirms from "+from.String(), func(t *testing.T) {
			o := newOrder(t, order.PaymentQRIS)
			require.NoError(t, o.Transition(from, partnerOf(t, o), "", now))
			confirmedAt := now.Add(time.Hour)

			require.NoError(t, o.ConfirmDelivery(customerOf(t, o), "", confirmedAt))

			assert.Equal(t, order.Delivered, o.Status())
			require.NotNil(t, o.ActualDelivery())
			assert.Equal(t, confirmedAt, *o.ActualDelivery())
			assert.True(t, o.CanBeReviewed())

			history := o.History()
			last := history[len(history)-1]
			assert.Equal(t, order.Delivered, last.Status())
			assert.Equal(t, kernel.RoleCustomer, last.ActorRole())
		})
	}

	t.Run("cannot confirm too early", func(t *testing.T) {
		o := newOrder(t, order.PaymentQRIS)
		require.NoError(t, o.Transition(order.Processing, partnerOf(t, o), "", now))

		err := o.ConfirmDelivery(customerOf(t, o), "", now)

		require.ErrorIs(t, err, order.ErrInvalidTransition)
		assert.Nil(t, o.ActualDelivery())
	})

	t.Run("cannot confirm twice", func(t *testing.T) {
		o := newOrder(t, order.PaymentQRIS)
		require.NoError(t, o.Transition(order.Ready, partnerOf(t, o), "", now))
		require.NoError(t, o.ConfirmDelivery(customerOf(t, o), "", now))

		err := o.ConfirmDelivery(customerOf(t, o), "", now)

		require.ErrorIs(t, err, order.ErrInvalidTransition)
	})

	t.Run("only the ordering customer may confirm", func(t *testing.T) {
		o := newOrder(t, order.PaymentQRIS)
		require.NoError(t, o.Transition(order.Ready, partnerOf(t, o), "", now))

		err := o.ConfirmDelivery(actor(t, kernel.RoleCustomer, kernel.NewUUID()), "", now)
		require.ErrorIs(t, err, kernel.ErrForbidden)

		err = o.ConfirmDelivery(partnerOf(t, o), "", now)
		require.ErrorIs(t, err, kernel.ErrForbidden)
		assert.Equal(t, order.Ready, o.Status())
	})

	t.Run("confirmed COD order is settleable", func(t *testing.T) {
		o := newOrder(t, order.PaymentCOD)
		require.NoError(t, o.Transition(order.InTransit, partnerOf(t, o), "", now))

		require.NoError(t, o.ConfirmDelivery(customerOf(t, o), "", now))

		assert.True(t, o.IsSettleable())
	})
}

func TestOrder_Reprice(t *testing.T) {
	newPricing := func(t *testing.T) order.Pricing {
		p, err := order.NewPricing(kernel.MoneyFromInt(56000), kernel.MoneyFromInt(12000),
			kernel.MoneyFromInt(1680), kernel.ZeroMoney())
		require.NoError(t, err)
		return p
	}

	t.Run("partner reprices after pickup", func(t *testing.T) {
		o := newOrder(t, order.PaymentQRIS)
		partner := partnerOf(t, o)
		require.NoError(t, o.Transition(order.PickedUp, partner, "", now))

		err := o.Reprice(decimal.NewFromInt(7), decimal.RequireFromString("4.2"), newPricing(t), partner, now)

		require.NoError(t, err)
		assert.Equal(t, "7", o.Weight().String())
		assert.Equal(t, "69680.00", o.Pricing().TotalPrice().String())
	})

	t.Run("rejected once processing", func(t *testing.T) {
		o := newOrder(t, order.PaymentQRIS)
		partner := partnerOf(t, o)
		require.NoError(t, o.Transition(order.Processing, partner, "", now))

		err := o.Reprice(decimal.NewFromInt(7), decimal.Zero, newPricing(t), partner, now)

		require.ErrorIs(t, err, order.ErrRepriceNotAllowed)
		assert.Equal(t, "53200.00", o.Pricing().TotalPrice().String())
	})

	t.Run("rejected once paid", func(t *testing.T) {
		o := newOrder(t, order.PaymentQRIS)
		require.NoError(t, o.MarkPaid())

		err := o.Reprice(decimal.NewFromInt(7), decimal.Zero, newPricing(t), partnerOf(t, o), now)

		require.ErrorIs(t, err, order.ErrRepriceNotAllowed)
	})

	t.Run("invalid weight keeps previous breakdown", func(t *testing.T) {
		for _, weight := range []decimal.Decimal{decimal.NewFromInt(1001), decimal.Zero} {
			o := newOrder(t, order.PaymentQRIS)
			events := len(o.DomainEvents())

			err := o.Reprice(weight, decimal.NewFromInt(3), newPricing(t), partnerOf(t, o), now)

			require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
			assert.Equal(t, "5", o.Weight().String())
			assert.Equal(t, "4.2", o.Distance().String())
			assert.Equal(t, "40000.00", o.Pricing().LaundryPrice().String())
			assert.Equal(t, "53200.00", o.Pricing().TotalPrice().String())
			assert.Len(t, o.DomainEvents(), events)
		}
	})

	t.Run("customer cannot reprice", func(t *testing.T) {
		o := newOrder(t, order.PaymentQRIS)

		err := o.Reprice(decimal.NewFromInt(7), decimal.Zero, newPricing(t), customerOf(t, o), now)

		require.ErrorIs(t, err, kernel.ErrForbidden)
	})
}

func TestOrder_MarkPaid(t *testing.T) {
	t.Run("is idempotent", func(t *testing.T) {
		o := newOrder(t, order.PaymentBRI)

		require.NoError(t, o.MarkPaid())
		require.NoError(t, o.MarkPaid())
		assert.True(t, o.IsPaid())
	})

	t.Run("cancelled order cannot be paid", func(t *testing.T) {
		o := newOrder(t, order.PaymentBRI)
		require.NoError(t, o.Transition(order.Cancelled, partnerOf(t, o), "", now))

		require.ErrorIs(t, o.MarkPaid(), order.ErrOrderCancelled)
	})
}

func TestRestoreOrder(t *testing.T) {
	t.Run("should rebuild without events", func(t *testing.T) {
		details := validDetails(order.PaymentCOD)
		delivered := now.Add(time.Hour)
		history := []order.HistoryEntry{
			order.RestoreHistoryEntry(order.Pending, "order created", kernel.RoleCustomer, details.CustomerID, now),
			order.RestoreHistoryEntry(order.Delivered, "", kernel.RoleCustomer, details.CustomerID, delivered),
		}

		o, err := order.RestoreOrder(order.State{
			ID:             kernel.NewUUID(),
			Number:         "SB00000001",
			Details:        details,
			Pricing:        validPricing(t),
			Status:         order.Delivered,
			Paid:           true,
			ActualDelivery: &delivered,
			History:        history,
			CreatedAt:      now,
			Version:        4,
		})

		require.NoError(t, err)
		assert.Equal(t, 4, o.Version())
		assert.True(t, o.CanBeReviewed())
		assert.Len(t, o.History(), 2)
		assert.Empty(t, o.DomainEvents())

		o.IncrementVersion()
		assert.Equal(t, 5, o.Version())
	})

	t.Run("should reject unknown status", func(t *testing.T) {
		_, err := order.RestoreOrder(order.State{
			ID:      kernel.NewUUID(),
			Details: validDetails(order.PaymentCOD),
			Pricing: validPricing(t),
		})

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("zero value is not constructed", func(t *testing.T) {
		var o order.Order

		require.ErrorIs(t, o.Validate(), order.ErrOrderIsNotConstructed)
	})
}
