package services_test

import (
	"testing"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/core/domain/model/payment"
	"laundry/internal/core/domain/model/payout"
	"laundry/internal/core/domain/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bank = payout.BankAccount{BankName: "BCA", AccountNumber: "1234567890", AccountHolder: "Siti Rahayu"}

func mustActor(t *testing.T, role kernel.Role, id kernel.UUID) kernel.Actor {
	t.Helper()
	a, err := kernel.NewActor(role, id)
	require.NoError(t, err)
	return a
}

func pricedOrder(t *testing.T, method order.PaymentMethod, total, platform int64) *order.Order {
	t.Helper()
	laundry := total - platform
	pricing, err := order.NewPricing(kernel.MoneyFromInt(laundry), kernel.ZeroMoney(), kernel.MoneyFromInt(platform), kernel.ZeroMoney())
	require.NoError(t, err)

	o, err := order.NewOrder(kernel.NewUUID(), order.Details{
		CustomerID:      kernel.NewUUID(),
		ListingID:       kernel.NewUUID(),
		PartnerID:       kernel.NewUUID(),
		ServiceType:     "regular",
		PaymentMethod:   method,
		Weight:          decimal.NewFromInt(5),
		Distance:        decimal.RequireFromString("4.2"),
		PickupAddress:   "Jl. Darmo 1",
		DeliveryAddress: "Jl. Darmo 1",
		PickupTime:      now,
	}, pricing, nil, now)
	require.NoError(t, err)
	return o
}

func verifiedPayment(t *testing.T, o *order.Order) *payment.Payment {
	t.Helper()
	p, err := payment.NewPayment(kernel.NewUUID(), o, "proof", mustActor(t, kernel.RoleCustomer, o.CustomerID()), now)
	require.NoError(t, err)
	require.NoError(t, p.Verify(mustActor(t, kernel.RoleAdmin, kernel.NewUUID()), "", now))
	return p
}

func TestSettlementEngine_Settle(t *testing.T) {
	engine := services.NewSettlementEngine()

	t.Run("verified online payment settles", func(t *testing.T) {
		o := pricedOrder(t, order.PaymentQRIS, 53200, 1200)

		p, err := engine.Settle(o, verifiedPayment(t, o), bank, now)

		require.NoError(t, err)
		assert.True(t, p.OrderID().IsEqual(o.ID()))
		assert.True(t, p.PartnerID().IsEqual(o.PartnerID()))
		assert.Equal(t, "53200.00", p.GrossAmount().String())
		assert.Equal(t, "1200.00", p.PlatformFee().String())
		assert.Equal(t, "52000.00", p.Earning().String())
		assert.Equal(t, bank, p.Bank())
		assert.Equal(t, payout.StatusPending, p.Status())
	})

	t.Run("pending payment is not settled", func(t *testing.T) {
		o := pricedOrder(t, order.PaymentQRIS, 53200, 1200)
		pending, err := payment.NewPayment(kernel.NewUUID(), o, "proof", mustActor(t, kernel.RoleCustomer, o.CustomerID()), now)
		require.NoError(t, err)

		_, err = engine.Settle(o, pending, bank, now)

		require.ErrorIs(t, err, services.ErrPaymentNotVerified)
	})

	t.Run("rejected payment is not settled", func(t *testing.T) {
		o := pricedOrder(t, order.PaymentBCA, 53200, 1200)
		rejected, err := payment.NewPayment(kernel.NewUUID(), o, "proof", mustActor(t, kernel.RoleCustomer, o.CustomerID()), now)
		require.NoError(t, err)
		require.NoError(t, rejected.Reject(mustActor(t, kernel.RoleAdmin, kernel.NewUUID()), "fake", now))

		_, err = engine.Settle(o, rejected, bank, now)

		require.ErrorIs(t, err, services.ErrPaymentNotVerified)
	})

	t.Run("missing or foreign payment is not settled", func(t *testing.T) {
		o := pricedOrder(t, order.PaymentQRIS, 53200, 1200)
		other := pricedOrder(t, order.PaymentQRIS, 10000, 300)

		_, err := engine.Settle(o, nil, bank, now)
		require.ErrorIs(t, err, services.ErrPaymentNotVerified)

		_, err = engine.Settle(o, verifiedPayment(t, other), bank, now)
		require.ErrorIs(t, err, services.ErrPaymentNotVerified)
	})

	t.Run("delivered COD order settles without payment", func(t *testing.T) {
		o := pricedOrder(t, order.PaymentCOD, 20600, 600)
		require.NoError(t, o.Transition(order.Delivered, mustActor(t, kernel.RolePartner, o.PartnerID()), "", now))

		p, err := engine.Settle(o, nil, bank, now)

		require.NoError(t, err)
		assert.Equal(t, "20000.00", p.Earning().String())
	})

	t.Run("undelivered COD order is not settled", func(t *testing.T) {
		o := pricedOrder(t, order.PaymentCOD, 20600, 600)

		_, err := engine.Settle(o, nil, bank, now)

		require.ErrorIs(t, err, services.ErrPaymentNotVerified)
	})

	t.Run("cancelled order is not settled", func(t *testing.T) {
		o := pricedOrder(t, order.PaymentQRIS, 53200, 1200)
		p := verifiedPayment(t, o)
		require.NoError(t, o.Transition(order.Cancelled, mustActor(t, kernel.RoleAdmin, kernel.NewUUID()), "", now))

		_, err := engine.Settle(o, p, bank, now)

		require.ErrorIs(t, err, order.ErrOrderCancelled)
	})

	t.Run("fully discounted order needs review", func(t *testing.T) {
		pricing, err := order.NewPricing(kernel.MoneyFromInt(10000), kernel.ZeroMoney(), kernel.MoneyFromInt(300), kernel.MoneyFromInt(10300))
		require.NoError(t, err)
		o, err := order.NewOrder(kernel.NewUUID(), order.Details{
			CustomerID: kernel.NewUUID(), ListingID: kernel.NewUUID(), PartnerID: kernel.NewUUID(),
			ServiceType: "regular", PaymentMethod: order.PaymentCOD, Weight: decimal.NewFromInt(1),
			PickupAddress: "a", DeliveryAddress: "b", PickupTime: now,
		}, pricing, nil, now)
		require.NoError(t, err)
		require.NoError(t, o.Transition(order.Delivered, mustActor(t, kernel.RolePartner, o.PartnerID()), "", now))

		p, err := engine.Settle(o, nil, bank, now)

		require.NoError(t, err)
		assert.True(t, p.Earning().IsZero())
		assert.True(t, p.NeedsReview())
	})
}
